package dto

import "libraryhub/internal/microservices/http-api/models"

type CreateBookRequest struct {
	ISBN    string   `json:"isbn" binding:"required,max=20"`
	Title   string   `json:"title" binding:"required,max=255"`
	Copies  *int     `json:"copies" binding:"required,min=0"`
	Authors []string `json:"authors" binding:"omitempty,dive,required,max=150"`
	Genres  []string `json:"genres" binding:"omitempty,dive,required,max=100"`
}

type BookResponse struct {
	ID      uint     `json:"id"`
	ISBN    string   `json:"isbn"`
	Title   string   `json:"title"`
	Copies  int      `json:"copies"`
	Authors []string `json:"authors"`
	Genres  []string `json:"genres"`
}

// BookSummary is the short form embedded in requests, loans and fines.
type BookSummary struct {
	ID    uint   `json:"id"`
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
}

func FromBook(b *models.Book) BookResponse {
	resp := BookResponse{
		ID:      b.ID,
		ISBN:    b.ISBN,
		Title:   b.Title,
		Copies:  b.Copies,
		Authors: make([]string, 0, len(b.Authors)),
		Genres:  make([]string, 0, len(b.Genres)),
	}
	for _, a := range b.Authors {
		resp.Authors = append(resp.Authors, a.Name)
	}
	for _, g := range b.Genres {
		resp.Genres = append(resp.Genres, g.Name)
	}
	return resp
}

func summarizeBook(b *models.Book) *BookSummary {
	if b == nil {
		return nil
	}
	return &BookSummary{ID: b.ID, ISBN: b.ISBN, Title: b.Title}
}
