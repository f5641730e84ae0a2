package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type CreateLoanRequest struct {
	BookIDs []uint `json:"book_ids" binding:"required,min=1,dive,gt=0"`
}

type LoanRequestResponse struct {
	ID        uint          `json:"id"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
	Books     []BookSummary `json:"books"`
}

type ApproveResponse struct {
	Message string         `json:"message"`
	Loans   []LoanResponse `json:"loans"`
}

func FromRequest(r *models.Request) LoanRequestResponse {
	resp := LoanRequestResponse{
		ID:        r.ID,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		DecidedAt: r.DecidedAt,
		User:      FromUser(r.User),
		Books:     make([]BookSummary, 0, len(r.Books)),
	}
	for i := range r.Books {
		resp.Books = append(resp.Books, *summarizeBook(&r.Books[i]))
	}
	return resp
}

func FromRequests(list []models.Request) []LoanRequestResponse {
	out := make([]LoanRequestResponse, 0, len(list))
	for i := range list {
		out = append(out, FromRequest(&list[i]))
	}
	return out
}
