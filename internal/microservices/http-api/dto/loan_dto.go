package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type LoanResponse struct {
	ID         uint         `json:"id"`
	RequestID  uint         `json:"request_id"`
	BookID     uint         `json:"book_id"`
	Book       *BookSummary `json:"book,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	DueAt      time.Time    `json:"due_at"`
	ReturnedAt *time.Time   `json:"returned_at,omitempty"`
	Status     string       `json:"status"`
}

func FromLoan(l *models.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		RequestID:  l.RequestID,
		BookID:     l.BookID,
		Book:       summarizeBook(l.Book),
		StartedAt:  l.StartedAt,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		Status:     string(l.Status),
	}
}

func FromLoans(loans []models.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, FromLoan(&loans[i]))
	}
	return out
}
