package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type ProcessFineRequest struct {
	Action string `json:"action" binding:"required"`
}

type FineResponse struct {
	ID          uint          `json:"id"`
	LoanID      uint          `json:"loan_id"`
	Amount      float64       `json:"amount"`
	GeneratedAt time.Time     `json:"generated_at"`
	Status      string        `json:"status"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	User        *UserResponse `json:"user,omitempty"`
	Book        *BookSummary  `json:"book,omitempty"`
}

func FromFine(f *models.Fine) FineResponse {
	resp := FineResponse{
		ID:          f.ID,
		LoanID:      f.LoanID,
		Amount:      f.Amount,
		GeneratedAt: f.GeneratedAt,
		Status:      string(f.Status),
		ResolvedAt:  f.ResolvedAt,
	}
	if f.Loan != nil {
		resp.User = FromUser(f.Loan.User)
		resp.Book = summarizeBook(f.Loan.Book)
	}
	return resp
}

func FromFines(fines []models.Fine) []FineResponse {
	out := make([]FineResponse, 0, len(fines))
	for i := range fines {
		out = append(out, FromFine(&fines[i]))
	}
	return out
}
