package models

import "time"

type FineStatus string

const (
	FinePending FineStatus = "Pending"
	FinePaid    FineStatus = "Paid"
	FineWaived  FineStatus = "Waived"
)

// Valid reports whether s is one of the known fine statuses.
func (s FineStatus) Valid() bool {
	switch s {
	case FinePending, FinePaid, FineWaived:
		return true
	}
	return false
}

// Fine is a monetary penalty generated once for an overdue loan. Paid and Waived
// are terminal.
type Fine struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	LoanID      uint       `gorm:"not null;index" json:"loan_id"`
	Loan        *Loan      `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	Amount      float64    `gorm:"not null" json:"amount"`
	GeneratedAt time.Time  `gorm:"not null" json:"generated_at"`
	Status      FineStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  *uint      `json:"resolved_by,omitempty"`
}

func (Fine) TableName() string {
	return "fines"
}
