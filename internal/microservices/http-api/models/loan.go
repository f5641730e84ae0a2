package models

import "time"

type LoanStatus string

const (
	LoanActive   LoanStatus = "Active"
	LoanOverdue  LoanStatus = "Overdue"
	LoanReturned LoanStatus = "Returned"
)

// OpenLoanStatuses are the statuses of a loan whose book is still out.
var OpenLoanStatuses = []LoanStatus{LoanActive, LoanOverdue}

// Loan is the borrowing of a single book, created when a request is approved.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	RequestID  uint       `gorm:"not null;index" json:"request_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	Book       *Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	DueAt      time.Time  `gorm:"not null;index" json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     LoanStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Fines      []Fine     `gorm:"foreignKey:LoanID" json:"fines,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// OverdueBy returns how long past its due date the loan is at now, or zero.
func (l *Loan) OverdueBy(now time.Time) time.Duration {
	if !now.After(l.DueAt) {
		return 0
	}
	return now.Sub(l.DueAt)
}
