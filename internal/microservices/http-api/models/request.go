package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// Valid reports whether s is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Request is a reader's ask to borrow one or more books. Approved and Rejected
// are terminal.
type Request struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	User      *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    RequestStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Books     []Book        `gorm:"many2many:request_books;joinForeignKey:RequestID;joinReferences:BookID" json:"books"`
	CreatedAt time.Time     `json:"created_at"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
	DecidedBy *uint         `json:"decided_by,omitempty"`
}

func (Request) TableName() string {
	return "loan_requests"
}
