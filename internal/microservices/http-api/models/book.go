package models

import "time"

// Book is a catalog entry. Copies counts the lendable copies on the shelf and is
// only changed by request approval (decrement) and loan return (increment).
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ISBN      string    `gorm:"size:20;uniqueIndex;not null" json:"isbn"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Copies    int       `gorm:"not null;check:copies >= 0" json:"copies"`
	Authors   []Author  `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	Genres    []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
