package models

import (
	"strings"
	"time"
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	FirstName       string     `gorm:"size:100;not null" json:"first_name"`
	PaternalSurname string     `gorm:"size:100;not null" json:"paternal_surname"`
	MaternalSurname *string    `gorm:"size:100" json:"maternal_surname,omitempty"`
	Email           string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	RoleID          uint       `gorm:"not null;index" json:"role_id"`
	Role            *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	BirthDate       *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Phone           *string    `gorm:"size:20" json:"phone,omitempty"`
	Address         *string    `gorm:"size:255" json:"address,omitempty"`
	Gender          *string    `gorm:"size:50" json:"gender,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins the name parts, skipping the optional maternal surname.
func (u *User) FullName() string {
	parts := []string{u.FirstName, u.PaternalSurname}
	if u.MaternalSurname != nil && *u.MaternalSurname != "" {
		parts = append(parts, *u.MaternalSurname)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// RoleName returns the loaded role name, or "" when the role was not preloaded.
func (u *User) RoleName() RoleName {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
