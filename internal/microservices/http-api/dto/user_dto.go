package dto

import "libraryhub/internal/microservices/http-api/models"

type UserResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

func FromUser(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:       u.ID,
		FullName: u.FullName(),
		Email:    u.Email,
		Role:     string(u.RoleName()),
	}
}

func FromUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *FromUser(&users[i]))
	}
	return out
}
