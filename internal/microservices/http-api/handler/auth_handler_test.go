package handler

import (
	"net/http"
	"testing"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	s := setupRouter(t)
	s.auth.On("Register", mockCtx, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "ana@example.com" &&
			in.MaternalSurname == nil &&
			in.BirthDate != nil && in.BirthDate.Equal(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC))
	})).Return(&models.User{
		ID:              1,
		FirstName:       "Ana",
		PaternalSurname: "Ruiz",
		Email:           "ana@example.com",
		Role:            &models.Role{Name: models.RoleReader},
	}, nil)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", `{
		"first_name": "Ana",
		"paternal_surname": "Ruiz",
		"email": "ana@example.com",
		"password": "correct-horse",
		"birth_date": "1990-05-17"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Reader", body["role"])
	assert.Equal(t, "Ana Ruiz", body["full_name"])
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad email", `{"first_name":"A","paternal_surname":"R","email":"nope","password":"correct-horse"}`, "email"},
		{"short password", `{"first_name":"A","paternal_surname":"R","email":"a@b.co","password":"short"}`, "password"},
		{"bad birth date", `{"first_name":"A","paternal_surname":"R","email":"a@b.co","password":"correct-horse","birth_date":"17/05/1990"}`, "birth_date"},
		{"missing surname", `{"first_name":"A","email":"a@b.co","password":"correct-horse"}`, "paternal_surname"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupRouter(t)

			w := s.do(http.MethodPost, "/api/v1/auth/register", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode(t, w)["fields"], tt.field)
		})
	}
}

func TestRegister_EmailInUse(t *testing.T) {
	s := setupRouter(t)
	s.auth.On("Register", mockCtx, mock.Anything).Return(nil, service.ErrEmailInUse)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"first_name":"A","paternal_surname":"R","email":"a@b.co","password":"correct-horse"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["error"])
}

func TestLogin(t *testing.T) {
	s := setupRouter(t)
	pair := &service.TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900}
	user := &models.User{ID: 1, FirstName: "Ana", PaternalSurname: "Ruiz", Email: "ana@example.com", Role: &models.Role{Name: models.RoleLibrarian}}
	s.auth.On("Login", mockCtx, "ana@example.com", "correct-horse").Return(pair, user, nil)
	s.auth.On("Login", mockCtx, "ana@example.com", "wrong").Return(nil, nil, service.ErrInvalidCredentials)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "at", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, "Librarian", body["user"].(map[string]any)["role"])

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh(t *testing.T) {
	s := setupRouter(t)
	s.auth.On("Refresh", mockCtx, "rt").Return(&service.TokenPair{AccessToken: "at2", RefreshToken: "rt2", ExpiresIn: 900}, nil)
	s.auth.On("Refresh", mockCtx, "stale").Return(nil, service.ErrExpiredToken)

	w := s.do(http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"rt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "rt2", body["refresh_token"])
	assert.NotContains(t, body, "user")

	w = s.do(http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s := setupRouter(t)
	s.auth.On("Logout", mockCtx, "rt", mock.MatchedBy(func(c *service.Claims) bool {
		return c != nil && c.UserID == readerID
	})).Return(nil)
	s.auth.On("Logout", mockCtx, "", mock.Anything).Return(nil)

	w := s.do(http.MethodPost, "/api/v1/auth/logout", "reader-token", `{"refresh_token":"rt"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/logout", "reader-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
