package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for reader self-registration
type RegisterRequest struct {
	FirstName       string  `json:"first_name" binding:"required,max=100"`
	PaternalSurname string  `json:"paternal_surname" binding:"required,max=100"`
	MaternalSurname *string `json:"maternal_surname" binding:"omitempty,max=100"`
	Email           string  `json:"email" binding:"required,email,max=120"`
	Password        string  `json:"password" binding:"required,min=8,max=72"`
	BirthDate       *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Phone           *string `json:"phone" binding:"omitempty,max=20"`
	Address         *string `json:"address" binding:"omitempty,max=255"`
	Gender          *string `json:"gender" binding:"omitempty,max=50"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"` // seconds
	User         *UserResponse `json:"user,omitempty"`
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest: the refresh token is optional, the access token is always revoked
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
