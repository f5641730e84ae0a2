package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claims carried by an access token. Role is informational; every operation
// re-reads the caller's role through the Guard.
type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.RoleName `json:"role"`
	jwt.RegisteredClaims
}

// TokenRevoker blacklists access token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RegisterInput is a new reader's profile. Optional fields stay nil when absent.
type RegisterInput struct {
	FirstName       string
	PaternalSurname string
	MaternalSurname *string
	Email           string
	Password        string
	BirthDate       *time.Time
	Phone           *string
	Address         *string
	Gender          *string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string, claims *Claims) error
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	revoker          TokenRevoker
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	logger           *slog.Logger
	now              func() time.Time
}

// NewAuthService wires the auth flow. revoker may be nil, in which case logout
// only revokes the refresh token.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	revoker TokenRevoker,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		revoker:          revoker,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		logger:           logger,
		now:              time.Now,
	}
}

// Register creates a Reader account. Other roles are assigned out of band.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.PaternalSurname) == "" {
		return nil, fmt.Errorf("%w: first name and paternal surname are required", ErrValidation)
	}

	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	role, err := s.userRepo.RoleByName(ctx, models.RoleReader)
	if err != nil {
		return nil, fmt.Errorf("load reader role: %w", err)
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:       strings.TrimSpace(in.FirstName),
		PaternalSurname: strings.TrimSpace(in.PaternalSurname),
		MaternalSurname: in.MaternalSurname,
		Email:           in.Email,
		Password:        hashedPassword,
		RoleID:          role.ID,
		BirthDate:       in.BirthDate,
		Phone:           in.Phone,
		Address:         in.Address,
		Gender:          in.Gender,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Role = role

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.CompareDummy(password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh trades a live refresh token for a new pair. The old one is revoked.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("look up refresh token: %w", err)
	}
	if stored.Revoked {
		return nil, ErrInvalidToken
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issue(ctx, user)
}

// Logout revokes the refresh token and blacklists the current access token.
func (s *authService) Logout(ctx context.Context, refreshToken string, claims *Claims) error {
	if refreshToken != "" {
		stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
		switch {
		case err == nil:
			if claims != nil && stored.UserID != claims.UserID {
				return ErrInvalidToken
			}
			if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
				return fmt.Errorf("revoke refresh token: %w", err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("look up refresh token: %w", err)
		}
	}

	if s.revoker != nil && claims != nil && claims.ID != "" && claims.ExpiresAt != nil {
		ttl := claims.ExpiresAt.Sub(s.now())
		if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

func (s *authService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.RoleName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}
