package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskhub/domain/relation"
	domain "github.com/example/taskhub/domain/user"
	"github.com/example/taskhub/store"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTooShort is returned when the username is below the minimum length.
	ErrUsernameTooShort = errors.New("username must be at least 5 characters")
	// ErrUserExists is returned when the username is already registered.
	ErrUserExists = errors.New("user with this username already exists")
)

// AuthService handles registration and authentication.
type AuthService struct {
	store  store.Store
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(st store.Store, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		store:  st,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account with empty relationship sets.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if len(username) < domain.MinUsernameLength {
		return nil, ErrUsernameTooShort
	}

	// The hasher owns the password policy; its errors go back as-is.
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordRequired) || errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Projects:     relation.IDSet{},
		Tasks:        relation.IDSet{},
	}

	if err := s.store.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Login authenticates a user and returns tokens.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(u.ID, u.Username)
}

// RefreshTokens generates new access and refresh tokens.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Verify the user still exists
	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.generateTokenPair(u.ID, u.Username)
}

// ValidateToken resolves a bearer credential to a user identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// generateTokenPair generates both access and refresh tokens.
func (s *AuthService) generateTokenPair(userID, username string) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
