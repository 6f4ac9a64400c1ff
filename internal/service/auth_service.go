package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"todoweb/internal/domain"
	"todoweb/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = 24 * time.Hour

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// AuthService issues and verifies session tokens. The token itself is opaque
// to the rest of the application: handlers only ever see the resolved owner
// id coming out of VerifySession.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	// Login checks the credentials and returns the user plus a signed session
	// token. Unknown email and wrong password produce the same error.
	Login(ctx context.Context, req LoginRequest) (*UserResponse, string, error)
	// VerifySession validates the token's signature and expiry and returns
	// the user id it was issued for.
	VerifySession(token string) (uint, error)
}

type authService struct {
	users  repository.UserRepository
	secret []byte
}

func NewAuthService(users repository.UserRepository, secret string) AuthService {
	return &authService{users: users, secret: []byte(secret)}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		log.Printf("Error creating user: %v", err)
		return nil, errors.New("failed to register user")
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*UserResponse, string, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		log.Printf("Error fetching user by email: %v", err)
		return nil, "", errors.New("failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return nil, "", errors.New("failed to log in")
	}

	resp := toUserResponse(user)
	return &resp, signed, nil
}

func (s *authService) VerifySession(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, domain.ErrUnauthenticated
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, domain.ErrUnauthenticated
	}
	return uint(userID), nil
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
