package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/abduss/uploader/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
	tokenIssuer       = "uploader"
	tokenAudience     = "uploader-api"
)

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, email, passwordHash string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
}

// Service registers owners and issues the bearer tokens that identify them.
type Service struct {
	accounts AccountStore
	secret   []byte
	ttl      time.Duration
	cost     int
	nowFunc  func() time.Time
	parser   *jwt.Parser
}

type ownerClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewService creates a Service with dependencies.
func NewService(accounts AccountStore, cfg config.AuthConfig) *Service {
	s := &Service{
		accounts: accounts,
		secret:   []byte(cfg.TokenSecret),
		ttl:      cfg.TokenTTL,
		cost:     cfg.BcryptCost,
		nowFunc:  time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)
	return s
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	email, err := checkCredentials(email, password)
	if err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create account: %w", err)
	}
	return s.open(account)
}

// Login checks the password and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email, err := checkCredentials(email, password)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.open(account)
}

// Authenticate resolves a bearer token to the owner it was issued for.
func (s *Service) Authenticate(token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrUnauthorized
	}

	var claims ownerClaims
	if _, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return Identity{}, ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrUnauthorized
	}
	return Identity{OwnerID: claims.Subject, Email: claims.Email}, nil
}

func (s *Service) open(account Account) (Session, error) {
	now := s.nowFunc()
	expiresAt := now.Add(s.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ownerClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}

	return Session{Account: account.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

// checkCredentials returns the normalized email.
func checkCredentials(email, password string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidCredentials
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", ErrInvalidCredentials
	}
	return strings.ToLower(addr.Address), nil
}
