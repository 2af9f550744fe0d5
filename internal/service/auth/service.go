package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot tell which of the two failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when the password is shorter than the
	// required minimum.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidToken is returned for expired, malformed or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
)

const minPasswordLen = 8

type UseCase interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
	ParseToken(token string) (*Claims, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Claims is the verified identity carried by an access token.
type Claims struct {
	UserID  int64
	IsStaff bool
}

type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
}

func New(users UserStore, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	const op = "service.auth.Register"

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// Login verifies the credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.auth.Login"

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(u.ID, 10),
		"staff": u.IsStaff,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "service.auth.Me"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// ParseToken verifies the signature and expiry and extracts the identity.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	const op = "service.auth.ParseToken"

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	staff, _ := claims["staff"].(bool)

	return &Claims{UserID: userID, IsStaff: staff}, nil
}

var _ UseCase = (*Service)(nil)
