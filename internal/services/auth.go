package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypeBearer = "bearer"

// AuthService handles signup, login and access tokens
type AuthService struct {
	users  UserRepository
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
	now    func() time.Time
}

type accessClaims struct {
	Role models.Role `json:"papel"`
	jwt.RegisteredClaims
}

// NewAuthService accepts HS256, HS384 or HS512
func NewAuthService(users UserRepository, secret, algorithm string, expiry time.Duration) (*AuthService, error) {
	var method jwt.SigningMethod
	switch strings.ToUpper(algorithm) {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, fmt.Errorf("signing secret is empty")
	}

	return &AuthService{
		users:  users,
		secret: []byte(secret),
		method: method,
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// Signup creates a user with a bcrypt hash. A taken email is a conflict.
func (s *AuthService) Signup(ctx context.Context, req *models.UserCreate) (*models.User, error) {
	ctx, span := middleware.StartSpan(ctx, "Auth.Signup")
	defer span.End()

	email := normalizeEmail(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user %s: %w", email, errs.ErrEmailAlreadyExists)
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		middleware.AddSpanError(ctx, err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleReader
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues an access token. Unknown email and wrong
// password fail the same way.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "Auth.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, errs.ErrUserNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// IssueToken signs sub=user id, papel=role and exp=now+expiry
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := accessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, algorithm and expiry
func (s *AuthService) ParseToken(token string) (*models.TokenClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", errs.ErrInvalidToken)
	}

	return &models.TokenClaims{UserID: claims.Subject, Role: claims.Role}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
