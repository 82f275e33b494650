package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"countystats/internal/domain"
)

const tokenTTL = 24 * time.Hour

// AuthService handles account registration and login.
type AuthService struct {
	users     domain.UserRepository
	audit     domain.AuditRepository
	jwtSecret []byte
}

func NewAuthService(users domain.UserRepository, audit domain.AuditRepository, jwtSecret []byte) *AuthService {
	return &AuthService{users: users, audit: audit, jwtSecret: jwtSecret}
}

// Register creates a new account with a bcrypt-hashed password. New accounts
// start with no roles and no superuser flag.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: user.Username,
		Action:   "REGISTER",
		Status:   "OK",
	})
	return user, nil
}

// Login verifies the credentials and issues an HS256 JWT with the username
// as subject. Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return "", nil, domain.ErrValidation("invalid username or password")
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrValidation("invalid username or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: user.Username,
		Action:   "LOGIN",
		Status:   "OK",
	})
	return signed, user, nil
}
