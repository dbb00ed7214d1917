package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"animehub/pkg/models"
)

// Service owns account creation and credential checks. Hashing happens
// here, as an explicit step before the row is written, never as a side
// effect of persistence.
type Service struct {
	Repo   *Repo
	Tokens TokenService
}

func NewService(repo *Repo, tokens TokenService) *Service {
	return &Service{Repo: repo, Tokens: tokens}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.Repo.Create(ctx, strings.TrimSpace(name), email, string(hash))
}

// ValidateCredentials returns the user for a matching active account.
// Unknown email, wrong password and deactivated account all fail with the
// same ErrInvalidCredentials, so callers cannot probe which emails exist.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CheckPassword compares a plaintext password against a user's stored hash.
func (s *Service) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword re-hashes and stores a new password.
func (s *Service) SetPassword(ctx context.Context, userID int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, string(hash))
}
