package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"animehub/internal/auth"
	"animehub/pkg/models"
)

var (
	ErrDeactivated   = errors.New("account is deactivated")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type Stats struct {
	TotalAnimes   int `json:"totalAnimes"`
	FavoriteCount int `json:"favoriteCount"`
	JoinedDays    int `json:"joinedDays"`
}

type Service struct {
	Repo  *Repo
	Users *auth.Repo
	Auth  *auth.Service
}

func NewService(repo *Repo, users *auth.Repo, authSvc *auth.Service) *Service {
	return &Service{Repo: repo, Users: users, Auth: authSvc}
}

func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	if u == nil {
		return Stats{}, auth.ErrUserNotFound
	}

	total, err := s.Repo.CountEntries(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	favorites, err := s.Repo.CountFavorites(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalAnimes:   total,
		FavoriteCount: favorites,
		JoinedDays:    int(time.Since(u.CreatedAt).Hours() / 24),
	}, nil
}

// Fields carries a partial profile update; nil means "leave as is".
type Fields struct {
	Name   *string
	Email  *string
	Bio    *string
	Avatar *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, f Fields) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrUserNotFound
	}

	if f.Name != nil && strings.TrimSpace(*f.Name) != "" {
		u.Name = strings.TrimSpace(*f.Name)
	}
	if f.Email != nil && strings.TrimSpace(*f.Email) != "" {
		u.Email = strings.TrimSpace(strings.ToLower(*f.Email))
	}
	if f.Bio != nil {
		u.Bio = *f.Bio
	}
	if f.Avatar != nil {
		u.Avatar = *f.Avatar
	}

	// the unique index catches email collisions, racing updates included
	if err := s.Users.UpdateProfile(ctx, *u); err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return auth.ErrUserNotFound
	}
	if !s.Auth.CheckPassword(u, oldPassword) {
		return ErrWrongPassword
	}
	return s.Auth.SetPassword(ctx, userID, newPassword)
}

func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	return s.Users.Deactivate(ctx, userID)
}

// FullProfile returns the identity with its statistics. A deactivated
// account is not retrievable as a profile.
func (s *Service) FullProfile(ctx context.Context, userID int64) (*models.User, Stats, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, Stats{}, err
	}
	if u == nil {
		return nil, Stats{}, auth.ErrUserNotFound
	}
	if !u.IsActive {
		return nil, Stats{}, ErrDeactivated
	}

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, Stats{}, err
	}
	return u, stats, nil
}
