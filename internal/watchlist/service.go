package watchlist

import (
	"context"

	"animehub/pkg/models"
)

// AnimeGetter is the slice of the catalogue the list service needs: adding
// an entry requires the anime to exist.
type AnimeGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Anime, error)
}

type Service struct {
	Repo   *Repo
	Animes AnimeGetter
}

func NewService(repo *Repo, animes AnimeGetter) *Service {
	return &Service{Repo: repo, Animes: animes}
}

// Fields carries a partial update; nil means "leave as is".
type Fields struct {
	Status          *string
	IsFavorite      *bool
	Rating          *int
	WatchedEpisodes *int
	Notes           *string
}

func (f Fields) validate() error {
	if f.Status != nil && !models.ValidStatus(*f.Status) {
		return ErrInvalidStatus
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return ErrInvalidRating
	}
	if f.WatchedEpisodes != nil && *f.WatchedEpisodes < 0 {
		return ErrInvalidEpisodes
	}
	if f.Notes != nil && len(*f.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}

// AddToList creates an entry for (userID, animeID) with the provided fields,
// defaulting the rest. Fails with ErrAnimeNotFound when the anime does not
// exist and ErrAlreadyInList when the pair is already present.
func (s *Service) AddToList(ctx context.Context, userID, animeID int64, f Fields) (*models.WatchlistEntry, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	a, err := s.Animes.GetByID(ctx, animeID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAnimeNotFound
	}

	e := models.WatchlistEntry{
		UserID:  userID,
		AnimeID: animeID,
		Status:  models.StatusPlanToWatch,
	}
	if f.Status != nil {
		e.Status = *f.Status
	}
	if f.IsFavorite != nil {
		e.IsFavorite = *f.IsFavorite
	}
	if f.Rating != nil {
		e.Rating = f.Rating
	}
	if f.WatchedEpisodes != nil {
		e.WatchedEpisodes = *f.WatchedEpisodes
	}
	if f.Notes != nil {
		e.Notes = *f.Notes
	}

	if _, err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, userID, animeID)
}

func (s *Service) RemoveFromList(ctx context.Context, userID, animeID int64) error {
	ok, err := s.Repo.Delete(ctx, userID, animeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInList
	}
	return nil
}

func (s *Service) GetList(ctx context.Context, userID int64, opts ListOptions) ([]models.WatchlistEntry, int, error) {
	if opts.Status != "" && !models.ValidStatus(opts.Status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.Repo.List(ctx, userID, opts)
}

// UpdateEntry applies only the provided fields; omitted fields keep their
// prior values.
func (s *Service) UpdateEntry(ctx context.Context, userID, animeID int64, f Fields) (*models.WatchlistEntry, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	e, err := s.Repo.Get(ctx, userID, animeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotInList
	}

	if f.Status != nil {
		e.Status = *f.Status
	}
	if f.IsFavorite != nil {
		e.IsFavorite = *f.IsFavorite
	}
	if f.Rating != nil {
		e.Rating = f.Rating
	}
	if f.WatchedEpisodes != nil {
		e.WatchedEpisodes = *f.WatchedEpisodes
	}
	if f.Notes != nil {
		e.Notes = *f.Notes
	}

	if err := s.Repo.Update(ctx, *e); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, userID, animeID)
}

func (s *Service) ToggleFavorite(ctx context.Context, userID, animeID int64) (*models.WatchlistEntry, error) {
	e, err := s.Repo.Get(ctx, userID, animeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotInList
	}
	fav := !e.IsFavorite
	return s.UpdateEntry(ctx, userID, animeID, Fields{IsFavorite: &fav})
}

func (s *Service) UpdateRating(ctx context.Context, userID, animeID int64, rating int) (*models.WatchlistEntry, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return s.UpdateEntry(ctx, userID, animeID, Fields{Rating: &rating})
}

func (s *Service) UpdateWatchedEpisodes(ctx context.Context, userID, animeID int64, episodes int) (*models.WatchlistEntry, error) {
	if episodes < 0 {
		return nil, ErrInvalidEpisodes
	}
	return s.UpdateEntry(ctx, userID, animeID, Fields{WatchedEpisodes: &episodes})
}

// GetEntry returns the joined entry, or nil when the anime is not on the
// user's list. Absence is not an error here; callers use it to answer
// "is this already in my list".
func (s *Service) GetEntry(ctx context.Context, userID, animeID int64) (*models.WatchlistEntry, error) {
	return s.Repo.Get(ctx, userID, animeID)
}

// FavoriteOrCreate marks an existing entry as favorite, or creates a new
// favorited entry when the anime is not listed yet. Used by the external
// import path.
func (s *Service) FavoriteOrCreate(ctx context.Context, userID, animeID int64) (*models.WatchlistEntry, error) {
	e, err := s.Repo.Get(ctx, userID, animeID)
	if err != nil {
		return nil, err
	}
	fav := true
	if e == nil {
		return s.AddToList(ctx, userID, animeID, Fields{IsFavorite: &fav})
	}
	return s.UpdateEntry(ctx, userID, animeID, Fields{IsFavorite: &fav})
}
