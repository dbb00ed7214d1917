package watchlist_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"animehub/internal/anime"
	"animehub/internal/watchlist"
	"animehub/pkg/database"
	"animehub/pkg/models"
)

func newTestService(t *testing.T) (*watchlist.Service, *sql.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO users (id, name, email, password_hash) VALUES (1, 'Sakura', 'sakura@example.com', 'x')`)
	require.NoError(t, err)

	animes := anime.NewRepo(db)
	for _, a := range []models.Anime{
		{ID: 1, Title: "Naruto Shippuden", Year: "2007"},
		{ID: 2, Title: "Attack on Titan", Year: "2013"},
	} {
		require.NoError(t, animes.Upsert(context.Background(), a))
	}

	return watchlist.NewService(watchlist.NewRepo(db), animes), db
}

func ptr[T any](v T) *T { return &v }

func TestAddDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	e, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)
	require.Equal(t, models.StatusPlanToWatch, e.Status)
	require.False(t, e.IsFavorite)
	require.Nil(t, e.Rating)
	require.Zero(t, e.WatchedEpisodes)
	require.NotNil(t, e.Anime)
	require.Equal(t, "Naruto Shippuden", e.Anime.Title)
}

func TestAddUnknownAnime(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 99, watchlist.Fields{})
	require.ErrorIs(t, err, watchlist.ErrAnimeNotFound)
}

func TestAddDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)

	_, err = svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.ErrorIs(t, err, watchlist.ErrAlreadyInList)
}

func TestRemoveThenReAdd(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromList(context.Background(), 1, 1))
	require.ErrorIs(t, svc.RemoveFromList(context.Background(), 1, 1), watchlist.ErrNotInList)

	_, err = svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)
}

func TestRatingBounds(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{Rating: ptr(6)})
	require.ErrorIs(t, err, watchlist.ErrInvalidRating)

	_, err = svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)

	_, err = svc.UpdateRating(context.Background(), 1, 1, 0)
	require.ErrorIs(t, err, watchlist.ErrInvalidRating)

	e, err := svc.UpdateRating(context.Background(), 1, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, e.Rating)
	require.Equal(t, 5, *e.Rating)
}

func TestNegativeEpisodesRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)

	_, err = svc.UpdateEntry(context.Background(), 1, 1, watchlist.Fields{WatchedEpisodes: ptr(-1)})
	require.ErrorIs(t, err, watchlist.ErrInvalidEpisodes)

	_, err = svc.UpdateWatchedEpisodes(context.Background(), 1, 1, -5)
	require.ErrorIs(t, err, watchlist.ErrInvalidEpisodes)

	e, err := svc.UpdateWatchedEpisodes(context.Background(), 1, 1, 24)
	require.NoError(t, err)
	require.Equal(t, 24, e.WatchedEpisodes)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{
		Status: ptr(models.StatusWatching),
		Rating: ptr(4),
		Notes:  ptr("rewatching the chunin exams"),
	})
	require.NoError(t, err)

	e, err := svc.UpdateEntry(context.Background(), 1, 1, watchlist.Fields{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, e.Status)
	require.NotNil(t, e.Rating)
	require.Equal(t, 4, *e.Rating)
	require.Equal(t, "rewatching the chunin exams", e.Notes)
}

func TestToggleFavoriteTwice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{})
	require.NoError(t, err)

	e, err := svc.ToggleFavorite(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, e.IsFavorite)

	e, err = svc.ToggleFavorite(context.Background(), 1, 1)
	require.NoError(t, err)
	require.False(t, e.IsFavorite)
}

func TestInvalidStatus(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{Status: ptr("binging")})
	require.ErrorIs(t, err, watchlist.ErrInvalidStatus)

	_, _, err = svc.GetList(context.Background(), 1, watchlist.ListOptions{Status: "binging"})
	require.ErrorIs(t, err, watchlist.ErrInvalidStatus)
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddToList(context.Background(), 1, 1, watchlist.Fields{Status: ptr(models.StatusCompleted), IsFavorite: ptr(true)})
	require.NoError(t, err)
	_, err = svc.AddToList(context.Background(), 1, 2, watchlist.Fields{Status: ptr(models.StatusWatching)})
	require.NoError(t, err)

	entries, total, err := svc.GetList(context.Background(), 1, watchlist.ListOptions{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].AnimeID)

	fav := true
	entries, total, err = svc.GetList(context.Background(), 1, watchlist.ListOptions{Favorite: &fav})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsFavorite)
}

func TestFavoriteOrCreate(t *testing.T) {
	svc, _ := newTestService(t)

	// not listed yet: creates a favorited entry
	e, err := svc.FavoriteOrCreate(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, e.IsFavorite)
	require.Equal(t, models.StatusPlanToWatch, e.Status)

	// already listed: keeps the entry, only flips the flag
	_, err = svc.AddToList(context.Background(), 1, 2, watchlist.Fields{Status: ptr(models.StatusWatching)})
	require.NoError(t, err)
	e, err = svc.FavoriteOrCreate(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, e.IsFavorite)
	require.Equal(t, models.StatusWatching, e.Status)
}
