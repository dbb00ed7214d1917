package anime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"animehub/pkg/database"
	"animehub/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepo(db)
}

func seedCatalogue(t *testing.T, r *Repo) {
	t.Helper()
	for _, a := range []models.Anime{
		{ID: 1, Title: "Naruto Shippuden", Genre: "Shōnen", Year: "2007", Rating: "12+"},
		{ID: 2, Title: "Attack on Titan", Genre: "Shōnen", Year: "2013", Rating: "16+"},
		{ID: 3, Title: "Death Note", Genre: "Seinen", Year: "2006", Rating: "16+"},
	} {
		require.NoError(t, r.Upsert(context.Background(), a))
	}
}

func TestGetByIDMissing(t *testing.T) {
	r := newTestRepo(t)

	a, err := r.GetByID(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestListFilterByGenre(t *testing.T) {
	r := newTestRepo(t)
	seedCatalogue(t, r)

	got, err := r.List(context.Background(), ListQuery{Genre: "seinen"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Death Note", got[0].Title)
}

func TestListFilterByYear(t *testing.T) {
	r := newTestRepo(t)
	seedCatalogue(t, r)

	got, err := r.List(context.Background(), ListQuery{Year: "2013"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Attack on Titan", got[0].Title)
}

func TestListMinRating(t *testing.T) {
	r := newTestRepo(t)
	for _, a := range []models.Anime{
		{ID: 1, Title: "Score High", Rating: "8.2"},
		{ID: 2, Title: "Age Rated", Rating: "12+"},
		{ID: 3, Title: "Unrated", Rating: "N/A"},
		{ID: 4, Title: "Score Low", Rating: "6.5"},
	} {
		require.NoError(t, r.Upsert(context.Background(), a))
	}

	q := ListQuery{MinRating: 8, HasMin: true, SortBy: "title", SortOrder: "ASC"}

	total, err := r.Count(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 2, total)

	// "12+" casts to 12 and passes; "N/A" casts to 0 and drops out
	got, err := r.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Age Rated", got[0].Title)
	require.Equal(t, "Score High", got[1].Title)
}

func TestListSortByTitle(t *testing.T) {
	r := newTestRepo(t)
	seedCatalogue(t, r)

	got, err := r.List(context.Background(), ListQuery{SortBy: "title", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "Attack on Titan", got[0].Title)
	require.Equal(t, "Naruto Shippuden", got[2].Title)
}

func TestListPagination(t *testing.T) {
	r := newTestRepo(t)
	seedCatalogue(t, r)

	q := ListQuery{SortBy: "title", SortOrder: "ASC", Page: 2, Limit: 2}

	total, err := r.Count(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 3, total)

	got, err := r.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Naruto Shippuden", got[0].Title)
}

func TestUpsertOverwrites(t *testing.T) {
	r := newTestRepo(t)
	seedCatalogue(t, r)

	err := r.Upsert(context.Background(), models.Anime{ID: 3, Title: "Death Note", Genre: "Seinen, Thriller", Year: "2006"})
	require.NoError(t, err)

	a, err := r.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, "Seinen, Thriller", a.Genre)
}

func TestCreateGeneratesID(t *testing.T) {
	r := newTestRepo(t)

	id, err := r.Create(context.Background(), models.Anime{Title: "Vinland Saga", Year: "2019"})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	a, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, "Vinland Saga", a.Title)
}
