package jikan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"animehub/internal/anime"
	"animehub/internal/watchlist"
	"animehub/pkg/database"
)

func TestMapAnimeFallbacks(t *testing.T) {
	d := &AnimeData{MalID: 20}
	d.TitleJapanese = "ナルト"
	d.Aired.Prop.From.Year = 2002
	d.Images.WebP.ImageURL = "https://cdn.example.com/naruto.webp"

	a := MapAnime(d)
	require.Equal(t, int64(20), a.ID)
	require.Equal(t, "ナルト", a.Title)
	require.Equal(t, "2002", a.Year)
	require.Equal(t, "https://cdn.example.com/naruto.webp", a.ImageURL)
}

func TestMapAnimePrefersPrimaryFields(t *testing.T) {
	d := &AnimeData{MalID: 20, Title: "Naruto", TitleEnglish: "Naruto (EN)", Year: 2002}
	d.Images.JPG.LargeImageURL = "https://cdn.example.com/large.jpg"
	d.Images.JPG.ImageURL = "https://cdn.example.com/small.jpg"
	d.Genres = []struct {
		Name string `json:"name"`
	}{{Name: "Action"}, {Name: "Adventure"}}

	a := MapAnime(d)
	require.Equal(t, "Naruto", a.Title)
	require.Equal(t, "2002", a.Year)
	require.Equal(t, "https://cdn.example.com/large.jpg", a.ImageURL)
	require.Equal(t, "Action, Adventure", a.Genre)
}

func TestMapAnimeEmptyRecord(t *testing.T) {
	a := MapAnime(&AnimeData{MalID: 7})
	require.Equal(t, "N/A", a.Year)
	require.Equal(t, PlaceholderImage, a.ImageURL)
	require.Empty(t, a.Genre)
}

func newImportFixture(t *testing.T, payload string) (*Importer, *watchlist.Service) {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO users (id, name, email, password_hash) VALUES (1, 'Sakura', 'sakura@example.com', 'x')`)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	animes := anime.NewRepo(db)
	lists := watchlist.NewService(watchlist.NewRepo(db), animes)
	return NewImporter(NewClient(srv.URL), animes, lists), lists
}

const narutoPayload = `{"data": {
	"mal_id": 20,
	"title": "Naruto",
	"synopsis": "A young ninja seeks recognition.",
	"year": 2002,
	"rating": "PG-13",
	"duration": "23 min per ep",
	"genres": [{"name": "Action"}],
	"images": {"jpg": {"image_url": "https://cdn.example.com/naruto.jpg"}}
}}`

func TestImportAndFavoriteCreatesEntry(t *testing.T) {
	imp, _ := newImportFixture(t, narutoPayload)

	entry, err := imp.ImportAndFavorite(context.Background(), 20, 1)
	require.NoError(t, err)
	require.Equal(t, int64(20), entry.AnimeID)
	require.True(t, entry.IsFavorite)
	require.NotNil(t, entry.Anime)
	require.Equal(t, "Naruto", entry.Anime.Title)
	require.Equal(t, "2002", entry.Anime.Year)
}

func TestImportAndFavoriteKeepsExistingEntry(t *testing.T) {
	imp, lists := newImportFixture(t, narutoPayload)

	// first import seeds the catalogue; put it on the list as watching
	_, err := imp.ImportAndFavorite(context.Background(), 20, 1)
	require.NoError(t, err)
	status := "watching"
	_, err = lists.UpdateEntry(context.Background(), 1, 20, watchlist.Fields{Status: &status})
	require.NoError(t, err)

	// re-import overwrites the catalogue row but keeps the entry's status
	entry, err := imp.ImportAndFavorite(context.Background(), 20, 1)
	require.NoError(t, err)
	require.True(t, entry.IsFavorite)
	require.Equal(t, "watching", entry.Status)
}

func TestImportUnknownAnime(t *testing.T) {
	imp, _ := newImportFixture(t, `{"data": {}}`)

	_, err := imp.ImportAndFavorite(context.Background(), 99999, 1)
	require.Error(t, err)
}
