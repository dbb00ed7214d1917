package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animehub/internal/auth"
	"animehub/internal/jikan"
	"animehub/internal/watchlist"
	"animehub/pkg/models"
)

// Fragment handlers. Every response here is a partial template swapped
// into the page by HTMX, so errors render inline instead of redirecting.

func htmxError(c *gin.Context, msg string) {
	c.HTML(http.StatusOK, "partials/error.html", gin.H{"error": msg})
}

func fragmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		htmxError(c, "Invalid anime ID")
		return 0, false
	}
	return id, true
}

// searchResults proxies the external search and renders the result grid.
// Queries shorter than three characters render an empty grid without
// hitting the external API.
func (h *Handler) searchResults(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 3 {
		c.HTML(http.StatusOK, "partials/search_results.html", gin.H{"animes": []models.Anime{}})
		return
	}

	raw, err := h.Jikan.Search(c.Request.Context(), q)
	if err != nil {
		logrus.WithError(err).Warn("external search failed")
		htmxError(c, "Search is unavailable right now, try again later")
		return
	}

	var payload struct {
		Data []jikan.AnimeData `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		logrus.WithError(err).Warn("decode external search")
		htmxError(c, "Search is unavailable right now, try again later")
		return
	}

	animes := make([]models.Anime, 0, len(payload.Data))
	for i := range payload.Data {
		animes = append(animes, jikan.MapAnime(&payload.Data[i]))
	}
	c.HTML(http.StatusOK, "partials/search_results.html", gin.H{"animes": animes})
}

func (h *Handler) addToList(c *gin.Context) {
	user := auth.MustGetClaims(c)
	id, ok := fragmentID(c)
	if !ok {
		return
	}

	var f watchlist.Fields
	if status := c.PostForm("status"); status != "" {
		f.Status = &status
	}

	entry, err := h.Lists.AddToList(c.Request.Context(), user.UserID, id, f)
	switch {
	case errors.Is(err, watchlist.ErrAlreadyInList):
		htmxError(c, "Anime is already in your list")
		return
	case errors.Is(err, watchlist.ErrAnimeNotFound):
		htmxError(c, "Anime not found")
		return
	case errors.Is(err, watchlist.ErrInvalidStatus):
		htmxError(c, "Invalid status")
		return
	case err != nil:
		logrus.WithError(err).Error("add to list")
		htmxError(c, "Could not add to your list")
		return
	}

	c.HTML(http.StatusOK, "partials/add_success.html", gin.H{"entry": entry})
}

// toggleFavorite flips the favorite flag. When the anime is not on the
// list yet, it is added as a favorite in one step instead of erroring.
func (h *Handler) toggleFavorite(c *gin.Context) {
	user := auth.MustGetClaims(c)
	id, ok := fragmentID(c)
	if !ok {
		return
	}

	entry, err := h.Lists.GetEntry(c.Request.Context(), user.UserID, id)
	if err == nil && entry == nil {
		fav := true
		entry, err = h.Lists.AddToList(c.Request.Context(), user.UserID, id, watchlist.Fields{IsFavorite: &fav})
	} else if err == nil {
		entry, err = h.Lists.ToggleFavorite(c.Request.Context(), user.UserID, id)
	}

	if err != nil {
		if errors.Is(err, watchlist.ErrAnimeNotFound) {
			htmxError(c, "Anime not found")
			return
		}
		logrus.WithError(err).Error("toggle favorite")
		htmxError(c, "Could not update favorite")
		return
	}

	c.HTML(http.StatusOK, "partials/favorite_button.html", gin.H{
		"animeID":    id,
		"isFavorite": entry.IsFavorite,
	})
}

// removeFromList deletes the entry and returns an empty fragment so the
// card disappears from the grid. Removing an absent entry is a no-op.
func (h *Handler) removeFromList(c *gin.Context) {
	user := auth.MustGetClaims(c)
	id, ok := fragmentID(c)
	if !ok {
		return
	}

	err := h.Lists.RemoveFromList(c.Request.Context(), user.UserID, id)
	if err != nil && !errors.Is(err, watchlist.ErrNotInList) {
		logrus.WithError(err).Error("remove from list")
		htmxError(c, "Could not remove from your list")
		return
	}

	c.String(http.StatusOK, "")
}

// importAndFavorite pulls an external record into the catalogue and
// favorites it for the current user, rendering the updated button.
func (h *Handler) importAndFavorite(c *gin.Context) {
	user := auth.MustGetClaims(c)
	id, ok := fragmentID(c)
	if !ok {
		return
	}

	entry, err := h.Importer.ImportAndFavorite(c.Request.Context(), id, user.UserID)
	if err != nil {
		logrus.WithError(err).Warn("import from search")
		htmxError(c, "Could not import this anime")
		return
	}

	c.HTML(http.StatusOK, "partials/favorite_button.html", gin.H{
		"animeID":    entry.AnimeID,
		"isFavorite": entry.IsFavorite,
	})
}
