package watchlist

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"animehub/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes wires the list endpoints onto an already-authenticated
// group. The collection lives at /mylist rather than /animes/mylist/all
// because gin's router rejects a static segment beside the :id wildcard.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/animes/:id/list", h.add)
	rg.PUT("/animes/:id/list", h.update)
	rg.DELETE("/animes/:id/list", h.remove)
	rg.PATCH("/animes/:id/favorite", h.toggleFavorite)
	rg.PATCH("/animes/:id/rating", h.updateRating)
	rg.PATCH("/animes/:id/episodes", h.updateEpisodes)
	rg.GET("/mylist", h.myList)
}

type entryReq struct {
	Status          *string `json:"status"`
	IsFavorite      *bool   `json:"isFavorite"`
	Rating          *int    `json:"rating"`
	WatchedEpisodes *int    `json:"watchedEpisodes"`
	Notes           *string `json:"notes"`
}

func (r entryReq) toFields() Fields {
	return Fields{
		Status:          r.Status,
		IsFavorite:      r.IsFavorite,
		Rating:          r.Rating,
		WatchedEpisodes: r.WatchedEpisodes,
		Notes:           r.Notes,
	}
}

func animeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid anime ID"})
		return 0, false
	}
	return id, true
}

func respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAnimeNotFound), errors.Is(err, ErrNotInList):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, ErrAlreadyInList):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidEpisodes), errors.Is(err, ErrNotesTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}

func (h *Handler) add(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	// an empty body is a valid add-with-defaults; io.EOF covers chunked
	// requests where ContentLength is unknown
	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}

	entry, err := h.Service.AddToList(c.Request.Context(), claims.UserID, id, req.toFields())
	if err != nil {
		respondErr(c, err, "Failed to add anime to list")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}

	entry, err := h.Service.UpdateEntry(c.Request.Context(), claims.UserID, id, req.toFields())
	if err != nil {
		respondErr(c, err, "Failed to update anime entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	if err := h.Service.RemoveFromList(c.Request.Context(), claims.UserID, id); err != nil {
		respondErr(c, err, "Failed to remove anime from list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Anime removed from your list"})
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	entry, err := h.Service.ToggleFavorite(c.Request.Context(), claims.UserID, id)
	if err != nil {
		respondErr(c, err, "Failed to toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

type ratingReq struct {
	Rating *int `json:"rating"`
}

func (h *Handler) updateRating(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	var req ratingReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rating is required"})
		return
	}

	entry, err := h.Service.UpdateRating(c.Request.Context(), claims.UserID, id, *req.Rating)
	if err != nil {
		respondErr(c, err, "Failed to update rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

type episodesReq struct {
	WatchedEpisodes *int `json:"watchedEpisodes"`
}

func (h *Handler) updateEpisodes(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	id, ok := animeID(c)
	if !ok {
		return
	}

	var req episodesReq
	if err := c.ShouldBindJSON(&req); err != nil || req.WatchedEpisodes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "watchedEpisodes is required"})
		return
	}

	entry, err := h.Service.UpdateWatchedEpisodes(c.Request.Context(), claims.UserID, id, *req.WatchedEpisodes)
	if err != nil {
		respondErr(c, err, "Failed to update watched episodes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

func (h *Handler) myList(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	opts := ListOptions{
		Status:    strings.TrimSpace(c.Query("status")),
		SortBy:    c.DefaultQuery("sortBy", "addedAt"),
		SortOrder: c.DefaultQuery("sortOrder", "DESC"),
	}
	switch c.Query("favorite") {
	case "true":
		t := true
		opts.Favorite = &t
	case "false":
		f := false
		opts.Favorite = &f
	}
	if c.Query("page") != "" || c.Query("limit") != "" {
		opts.Paginate = true
		opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))
	}

	entries, total, err := h.Service.GetList(c.Request.Context(), claims.UserID, opts)
	if err != nil {
		respondErr(c, err, "Failed to fetch your anime list")
		return
	}

	if !opts.Paginate {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
		return
	}

	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 12
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"entries": entries,
			"pagination": gin.H{
				"total":      total,
				"page":       max(opts.Page, 1),
				"limit":      limit,
				"totalPages": totalPages,
			},
		},
	})
}
