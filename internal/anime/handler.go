package anime

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"animehub/internal/auth"
	"animehub/internal/watchlist"
)

type Handler struct {
	Repo  *Repo
	Lists *watchlist.Repo
}

func NewHandler(repo *Repo, lists *watchlist.Repo) *Handler {
	return &Handler{Repo: repo, Lists: lists}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /api/animes
	rg.GET("/:id", h.getByID) // GET /api/animes/:id
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Genre:     c.Query("genre"),
		Year:      c.Query("year"),
		SortBy:    c.DefaultQuery("sortBy", "title"),
		SortOrder: c.DefaultQuery("sortOrder", "ASC"),
		Page:      parseInt(c.Query("page"), 1),
		Limit:     parseInt(c.Query("limit"), 20),
	}
	if s := strings.TrimSpace(c.Query("minRating")); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			q.MinRating = f
			q.HasMin = true
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch animes"})
		return
	}

	animes, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch animes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"animes": animes,
			"pagination": gin.H{
				"total":      total,
				"page":       q.Page,
				"limit":      q.Limit,
				"totalPages": (total + q.Limit - 1) / q.Limit,
			},
		},
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid anime ID"})
		return
	}

	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch anime"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Anime not found"})
		return
	}

	// include the caller's list entry when a valid token accompanied the request
	var userEntry any
	if claims := auth.MustGetClaims(c); claims != nil {
		entry, err := h.Lists.Get(c.Request.Context(), claims.UserID, id)
		if err == nil && entry != nil {
			userEntry = entry
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"anime": a, "userEntry": userEntry},
	})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
