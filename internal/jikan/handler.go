package jikan

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animehub/internal/auth"
)

type Handler struct {
	Client   *Client
	Importer *Importer
	Tokens   auth.TokenService
}

func NewHandler(client *Client, importer *Importer, tokens auth.TokenService) *Handler {
	return &Handler{Client: client, Importer: importer, Tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
	rg.GET("/anime/:id", h.getByID)
	rg.GET("/top", h.top)
	rg.GET("/recommendations", h.recommendations)
	rg.GET("/random", h.random)
	rg.POST("/anime/:id/import", auth.RequireToken(h.Tokens), h.importAndFavorite)
}

func passThrough(c *gin.Context, data json.RawMessage, err error, failMsg string) {
	if err != nil {
		logrus.WithError(err).Warn("jikan request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": failMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (h *Handler) search(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing or invalid title parameter"})
		return
	}
	data, err := h.Client.Search(c.Request.Context(), title)
	passThrough(c, data, err, "Failed to fetch from Jikan API")
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid anime ID"})
		return
	}
	data, err := h.Client.AnimeByID(c.Request.Context(), id)
	passThrough(c, data, err, "Failed to fetch anime details from Jikan API")
}

func (h *Handler) top(c *gin.Context) {
	data, err := h.Client.Top(c.Request.Context())
	passThrough(c, data, err, "Failed to fetch top anime from Jikan API")
}

func (h *Handler) recommendations(c *gin.Context) {
	data, err := h.Client.Recommendations(c.Request.Context())
	passThrough(c, data, err, "Failed to fetch recommendations from Jikan API")
}

func (h *Handler) random(c *gin.Context) {
	data, err := h.Client.Random(c.Request.Context())
	passThrough(c, data, err, "Failed to fetch random anime from Jikan API")
}

func (h *Handler) importAndFavorite(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid anime ID"})
		return
	}

	entry, err := h.Importer.ImportAndFavorite(c.Request.Context(), id, claims.UserID)
	if err != nil {
		logrus.WithError(err).Warn("import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to import anime"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}
