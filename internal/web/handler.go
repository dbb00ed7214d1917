package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animehub/internal/anime"
	"animehub/internal/auth"
	"animehub/internal/jikan"
	"animehub/internal/profile"
	"animehub/internal/watchlist"
)

// Handler serves the HTML surface: full pages backed by the cookie
// session, and HTMX fragments for in-place updates.
type Handler struct {
	Sessions *auth.Sessions
	Auth     *auth.Service
	Animes   *anime.Repo
	Lists    *watchlist.Service
	Profiles *profile.Service
	Jikan    *jikan.Client
	Importer *jikan.Importer
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.loginSubmit)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.registerSubmit)
	r.GET("/search", h.searchPage)
	r.GET("/anime/:id", h.animeDetails)
	r.GET("/logout", h.logout)

	protected := r.Group("/")
	protected.Use(auth.RequireSession(h.Sessions))
	protected.GET("/profile", h.profilePage)
	protected.GET("/animes", h.myListPage)

	htmx := r.Group("/htmx")
	htmx.GET("/search", h.searchResults)

	htmxAuth := htmx.Group("/")
	htmxAuth.Use(auth.RequireSession(h.Sessions))
	htmxAuth.POST("/animes/:id/add", h.addToList)
	htmxAuth.PATCH("/animes/:id/favorite", h.toggleFavorite)
	htmxAuth.DELETE("/animes/:id/list", h.removeFromList)
	htmxAuth.POST("/external/:id/import", h.importAndFavorite)

	r.NoRoute(h.notFound)
}

// base assembles the data every page template expects: current user and
// drained flash messages.
func (h *Handler) base(c *gin.Context, title string) gin.H {
	return gin.H{
		"title":    title,
		"user":     h.Sessions.User(c),
		"errors":   h.Sessions.Flashes(c, "error"),
		"messages": h.Sessions.Flashes(c, "success"),
	}
}

func (h *Handler) home(c *gin.Context) {
	data := h.base(c, "Home - myMemorableAnimes")

	animes, err := h.Animes.List(c.Request.Context(), anime.ListQuery{Page: 1, Limit: 10, SortBy: "title"})
	if err != nil {
		logrus.WithError(err).Error("render home")
		c.HTML(http.StatusInternalServerError, "errors/500.html", h.base(c, "Error - myMemorableAnimes"))
		return
	}
	data["animes"] = animes
	c.HTML(http.StatusOK, "pages/home.html", data)
}

func (h *Handler) loginPage(c *gin.Context) {
	if h.Sessions.User(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "pages/login.html", h.base(c, "Login - myMemorableAnimes"))
}

func (h *Handler) loginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email == "" || password == "" {
		h.Sessions.Flash(c, "error", "Email and password are required")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	u, err := h.Auth.ValidateCredentials(c.Request.Context(), email, password)
	if err != nil {
		h.Sessions.Flash(c, "error", "Invalid credentials")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if err := h.Sessions.SetUser(c, u); err != nil {
		logrus.WithError(err).Error("save session")
		h.Sessions.Flash(c, "error", "Could not log you in")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	_ = h.Auth.Repo.UpdateLastLogin(c.Request.Context(), u.ID)

	h.Sessions.Flash(c, "success", "Welcome back, "+u.Name+"!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) registerPage(c *gin.Context) {
	if h.Sessions.User(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "pages/register.html", h.base(c, "Sign up - myMemorableAnimes"))
}

func (h *Handler) registerSubmit(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if name == "" || email == "" || password == "" {
		h.Sessions.Flash(c, "error", "All fields are required")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), name, email, password)
	if err != nil {
		msg := "Could not create your account"
		if err == auth.ErrEmailTaken {
			msg = "Email already registered"
		}
		h.Sessions.Flash(c, "error", msg)
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	if err := h.Sessions.SetUser(c, u); err != nil {
		logrus.WithError(err).Error("save session")
	}
	h.Sessions.Flash(c, "success", "Account created, welcome "+u.Name+"!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.Sessions.Clear(c); err != nil {
		logrus.WithError(err).Error("destroy session")
		h.Sessions.Flash(c, "error", "Could not log you out")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) searchPage(c *gin.Context) {
	c.HTML(http.StatusOK, "pages/search.html", h.base(c, "Search - myMemorableAnimes"))
}

func (h *Handler) animeDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.Sessions.Flash(c, "error", "Invalid anime ID")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	a, err := h.Animes.GetByID(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("render anime details")
		c.HTML(http.StatusInternalServerError, "errors/500.html", h.base(c, "Error - myMemorableAnimes"))
		return
	}
	if a == nil {
		h.Sessions.Flash(c, "error", "Anime not found")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := h.base(c, a.Title+" - myMemorableAnimes")
	data["anime"] = a
	if user := h.Sessions.User(c); user != nil {
		if entry, err := h.Lists.GetEntry(c.Request.Context(), user.UserID, id); err == nil {
			data["entry"] = entry
		}
	}
	c.HTML(http.StatusOK, "pages/anime_details.html", data)
}

func (h *Handler) profilePage(c *gin.Context) {
	user := auth.MustGetClaims(c)

	u, stats, err := h.Profiles.FullProfile(c.Request.Context(), user.UserID)
	if err != nil {
		logrus.WithError(err).Warn("render profile")
		h.Sessions.Flash(c, "error", "Could not load your profile")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := h.base(c, "My profile - myMemorableAnimes")
	data["profile"] = u
	data["stats"] = stats
	c.HTML(http.StatusOK, "pages/profile.html", data)
}

func (h *Handler) myListPage(c *gin.Context) {
	user := auth.MustGetClaims(c)

	entries, _, err := h.Lists.GetList(c.Request.Context(), user.UserID, watchlist.ListOptions{
		Status:    c.Query("status"),
		SortBy:    c.DefaultQuery("sortBy", "addedAt"),
		SortOrder: c.DefaultQuery("sortOrder", "DESC"),
	})
	if err != nil {
		logrus.WithError(err).Warn("render my list")
		h.Sessions.Flash(c, "error", "Could not load your list")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := h.base(c, "My list - myMemorableAnimes")
	data["entries"] = entries
	c.HTML(http.StatusOK, "pages/anime_list.html", data)
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "errors/404.html", h.base(c, "404 - Page not found"))
}
