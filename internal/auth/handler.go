package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/profile", RequireToken(h.Service.Tokens), h.profile)
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateRegister(req *registerReq) []string {
	var errs []string
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if len(req.Name) < 2 || len(req.Name) > 100 {
		errs = append(errs, "Name must be 2-100 characters")
	}
	if !strings.Contains(req.Email, "@") || len(req.Email) > 255 {
		errs = append(errs, "A valid email is required")
	}
	if len(req.Password) < 6 || len(req.Password) > 72 {
		errs = append(errs, "Password must be 6-72 characters")
	}
	return errs
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if errs := validateRegister(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	u, err := h.Service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email already registered"})
			return
		}
		logrus.WithError(err).Error("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	token, exp, err := h.Service.Tokens.Sign(u)
	if err != nil {
		logrus.WithError(err).Error("token sign failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data": gin.H{
			"user":      u,
			"token":     token,
			"expiresAt": exp.UTC().Format(time.RFC3339),
		},
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	u, err := h.Service.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// same body whether the email exists or not
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	if err := h.Service.Repo.UpdateLastLogin(c.Request.Context(), u.ID); err != nil {
		logrus.WithError(err).Warn("update last login failed")
	}

	token, exp, err := h.Service.Tokens.Sign(u)
	if err != nil {
		logrus.WithError(err).Error("token sign failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"user":      u,
			"token":     token,
			"expiresAt": exp.UTC().Format(time.RFC3339),
		},
	})
}

func (h *Handler) profile(c *gin.Context) {
	claims := MustGetClaims(c)

	u, err := h.Service.Repo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch profile"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": u}})
}

func (h *Handler) logout(c *gin.Context) {
	// bearer tokens are stateless; the client discards its copy
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful. Please remove the token from client-side storage.",
	})
}
