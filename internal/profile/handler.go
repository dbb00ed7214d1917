package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animehub/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes wires the self-service endpoints onto an
// already-authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.PUT("", h.update)
	rg.PUT("/password", h.changePassword)
	rg.DELETE("", h.deactivate)
}

func (h *Handler) get(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	u, stats, err := h.Service.FullProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		case errors.Is(err, ErrDeactivated):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
		default:
			logrus.WithError(err).Error("fetch profile failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": u, "stats": stats}})
}

type updateReq struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if req.Bio != nil && len(*req.Bio) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Bio cannot exceed 500 characters"})
		return
	}

	u, err := h.Service.UpdateProfile(c.Request.Context(), claims.UserID, Fields{
		Name:   req.Name,
		Email:  req.Email,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already in use"})
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		default:
			logrus.WithError(err).Error("update profile failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": u}})
}

type passwordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	var req passwordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Old and new password are required"})
		return
	}
	if len(req.NewPassword) < 6 || len(req.NewPassword) > 72 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Password must be 6-72 characters"})
		return
	}
	if req.NewPassword == req.OldPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "New password must be different"})
		return
	}

	err := h.Service.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		default:
			logrus.WithError(err).Error("change password failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (h *Handler) deactivate(c *gin.Context) {
	claims := auth.MustGetClaims(c)

	if err := h.Service.Deactivate(c.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		logrus.WithError(err).Error("deactivate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to deactivate account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deactivated"})
}
