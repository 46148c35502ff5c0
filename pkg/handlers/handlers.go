package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/w2w/pkg/auth"
	"github.com/arnavshah/w2w/pkg/database"
	"github.com/arnavshah/w2w/pkg/export"
	"github.com/arnavshah/w2w/pkg/metrics"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/scheduler"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	// DB backs operators, integration keys and usage. When nil those
	// features are disabled.
	DB      *gorm.DB
	Store   *store.Store
	Auth    *auth.Authenticator
	Metrics *metrics.Metrics
}

func bearer(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	// Strip "Bearer " if present
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware verifies the operator JWT for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIAuthMiddleware accepts either an operator JWT or an HMAC integration key
func (h *Handler) APIAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if claims, err := h.Auth.VerifyToken(key); err == nil {
			c.Set("username", claims.Username)
			c.Next()
			return
		}

		name, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		if h.DB != nil {
			// Only keys issued through GenerateKey and not revoked are accepted
			var apiKey database.APIKey
			if err := h.DB.Where(&database.APIKey{Key: key}).First(&apiKey).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key has been revoked or was never issued"})
				c.Abort()
				return
			}
			now := time.Now()
			h.DB.Model(&apiKey).Update("last_used", &now)
			c.Set("apiKey", &apiKey)
		}

		c.Set("keyName", name)
		c.Next()
	}
}

// notice mirrors the non-blocking toast shown after an operation
func notice(title, description string) gin.H {
	return gin.H{"title": title, "description": description}
}

// respondError maps domain errors to status codes and translated messages
func (h *Handler) respondError(c *gin.Context, err error) {
	t := h.Store.Translator()
	switch {
	case errors.Is(err, store.ErrAgentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": t("agents.notFound")})
	case errors.Is(err, store.ErrTeamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": t("teams.notFound")})
	case errors.Is(err, models.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrMissingPrerequisites):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  t("error.required"),
			"code":   "missing_prerequisites",
			"notice": notice(t("schedule.generate"), t("error.required")),
		})
	case errors.Is(err, export.ErrNothingToExport):
		c.JSON(http.StatusNotFound, gin.H{
			"error":  t("schedule.noSchedule"),
			"code":   "nothing_to_export",
			"notice": notice(t("schedule.download"), t("schedule.noSchedule")),
		})
	default:
		log.Printf("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// Login handles operator login
func (h *Handler) Login(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Operator accounts are not configured"})
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Auth.Login(h.DB, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new integration key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Key storage is not configured"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   apiKey.ID,
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all integration keys without their secrets
func (h *Handler) ListKeys(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Key storage is not configured"})
		return
	}
	var keys []database.APIKey
	h.DB.Find(&keys)
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an integration key record
func (h *Handler) RevokeKey(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Key storage is not configured"})
		return
	}
	id := c.Param("id")
	if err := h.DB.Delete(&database.APIKey{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// GetState returns the full snapshot
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.State())
}
