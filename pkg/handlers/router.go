package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is reported on the root route
const Version = "1.0.0"

// NewRouter wires every route onto a fresh engine
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": h.Store.Translator()("app.name"),
			"version": Version,
		})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.DELETE("/keys/:id", h.RevokeKey)
	}

	api := r.Group("/api")
	api.Use(h.APIAuthMiddleware())
	h.RegisterAPI(api)

	return r
}

// RegisterAPI adds the roster, schedule and language routes to g
func (h *Handler) RegisterAPI(g *gin.RouterGroup) {
	g.GET("/state", h.GetState)

	g.GET("/agents", h.ListAgents)
	g.POST("/agents", h.CreateAgent)
	g.POST("/agents/csv", h.ImportAgentsCSV)
	g.PUT("/agents/:id", h.UpdateAgent)
	g.DELETE("/agents/:id", h.DeleteAgent)
	g.PUT("/agents/:id/notes/:date", h.PutAgentNote)
	g.DELETE("/agents/:id/notes/:date", h.DeleteAgentNote)

	g.GET("/teams", h.ListTeams)
	g.POST("/teams", h.CreateTeam)
	g.PUT("/teams/:id", h.UpdateTeam)
	g.DELETE("/teams/:id", h.DeleteTeam)

	g.POST("/schedule", h.GenerateSchedule)
	g.GET("/schedule", h.GetSchedule)
	g.GET("/schedule/teams", h.ScheduleTeams)
	g.GET("/schedule/export", h.ExportSchedule)
	g.GET("/schedule/coverage", h.Coverage)

	g.GET("/language", h.GetLanguage)
	g.PUT("/language", h.SetLanguage)
	g.GET("/translations", h.GetTranslations)

	g.POST("/validate", h.ValidateInput)
	g.GET("/usage", h.GetUsage)
}
