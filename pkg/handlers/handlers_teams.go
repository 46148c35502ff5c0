package handlers

import (
	"net/http"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
)

// ListTeams returns all teams, optionally filtered by ?q=
func (h *Handler) ListTeams(c *gin.Context) {
	teams := store.FilterTeams(h.Store.Teams(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// CreateTeam adds a team. Omitted requirements default to zero for every day.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req models.Team
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.Store.AddTeam(c.Request.Context(), req)
	h.Metrics.RecordMutation("team.add", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusCreated, gin.H{
		"team":   team,
		"notice": notice(t("teams.add"), team.Name),
	})
}

func (h *Handler) UpdateTeam(c *gin.Context) {
	var req models.Team
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")

	team, err := h.Store.UpdateTeam(c.Request.Context(), req)
	h.Metrics.RecordMutation("team.update", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"team":   team,
		"notice": notice(t("app.edit"), team.Name),
	})
}

func (h *Handler) DeleteTeam(c *gin.Context) {
	err := h.Store.DeleteTeam(c.Request.Context(), c.Param("id"))
	h.Metrics.RecordMutation("team.delete", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{"notice": notice(t("app.delete"), t("nav.teams"))})
}
