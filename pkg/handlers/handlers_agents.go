package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
)

// ListAgents returns the roster, optionally filtered by ?q=
func (h *Handler) ListAgents(c *gin.Context) {
	agents := store.FilterAgents(h.Store.Agents(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// CreateAgent adds an agent. Any id in the body is ignored.
func (h *Handler) CreateAgent(c *gin.Context) {
	var req models.Agent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.Store.AddAgent(c.Request.Context(), req)
	h.Metrics.RecordMutation("agent.add", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusCreated, gin.H{
		"agent":  agent,
		"notice": notice(t("agents.add"), fmt.Sprintf("%s %s", agent.Name, strings.ToLower(t("agents.add")))),
	})
}

// UpdateAgent replaces the agent at :id
func (h *Handler) UpdateAgent(c *gin.Context) {
	var req models.Agent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")

	agent, err := h.Store.UpdateAgent(c.Request.Context(), req)
	h.Metrics.RecordMutation("agent.update", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"agent":  agent,
		"notice": notice(t("app.edit"), fmt.Sprintf("%s %s", agent.Name, strings.ToLower(t("app.edit")))),
	})
}

// DeleteAgent removes the agent at :id
func (h *Handler) DeleteAgent(c *gin.Context) {
	err := h.Store.DeleteAgent(c.Request.Context(), c.Param("id"))
	h.Metrics.RecordMutation("agent.delete", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"notice": notice(t("app.delete"), fmt.Sprintf("%s %s", t("agents.name"), strings.ToLower(t("app.delete")))),
	})
}

// PutAgentNote sets the note for :date on agent :id
func (h *Handler) PutAgentNote(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := h.Store.Translator()
	if strings.TrimSpace(req.Note) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": t("error.required")})
		return
	}

	agent, err := h.Store.AddAgentNote(c.Request.Context(), c.Param("id"), date, req.Note)
	h.Metrics.RecordMutation("agent.note.add", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agent":  agent,
		"notice": notice(t("agents.addNote"), fmt.Sprintf("%s: %s", date, req.Note)),
	})
}

// DeleteAgentNote removes the note for :date on agent :id
func (h *Handler) DeleteAgentNote(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.Store.RemoveAgentNote(c.Request.Context(), c.Param("id"), date)
	h.Metrics.RecordMutation("agent.note.remove", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"agent":  agent,
		"notice": notice(t("agents.removeNote"), date.String()),
	})
}
