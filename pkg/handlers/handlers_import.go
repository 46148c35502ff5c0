package handlers

import (
	"net/http"
	"strconv"

	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
)

// ImportAgentsCSV handles CSV roster uploads in the agents_file form field.
// Columns: name, team, days_off (0-6 separated by |), morning, afternoon, night.
func (h *Handler) ImportAgentsCSV(c *gin.Context) {
	file, _ := c.FormFile("agents_file")
	if file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agents_file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open agents file"})
		return
	}
	defer f.Close()

	agents, err := store.ParseAgentsCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.Store.ImportAgents(c.Request.Context(), agents)
	h.Metrics.RecordMutation("agent.import", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusCreated, gin.H{
		"agents": added,
		"notice": notice(t("agents.imported"), strconv.Itoa(len(added))),
	})
}
