package handlers

import (
	"net/http"

	"github.com/arnavshah/w2w/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetUsage returns the last 30 days of generation and export activity
func (h *Handler) GetUsage(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage tracking is not configured"})
		return
	}

	usage, err := database.RecentUsage(h.DB, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	// Calculate totals
	var totalGenerations, totalAgents, totalExports int64
	for _, u := range usage {
		totalGenerations += int64(u.Generations)
		totalAgents += int64(u.AgentsScheduled)
		totalExports += int64(u.Exports)
	}

	resp := gin.H{
		"usage_history": usage,
		"totals": gin.H{
			"generations":      totalGenerations,
			"agents_scheduled": totalAgents,
			"exports":          totalExports,
		},
	}
	if name, ok := c.Get("keyName"); ok {
		resp["key_name"] = name
	}
	c.JSON(http.StatusOK, resp)
}
