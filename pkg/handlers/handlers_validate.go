package handlers

import (
	"net/http"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a roster payload without storing it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input struct {
		Agents []models.Agent `json:"agents"`
		Teams  []models.Team  `json:"teams"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Basic validation of data structures
	if len(input.Agents) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one agent is required",
		})
		return
	}

	if len(input.Teams) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one team is required",
		})
		return
	}

	// Check for duplicate IDs and invalid entries
	agentIDs := make(map[string]bool)
	for _, a := range input.Agents {
		if a.ID != "" && agentIDs[a.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate agent ID: " + a.ID})
			return
		}
		agentIDs[a.ID] = true
		if err := a.Validate(); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
	}

	teamIDs := make(map[string]bool)
	teamNames := make(map[string]bool)
	for _, t := range input.Teams {
		if t.ID != "" && teamIDs[t.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate team ID: " + t.ID})
			return
		}
		teamIDs[t.ID] = true
		teamNames[t.Name] = true
		if err := t.Validate(); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
	}

	// Agents may name teams that do not exist; report them without failing
	unknown := []string{}
	seen := make(map[string]bool)
	for _, a := range input.Agents {
		if a.Team != "" && !teamNames[a.Team] && !seen[a.Team] {
			seen[a.Team] = true
			unknown = append(unknown, a.Team)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"agent_count": len(input.Agents),
			"team_count":  len(input.Teams),
		},
		"unknown_teams": unknown,
	})
}
