package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/w2w/pkg/database"
	"github.com/arnavshah/w2w/pkg/export"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/scheduler"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
)

// GenerateSchedule builds the week containing startDate, or the current week
// when it is omitted
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var req struct {
		StartDate string `json:"startDate"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	start := models.DateOf(time.Now())
	if req.StartDate != "" {
		d, err := models.ParseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		start = d
	}

	schedule, err := h.Store.GenerateSchedule(c.Request.Context(), start)
	h.Metrics.RecordGeneration(generationOutcome(err))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.recordUsage(func() error { return database.RecordGeneration(h.DB, len(schedule)) })

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"weekStart":     start.WeekStart(),
		"schedule":      schedule,
		"fairnessScore": scheduler.CalculateFairnessScore(schedule),
		"notice":        notice(t("schedule.generate"), t("schedule.weekStarting")+" "+start.WeekStart().String()),
	})
}

func generationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, scheduler.ErrMissingPrerequisites):
		return "missing_prerequisites"
	default:
		return "error"
	}
}

// GetSchedule returns the stored schedule, filtered by ?team= when present
func (h *Handler) GetSchedule(c *gin.Context) {
	schedule := store.FilterSchedule(h.Store.Schedule(), c.Query("team"))
	resp := gin.H{
		"schedule":      schedule,
		"fairnessScore": scheduler.CalculateFairnessScore(schedule),
	}
	if len(schedule) > 0 {
		if dates := schedule[0].Dates(); len(dates) > 0 {
			resp["weekStart"] = dates[0]
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ScheduleTeams lists the distinct team names used by agents, for filtering
func (h *Handler) ScheduleTeams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teams": store.AgentTeams(h.Store.Agents())})
}

// ExportSchedule streams the stored schedule as an xlsx workbook
func (h *Handler) ExportSchedule(c *gin.Context) {
	data, name, err := export.Workbook(h.Store.Schedule(), h.Store.Translator())
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			h.Metrics.RecordExport("empty")
		} else {
			h.Metrics.RecordExport("error")
		}
		h.respondError(c, err)
		return
	}
	h.Metrics.RecordExport("ok")
	h.recordUsage(func() error { return database.RecordExport(h.DB) })

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	c.Data(http.StatusOK, export.ContentType, data)
}

// Coverage reports team shifts scheduled below their required headcount
func (h *Handler) Coverage(c *gin.Context) {
	state := h.Store.State()
	gaps := scheduler.NewScheduler(state.Agents, state.Teams).Coverage(state.Schedule)
	if gaps == nil {
		gaps = []scheduler.CoverageGap{}
	}
	c.JSON(http.StatusOK, gin.H{
		"gaps":        gaps,
		"workingDays": scheduler.WorkingDays(state.Schedule),
	})
}

// recordUsage runs fn when usage tracking is configured. Failures are logged
// and never fail the request.
func (h *Handler) recordUsage(fn func() error) {
	if h.DB == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("record usage: %v", err)
	}
}
