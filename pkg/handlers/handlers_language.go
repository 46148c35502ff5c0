package handlers

import (
	"net/http"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/gin-gonic/gin"
)

// languageOption is one entry of the settings language picker
type languageOption struct {
	Tag    models.LanguageTag `json:"tag"`
	Label  string             `json:"label"`
	Active bool               `json:"active"`
}

// GetLanguage returns the current language and the available options
// labelled in that language
func (h *Handler) GetLanguage(c *gin.Context) {
	current := h.Store.Language()
	t := h.Store.Translator()
	options := []languageOption{
		{Tag: models.English, Label: t("settings.english"), Active: current == models.English},
		{Tag: models.Spanish, Label: t("settings.spanish"), Active: current == models.Spanish},
	}
	c.JSON(http.StatusOK, gin.H{"current": current, "options": options})
}

// SetLanguage persists the selected language
func (h *Handler) SetLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := models.ParseLanguageTag(req.Language)
	if err != nil {
		h.respondError(c, err)
		return
	}

	err = h.Store.SetLanguage(c.Request.Context(), tag)
	h.Metrics.RecordMutation("language.set", err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	t := h.Store.Translator()
	c.JSON(http.StatusOK, gin.H{
		"current": tag,
		"notice":  notice(t("settings.language"), t("settings."+languageLabelKey(tag))),
	})
}

func languageLabelKey(tag models.LanguageTag) string {
	if tag == models.Spanish {
		return "spanish"
	}
	return "english"
}

// GetTranslations returns the message table for ?lang=, defaulting to the
// current language
func (h *Handler) GetTranslations(c *gin.Context) {
	tag := h.Store.Language()
	if q := c.Query("lang"); q != "" {
		parsed, err := models.ParseLanguageTag(q)
		if err != nil {
			h.respondError(c, err)
			return
		}
		tag = parsed
	}
	c.JSON(http.StatusOK, gin.H{
		"language":     tag,
		"translations": h.Store.Catalog().Table(tag),
	})
}
