package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"parkhere/internal/store"
)

type PrefsHandler struct {
	prefs *store.Prefs
}

func NewPrefsHandler(prefs *store.Prefs) *PrefsHandler {
	return &PrefsHandler{prefs: prefs}
}

// Get handles GET /prefs.
func (h *PrefsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	delay, err := h.prefs.NotifyDelay(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	voice, err := h.prefs.PreferredVoice(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dark, err := h.prefs.DarkMode(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	number, err := h.prefs.WhatsAppNumber(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notify_delay_ms": delay.Milliseconds(),
		"preferred_voice": voice,
		"dark_mode":       dark,
		"whatsapp_number": number,
	})
}

// UpdatePrefsRequest is a partial update; only the fields present change.
type UpdatePrefsRequest struct {
	NotifyDelayMs  *int64  `json:"notify_delay_ms"`
	PreferredVoice *int    `json:"preferred_voice"`
	DarkMode       *bool   `json:"dark_mode"`
	WhatsAppNumber *string `json:"whatsapp_number"`
}

// Update handles PUT /prefs.
func (h *PrefsHandler) Update(c *gin.Context) {
	var req UpdatePrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if req.NotifyDelayMs != nil {
		if err := h.prefs.SetNotifyDelay(ctx, time.Duration(*req.NotifyDelayMs)*time.Millisecond); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.PreferredVoice != nil {
		if err := h.prefs.SetPreferredVoice(ctx, *req.PreferredVoice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.DarkMode != nil {
		if err := h.prefs.SetDarkMode(ctx, *req.DarkMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.WhatsAppNumber != nil {
		if err := h.prefs.SetWhatsAppNumber(ctx, *req.WhatsAppNumber); err != nil {
			if errors.Is(err, store.ErrInvalidPhoneNumber) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	h.Get(c)
}
