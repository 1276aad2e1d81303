package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"parkhere/internal/session"
	"parkhere/internal/store"
)

type SessionHandler struct {
	controller *session.Controller
	spots      *store.SpotStore
	prefs      *store.Prefs
}

func NewSessionHandler(controller *session.Controller, spots *store.SpotStore, prefs *store.Prefs) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		spots:      spots,
		prefs:      prefs,
	}
}

// Bootstrap handles GET /session. It mirrors page load: share parameters in
// the query string yield a read-only shared view; otherwise the owner's spot
// is restored from the store.
func (h *SessionHandler) Bootstrap(c *gin.Context) {
	state, err := h.controller.Start(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if state == session.StateSharedView {
		view := h.controller.SharedView()
		parkedAt := "an unknown time"
		if view.HasTime() {
			parkedAt = view.RecordedAt.Format("3:04 PM")
		}
		c.JSON(http.StatusOK, gin.H{
			"state":     state.String(),
			"spot":      view,
			"status":    "Parked at " + parkedAt,
			"has_photo": view.PhotoData != "",
		})
		return
	}

	resp := gin.H{
		"state":        state.String(),
		"capabilities": h.controller.Capabilities(),
	}

	if spot, err := h.controller.Spot(); err == nil {
		resp["spot"] = spot
		if elapsed, err := h.controller.Elapsed(time.Now()); err == nil {
			resp["elapsed"] = elapsed.Round(time.Second).String()
		}
	}
	if photo, err := h.spots.LoadPhoto(c.Request.Context()); err == nil && photo != nil {
		resp["photo_ref"] = photo.Ref
	}
	resp["prefs"] = h.prefsPayload(c.Request.Context())

	c.JSON(http.StatusOK, resp)
}

// prefsPayload collects the persisted preferences for the bootstrap response.
// Reads are best effort; bootstrap never fails on a preference slot.
func (h *SessionHandler) prefsPayload(ctx context.Context) gin.H {
	delay, _ := h.prefs.NotifyDelay(ctx)
	voice, _ := h.prefs.PreferredVoice(ctx)
	dark, _ := h.prefs.DarkMode(ctx)
	number, _ := h.prefs.WhatsAppNumber(ctx)
	return gin.H{
		"notify_delay_ms": delay.Milliseconds(),
		"preferred_voice": voice,
		"dark_mode":       dark,
		"whatsapp_number": number,
	}
}
