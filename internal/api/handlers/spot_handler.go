package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"parkhere/internal/domain/entities"
	"parkhere/internal/locate"
	"parkhere/internal/services"
	"parkhere/internal/session"
	"parkhere/internal/store"
)

type SpotHandler struct {
	controller *session.Controller
	finder     *services.NearbyFinder
	spots      *store.SpotStore
}

func NewSpotHandler(controller *session.Controller, finder *services.NearbyFinder, spots *store.SpotStore) *SpotHandler {
	return &SpotHandler{
		controller: controller,
		finder:     finder,
		spots:      spots,
	}
}

// PositionRequest carries the device's GPS fix. Pointers distinguish a
// missing field from a legitimate zero coordinate.
type PositionRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (r PositionRequest) position() entities.Position {
	return entities.NewPosition(*r.Lat, *r.Lng)
}

// Save handles POST /spot.
func (h *SpotHandler) Save(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot, err := h.controller.Save(c.Request.Context(), locate.Fix(req.position()))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spot":         spot,
		"status":       "Parking saved!",
		"capabilities": h.controller.Capabilities(),
	})
}

// Get handles GET /spot.
func (h *SpotHandler) Get(c *gin.Context) {
	spot, err := h.controller.Spot()
	if err != nil {
		if errors.Is(err, session.ErrNoSpot) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no parking spot saved"})
			return
		}
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}

// Find handles POST /spot/find.
func (h *SpotHandler) Find(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.controller.Find(c.Request.Context(), locate.Fix(req.position()))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spot":            result.Spot,
		"elapsed":         result.ElapsedClock,
		"elapsed_spoken":  result.ElapsedSpoken,
		"distance_meters": result.DistanceMeters,
		"distance_text":   result.DistanceText,
		"bearing":         result.Bearing,
		"compass":         result.Compass,
		"status":          "Your car is " + result.DistanceText + " away.",
	})
}

// Reset handles DELETE /spot.
func (h *SpotHandler) Reset(c *gin.Context) {
	if err := h.controller.Reset(c.Request.Context()); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "Parking spot reset.",
		"capabilities": h.controller.Capabilities(),
	})
}

// ShareLink handles GET /spot/share. ?photo=true includes the photo payload.
func (h *SpotHandler) ShareLink(c *gin.Context) {
	includePhoto := c.Query("photo") == "true"

	link, shared, err := h.controller.Share(c.Request.Context(), includePhoto)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	status := "Link copied to clipboard!"
	if shared {
		status = "Share sheet opened."
	}
	c.JSON(http.StatusOK, gin.H{"url": link, "shared": shared, "status": status})
}

// Directions handles GET /spot/directions.
func (h *SpotHandler) Directions(c *gin.Context) {
	directions, err := h.controller.DirectionsURL()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	view, err := h.controller.MapsViewURL()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directions_url": directions, "maps_url": view})
}

// WhatsApp handles GET /spot/whatsapp.
func (h *SpotHandler) WhatsApp(c *gin.Context) {
	waURL, err := h.controller.WhatsAppURL(c.Request.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoWhatsAppNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "configure a WhatsApp number in international format first"})
			return
		}
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": waURL})
}

// Nearby handles GET /spot/nearby.
func (h *SpotHandler) Nearby(c *gin.Context) {
	spot, err := h.controller.Spot()
	if err != nil {
		writeSessionError(c, err)
		return
	}

	result, err := h.finder.FindNearby(c.Request.Context(), spot)
	if err != nil {
		if errors.Is(err, services.ErrNearbySearchFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "failures": result.Failures})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PhotoRequest carries a photo payload as a Data URL.
type PhotoRequest struct {
	Data string `json:"data" binding:"required"`
}

// SavePhoto handles PUT /spot/photo. The photo slot is independent of the
// spot slot: attaching a photo neither requires nor touches a saved spot.
func (h *SpotHandler) SavePhoto(c *gin.Context) {
	if h.controller.State() == session.StateSharedView {
		c.JSON(http.StatusConflict, gin.H{"error": session.ErrSharedView.Error()})
		return
	}

	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := h.spots.SavePhoto(c.Request.Context(), req.Data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ref": photo.Ref})
}

// writeSessionError maps session and store errors onto HTTP statuses.
func writeSessionError(c *gin.Context, err error) {
	var locErr *locate.Error
	switch {
	case errors.As(err, &locErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": locErr.Message, "kind": locErr.Kind.String()})
	case errors.Is(err, store.ErrInvalidLocation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNoSpot):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSharedView):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
