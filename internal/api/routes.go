package api

import (
	"github.com/gin-gonic/gin"
	"parkhere/internal/api/handlers"
)

type Router struct {
	sessionHandler *handlers.SessionHandler
	spotHandler    *handlers.SpotHandler
	prefsHandler   *handlers.PrefsHandler
}

func NewRouter(
	sessionHandler *handlers.SessionHandler,
	spotHandler *handlers.SpotHandler,
	prefsHandler *handlers.PrefsHandler,
) *Router {
	return &Router{
		sessionHandler: sessionHandler,
		spotHandler:    spotHandler,
		prefsHandler:   prefsHandler,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Session bootstrap: decides owner vs shared view from the query string.
	engine.GET("/session", r.sessionHandler.Bootstrap)

	spot := engine.Group("/spot")
	{
		spot.POST("", r.spotHandler.Save)
		spot.GET("", r.spotHandler.Get)
		spot.DELETE("", r.spotHandler.Reset)
		spot.POST("/find", r.spotHandler.Find)
		spot.GET("/share", r.spotHandler.ShareLink)
		spot.GET("/directions", r.spotHandler.Directions)
		spot.GET("/whatsapp", r.spotHandler.WhatsApp)
		spot.GET("/nearby", r.spotHandler.Nearby)
		spot.PUT("/photo", r.spotHandler.SavePhoto)
	}

	prefs := engine.Group("/prefs")
	{
		prefs.GET("", r.prefsHandler.Get)
		prefs.PUT("", r.prefsHandler.Update)
	}
}
