package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"parkhere/internal/api"
	"parkhere/internal/api/handlers"
	"parkhere/internal/clients"
	"parkhere/internal/config"
	"parkhere/internal/services"
	"parkhere/internal/session"
	"parkhere/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Open the device-local store
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	kv, err := store.OpenKV(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer kv.Close()

	spots := store.NewSpotStore(kv)
	prefs := store.NewPrefs(kv)

	// External collaborators
	photon := clients.NewPhoton(cfg.Photon.BaseURL, cfg.Photon.Timeout)
	geocoder := clients.NewNominatim(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent, cfg.Nominatim.Timeout)

	// Services
	finder := services.NewNearbyFinder(photon, cfg.Geo.SearchLimit, cfg.Geo.MaxPerCategory)
	controller := session.NewController(cfg, spots, prefs, geocoder, session.Collaborators{
		Maps:   services.LogMapRenderer{},
		Voice:  services.LogSpeaker{},
		Notify: services.LogNotifier{},
		Clip:   services.LogClipboard{},
	})
	defer controller.Close()

	// Handlers
	sessionHandler := handlers.NewSessionHandler(controller, spots, prefs)
	spotHandler := handlers.NewSpotHandler(controller, finder, spots)
	prefsHandler := handlers.NewPrefsHandler(prefs)

	// Setup router
	router := api.NewRouter(sessionHandler, spotHandler, prefsHandler)

	// Create Gin engine
	engine := gin.Default()
	router.Setup(engine)

	// Start server
	log.Printf("Starting ParkHere server on %s", cfg.Server.Port)
	if err := engine.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
