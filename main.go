package main

import (
	"context"
	"log"
	"net/http"

	"ornament-catalog/app"
	"ornament-catalog/config"
	"ornament-catalog/db"
)

func main() {
	// Load .env in development, then parse the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize application
	handler, err := app.Initialize(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := cfg.Addr()
	log.Printf("Server starting on %s", addr)
	log.Printf("Backend: %s", cfg.BackendBaseURL)
	log.Printf("Catalog endpoint: GET http://localhost:%s/catalog", cfg.Port)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
