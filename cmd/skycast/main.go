package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"skycast/internal/dashboard"
	"skycast/internal/genai"
	"skycast/internal/handlers"
	"skycast/internal/store"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("SKYCAST_DB")
	if dbPath == "" {
		dbPath = "skycast.db"
	}

	// Open the preference store
	prefs, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Preference store setup failed: %v", err)
	}
	defer prefs.Close()
	log.Println("Preference store opened successfully")

	client := genai.NewClient()
	if client.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; generation requests will fail")
	}

	svc, err := dashboard.NewService(client, prefs)
	if err != nil {
		log.Fatalf("Service setup failed: %v", err)
	}

	// Setup routes
	router := mux.NewRouter()
	h := handlers.New(svc, prefs)
	h.RegisterRoutes(router)

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
