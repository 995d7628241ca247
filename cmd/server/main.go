package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudflow.com/sales-email-assistant/internal/api"
	"cloudflow.com/sales-email-assistant/internal/catalog"
	"cloudflow.com/sales-email-assistant/internal/config"
	"cloudflow.com/sales-email-assistant/internal/core"
	"cloudflow.com/sales-email-assistant/internal/store"
	"cloudflow.com/sales-email-assistant/internal/tracking"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Load the customer catalog (read-only reference data)
	cat, err := catalog.Load(config.AppConfig.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load customer catalog: %v", err)
	}
	log.Printf("Customer catalog loaded with %d companies", cat.Len())

	// Initialize the local trace store
	traceStore, err := store.NewTraceStore(config.AppConfig.TraceDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize trace store: %v", err)
	}
	defer traceStore.Close()

	// Initialize the completion client: live when credentials are present,
	// mock otherwise so the rest of the app stays usable.
	var (
		completionClient core.CompletionClient
		llmLive          bool
	)
	if config.AppConfig.GeminiAPIKey != "" {
		geminiClient, err := core.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.ModelName)
		if err != nil {
			log.Printf("Failed to initialize GenAI client, falling back to mock completions: %v", err)
			completionClient = core.NewMockClient()
		} else {
			defer geminiClient.Close()
			completionClient = geminiClient
			llmLive = true
			log.Printf("GenAI client initialized with model %s", config.AppConfig.ModelName)
		}
	} else {
		log.Println("GEMINI_API_KEY not set, serving mock completions")
		completionClient = core.NewMockClient()
	}

	// Initialize the tracking client when a tracking service is configured.
	recorders := []core.TraceRecorder{traceStore}
	var forwarder core.FeedbackForwarder
	if config.AppConfig.TrackingURI != "" {
		trackingClient := tracking.NewClient(config.AppConfig.TrackingURI, config.AppConfig.TrackingToken, config.AppConfig.ExperimentID)
		recorders = append(recorders, trackingClient)
		forwarder = trackingClient
		log.Printf("Tracking client initialized for %s", config.AppConfig.TrackingURI)
	} else {
		log.Println("TRACKING_URI not set, feedback forwarding disabled")
	}

	// Initialize services
	emailService := core.NewEmailService(completionClient, recorders...)
	feedbackService := core.NewFeedbackService(forwarder, traceStore, traceStore)

	// Initialize API handler and router
	apiHandler := api.NewAPIHandler(cat, emailService, feedbackService, llmLive)
	router := api.NewRouter(apiHandler)

	srv := &http.Server{
		Addr:         ":" + config.AppConfig.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streamed responses must outlive any fixed write deadline
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not listen on %s: %v\n", srv.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
