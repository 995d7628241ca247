package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"cloudflow.com/sales-email-assistant/internal/middleware"
	"cloudflow.com/sales-email-assistant/web"
)

// devOrigins are the front-end dev servers allowed to call the API directly.
// The built front end is served from this process and needs no CORS.
var devOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
}

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)       // Basic request logging
	r.Use(chiMiddleware.Recoverer)    // Recover from panics
	r.Use(chiMiddleware.StripSlashes) // Ensure consistent path handling
	r.Use(middleware.CORS(devOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", apiHandler.HealthHandler)
		r.Get("/env-check", apiHandler.EnvCheckHandler)

		r.Get("/companies", apiHandler.ListCompaniesHandler)
		r.Get("/customer/{name}", apiHandler.GetCustomerHandler)

		r.Post("/generate-email", apiHandler.GenerateEmailHandler)
		r.Post("/generate-email-stream", apiHandler.GenerateEmailStreamHandler)

		r.Post("/feedback", apiHandler.FeedbackHandler)
	})

	// Serve the compiled front end for everything else (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	return r
}
