package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"cloudflow.com/sales-email-assistant/internal/catalog"
	"cloudflow.com/sales-email-assistant/internal/config"
	"cloudflow.com/sales-email-assistant/internal/core"
)

// APIHandler maps component operations onto endpoints. It performs request
// validation and status mapping only; business logic lives in the services.
type APIHandler struct {
	catalog  *catalog.Catalog
	emails   *core.EmailService
	feedback *core.FeedbackService
	llmLive  bool // live completion client vs mock, fixed at startup
}

func NewAPIHandler(cat *catalog.Catalog, emails *core.EmailService, feedback *core.FeedbackService, llmLive bool) *APIHandler {
	return &APIHandler{
		catalog:  cat,
		emails:   emails,
		feedback: feedback,
		llmLive:  llmLive,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                  "ok",
		"completion_client_ready": h.llmLive,
	})
}

func (h *APIHandler) EnvCheckHandler(w http.ResponseWriter, r *http.Request) {
	vars, allPresent := config.EnvReport()
	writeJSON(w, http.StatusOK, map[string]any{
		"environment_variables": vars,
		"all_vars_present":      allPresent,
	})
}

func (h *APIHandler) ListCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}

func (h *APIHandler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Company names contain spaces; the route param arrives percent-encoded.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	record, err := h.catalog.Get(name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("customer %q not found", name))
			return
		}
		log.Printf("Error looking up customer %q: %v", name, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to look up customer")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(record); err != nil {
		log.Printf("Failed to write customer record: %v", err)
	}
}

// decodeEmailRequest validates the shared body of both generation endpoints.
func decodeEmailRequest(w http.ResponseWriter, r *http.Request) (core.EmailRequest, bool) {
	var req core.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return core.EmailRequest{}, false
	}
	if len(req.CustomerInfo) == 0 || string(req.CustomerInfo) == "null" {
		writeJSONError(w, http.StatusBadRequest, "customer_info is required")
		return core.EmailRequest{}, false
	}
	return req, true
}

type generateEmailResponse struct {
	core.GeneratedEmail
	TraceID  string `json:"trace_id"`
	Degraded bool   `json:"degraded,omitempty"`
}

func (h *APIHandler) GenerateEmailHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	result, err := h.emails.GenerateEmail(r.Context(), req)
	if err != nil {
		log.Printf("Email generation failed for customer %q: %v", req.CustomerName(), err)
		writeJSONError(w, http.StatusBadGateway, "error communicating with the model: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateEmailResponse{
		GeneratedEmail: result.Email,
		TraceID:        result.TraceID,
		Degraded:       result.Degraded,
	})
}

// GenerateEmailStreamHandler relays generation as a server-sent event stream:
// each event is one "data: <StreamEvent JSON>" line, the stream ends after
// the terminal done or error event.
func (h *APIHandler) GenerateEmailStreamHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for event := range h.emails.StreamEmail(r.Context(), req) {
		data, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal stream event: %v", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Browser went away. Returning stops the event iteration, which
			// releases the upstream stream along with the request context.
			log.Printf("Client disconnected mid-stream: %v", err)
			return
		}
		flusher.Flush()
	}
}

type feedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *APIHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var rec core.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	err := h.feedback.Submit(r.Context(), rec)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, feedbackResponse{Success: true, Message: "feedback recorded"})
	case errors.Is(err, core.ErrInvalidCorrelation):
		writeJSON(w, http.StatusBadRequest, feedbackResponse{Success: false, Message: err.Error()})
	default:
		// Forwarding failures are non-critical: report them in the body, not
		// as an HTTP error.
		log.Printf("Feedback for trace %s not forwarded: %v", rec.TraceID, err)
		writeJSON(w, http.StatusOK, feedbackResponse{Success: false, Message: err.Error()})
	}
}
