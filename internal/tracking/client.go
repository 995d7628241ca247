// Package tracking talks to the experiment-tracking service: it registers
// completed generations as traces and forwards user feedback as labeled
// human assessments. Trace registration is best-effort; the demo keeps
// working when the service is down.
package tracking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"cloudflow.com/sales-email-assistant/internal/core"
)

const feedbackName = "user_feedback"

type Client struct {
	http         *resty.Client
	experimentID string
}

func NewClient(baseURL, token, experimentID string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(10 * time.Second)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Client{http: client, experimentID: experimentID}
}

type tracePayload struct {
	ExperimentID    string            `json:"experiment_id"`
	TraceID         string            `json:"trace_id"`
	RequestPreview  string            `json:"request_preview"`
	ResponsePreview string            `json:"response_preview"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// RecordGeneration registers a completed generation as a trace. Failures are
// logged and swallowed: tracking must never break email generation.
func (c *Client) RecordGeneration(ctx context.Context, rec core.GenerationRecord) {
	instructions := rec.UserInstructions
	instructionsTag := "yes"
	if instructions == "" {
		instructions = "No instructions provided"
		instructionsTag = "no"
	}

	payload := tracePayload{
		ExperimentID:    c.experimentID,
		TraceID:         rec.TraceID,
		RequestPreview:  fmt.Sprintf("Customer: %s; User Instructions: %s", rec.CustomerName, instructions),
		ResponsePreview: rec.Email.Body,
		Tags:            map[string]string{"user_instructions": instructionsTag},
	}
	if rec.Degraded {
		payload.Tags["degraded"] = "true"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/api/2.0/traces")
	if err != nil {
		log.Printf("Failed to register trace %s with tracking service: %v", rec.TraceID, err)
		return
	}
	if resp.IsError() {
		log.Printf("Tracking service rejected trace %s: %s", rec.TraceID, resp.Status())
	}
}

type feedbackPayload struct {
	Name      string         `json:"name"`
	Value     bool           `json:"value"`
	Rationale string         `json:"rationale,omitempty"`
	Source    feedbackSource `json:"source"`
}

type feedbackSource struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id,omitempty"`
}

// ForwardFeedback attributes a user rating to a prior trace. Unlike trace
// registration, failures are returned so the caller can report them.
func (c *Client) ForwardFeedback(ctx context.Context, rec core.FeedbackRecord) error {
	payload := feedbackPayload{
		Name:      feedbackName,
		Value:     rec.Rating == core.RatingPositive,
		Rationale: rec.Comment,
		Source: feedbackSource{
			SourceType: "HUMAN",
			SourceID:   rec.SalesRepName,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetPathParam("traceID", rec.TraceID).
		Post("/api/2.0/traces/{traceID}/feedback")
	if err != nil {
		return fmt.Errorf("tracking service unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("tracking service rejected feedback: %s", resp.Status())
	}
	return nil
}
