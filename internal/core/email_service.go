package core

import (
	"context"
	"fmt"
	"iter"
	"log"

	"github.com/google/uuid"
)

// TraceRecorder receives completed generations for the local audit store and
// the experiment-tracking service. Recording is best-effort: implementations
// log their own failures and never block generation results.
type TraceRecorder interface {
	RecordGeneration(ctx context.Context, rec GenerationRecord)
}

// EmailResult is the outcome of a synchronous generation.
type EmailResult struct {
	Email    GeneratedEmail
	TraceID  string
	Degraded bool
}

// EmailService turns email requests into prompts, runs them through the
// completion client, and parses the output. It holds no per-request state;
// one instance serves all requests.
type EmailService struct {
	client    CompletionClient
	recorders []TraceRecorder
}

func NewEmailService(client CompletionClient, recorders ...TraceRecorder) *EmailService {
	return &EmailService{client: client, recorders: recorders}
}

// GenerateEmail issues a synchronous completion and parses the full response.
// A response that fails to parse as the expected JSON shape is downgraded to
// a partial extraction rather than surfaced as an error.
func (s *EmailService) GenerateEmail(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	raw, err := s.client.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	traceID := uuid.NewString()
	email, parseErr := ParseEmailJSON(raw)
	degraded := false
	if parseErr != nil {
		log.Printf("Model output for trace %s did not parse cleanly, serving partial extraction: %v", traceID, parseErr)
		extractor := &Extractor{}
		extractor.Feed(raw)
		email, _ = extractor.Finalize()
		degraded = true
	}

	s.record(ctx, req, traceID, email, degraded)
	return &EmailResult{Email: email, TraceID: traceID, Degraded: degraded}, nil
}

// StreamEmail relays model fragments as discrete events, attaching a
// best-effort preview to each token. Exactly one terminal event closes the
// sequence: done after upstream completion (even when the final text does not
// parse), or error on upstream failure. If the consumer stops early, the
// upstream stream is released with it.
func (s *EmailService) StreamEmail(ctx context.Context, req EmailRequest) iter.Seq[StreamEvent] {
	prompt := BuildPrompt(req)
	return func(yield func(StreamEvent) bool) {
		extractor := &Extractor{}

		for fragment, err := range s.client.Stream(ctx, prompt) {
			if err != nil {
				log.Printf("Upstream stream failed: %v", err)
				yield(StreamEvent{Type: EventError, Error: err.Error()})
				return
			}
			extractor.Feed(fragment)
			if !yield(StreamEvent{Type: EventToken, Content: fragment, Preview: extractor.Preview()}) {
				return
			}
		}

		traceID := uuid.NewString()
		email, degraded := extractor.Finalize()
		if degraded {
			log.Printf("Streamed output for trace %s did not parse cleanly, serving partial extraction", traceID)
		}
		s.record(ctx, req, traceID, email, degraded)
		yield(StreamEvent{Type: EventDone, TraceID: traceID, Email: &email, Degraded: degraded})
	}
}

func (s *EmailService) record(ctx context.Context, req EmailRequest, traceID string, email GeneratedEmail, degraded bool) {
	rec := GenerationRecord{
		TraceID:          traceID,
		CustomerName:     req.CustomerName(),
		UserInstructions: req.UserInstructions(),
		Email:            email,
		Degraded:         degraded,
	}
	for _, recorder := range s.recorders {
		recorder.RecordGeneration(ctx, rec)
	}
}
