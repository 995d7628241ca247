package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCorrelation means the feedback does not reference a generation
// this process can attribute.
var ErrInvalidCorrelation = errors.New("missing or unknown trace identifier")

// FeedbackForwarder sends a feedback record to the external tracking service.
type FeedbackForwarder interface {
	ForwardFeedback(ctx context.Context, rec FeedbackRecord) error
}

// FeedbackValidator answers whether a trace identifier belongs to a prior
// generation call.
type FeedbackValidator interface {
	HasTrace(ctx context.Context, traceID string) bool
}

// FeedbackAudit keeps a local record of feedback submissions and whether
// forwarding succeeded.
type FeedbackAudit interface {
	RecordFeedback(ctx context.Context, rec FeedbackRecord, forwarded bool)
}

// FeedbackService validates feedback and forwards it once. No retry and no
// queue: loss on transient failure is accepted, and the failure is reported
// to the caller.
type FeedbackService struct {
	forwarder FeedbackForwarder
	validator FeedbackValidator
	audit     FeedbackAudit
}

// NewFeedbackService builds a feedback service. validator and audit may be
// nil; forwarder may be nil when no tracking service is configured, in which
// case every submission fails after validation.
func NewFeedbackService(forwarder FeedbackForwarder, validator FeedbackValidator, audit FeedbackAudit) *FeedbackService {
	return &FeedbackService{forwarder: forwarder, validator: validator, audit: audit}
}

// Submit validates and forwards one feedback record. Validation failures
// return before any network call is made.
func (s *FeedbackService) Submit(ctx context.Context, rec FeedbackRecord) error {
	if rec.TraceID == "" {
		return ErrInvalidCorrelation
	}
	if rec.Rating != RatingPositive && rec.Rating != RatingNegative {
		return fmt.Errorf("rating must be %q or %q", RatingPositive, RatingNegative)
	}
	if s.validator != nil && !s.validator.HasTrace(ctx, rec.TraceID) {
		return ErrInvalidCorrelation
	}

	var err error
	if s.forwarder == nil {
		err = fmt.Errorf("tracking service is not configured")
	} else {
		err = s.forwarder.ForwardFeedback(ctx, rec)
	}

	if s.audit != nil {
		s.audit.RecordFeedback(ctx, rec, err == nil)
	}
	return err
}
