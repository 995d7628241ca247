package core

import (
	"context"
	"errors"
	"testing"
)

type fakeForwarder struct {
	forwarded []FeedbackRecord
	err       error
}

func (f *fakeForwarder) ForwardFeedback(ctx context.Context, rec FeedbackRecord) error {
	f.forwarded = append(f.forwarded, rec)
	return f.err
}

type fakeValidator struct {
	known map[string]bool
}

func (v *fakeValidator) HasTrace(ctx context.Context, traceID string) bool {
	return v.known[traceID]
}

type fakeAudit struct {
	records   []FeedbackRecord
	forwarded []bool
}

func (a *fakeAudit) RecordFeedback(ctx context.Context, rec FeedbackRecord, forwarded bool) {
	a.records = append(a.records, rec)
	a.forwarded = append(a.forwarded, forwarded)
}

func TestSubmitForwardsValidFeedback(t *testing.T) {
	forwarder := &fakeForwarder{}
	validator := &fakeValidator{known: map[string]bool{"t-1": true}}
	audit := &fakeAudit{}
	service := NewFeedbackService(forwarder, validator, audit)

	rec := FeedbackRecord{TraceID: "t-1", Rating: RatingPositive, Comment: "good", SalesRepName: "Jane"}
	if err := service.Submit(context.Background(), rec); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(forwarder.forwarded) != 1 || forwarder.forwarded[0].TraceID != "t-1" {
		t.Errorf("expected one forwarded record, got %+v", forwarder.forwarded)
	}
	if len(audit.forwarded) != 1 || !audit.forwarded[0] {
		t.Errorf("expected audit entry marked forwarded, got %+v", audit.forwarded)
	}
}

func TestSubmitRejectsEmptyTraceBeforeForwarding(t *testing.T) {
	forwarder := &fakeForwarder{}
	service := NewFeedbackService(forwarder, nil, nil)

	err := service.Submit(context.Background(), FeedbackRecord{Rating: RatingPositive})
	if !errors.Is(err, ErrInvalidCorrelation) {
		t.Fatalf("expected ErrInvalidCorrelation, got %v", err)
	}
	if len(forwarder.forwarded) != 0 {
		t.Error("invalid feedback must not reach the forwarder")
	}
}

func TestSubmitRejectsUnknownTrace(t *testing.T) {
	forwarder := &fakeForwarder{}
	validator := &fakeValidator{known: map[string]bool{}}
	service := NewFeedbackService(forwarder, validator, nil)

	err := service.Submit(context.Background(), FeedbackRecord{TraceID: "nope", Rating: RatingNegative})
	if !errors.Is(err, ErrInvalidCorrelation) {
		t.Fatalf("expected ErrInvalidCorrelation, got %v", err)
	}
	if len(forwarder.forwarded) != 0 {
		t.Error("unknown traces must not reach the forwarder")
	}
}

func TestSubmitRejectsBadRating(t *testing.T) {
	service := NewFeedbackService(&fakeForwarder{}, nil, nil)
	err := service.Submit(context.Background(), FeedbackRecord{TraceID: "t-1", Rating: "meh"})
	if err == nil || errors.Is(err, ErrInvalidCorrelation) {
		t.Fatalf("expected a rating validation error, got %v", err)
	}
}

func TestSubmitReportsForwardingFailure(t *testing.T) {
	forwarder := &fakeForwarder{err: errors.New("503 from tracking")}
	audit := &fakeAudit{}
	service := NewFeedbackService(forwarder, nil, audit)

	err := service.Submit(context.Background(), FeedbackRecord{TraceID: "t-1", Rating: RatingPositive})
	if err == nil {
		t.Fatal("expected forwarding failure to surface")
	}
	if len(audit.forwarded) != 1 || audit.forwarded[0] {
		t.Errorf("expected audit entry marked not forwarded, got %+v", audit.forwarded)
	}
}

func TestSubmitWithoutForwarderFails(t *testing.T) {
	service := NewFeedbackService(nil, nil, nil)
	err := service.Submit(context.Background(), FeedbackRecord{TraceID: "t-1", Rating: RatingPositive})
	if err == nil {
		t.Fatal("expected error when no tracking service is configured")
	}
}
