package core

import "encoding/json"

// EmailRequest is one generation call: a customer record (possibly edited in
// the browser) plus optional free-text instructions carried inside it under
// user_instructions_for_email. The record is forwarded to the prompt as-is.
type EmailRequest struct {
	CustomerInfo json.RawMessage `json:"customer_info"`
}

type requestProbe struct {
	Account struct {
		Name string `json:"name"`
	} `json:"account"`
	UserInstructions string `json:"user_instructions_for_email"`
}

func (r EmailRequest) probe() requestProbe {
	var p requestProbe
	// A record that doesn't match the probe shape simply yields empty fields.
	_ = json.Unmarshal(r.CustomerInfo, &p)
	return p
}

// CustomerName returns account.name from the record, or "" when absent.
func (r EmailRequest) CustomerName() string {
	return r.probe().Account.Name
}

// UserInstructions returns the optional free-text instructions, or "".
func (r EmailRequest) UserInstructions() string {
	return r.probe().UserInstructions
}

// GeneratedEmail is the parsed model output. During streaming, preview copies
// of it may be partially populated; the final email surfaced on done is always
// re-derived from the complete accumulated text.
type GeneratedEmail struct {
	SubjectLine string `json:"subject_line"`
	Body        string `json:"body"`
}

// Stream event types. A stream is zero or more token events followed by
// exactly one terminal event, done or error.
const (
	EventToken = "token"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is one SSE payload sent to the browser.
type StreamEvent struct {
	Type     string          `json:"type"`
	Content  string          `json:"content,omitempty"`
	Preview  *GeneratedEmail `json:"preview,omitempty"`
	TraceID  string          `json:"trace_id,omitempty"`
	Email    *GeneratedEmail `json:"email,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Feedback ratings.
const (
	RatingPositive = "positive"
	RatingNegative = "negative"
)

// FeedbackRecord attributes a thumbs-up/down to a prior generation. Write
// once, forwarded immediately, never retried.
type FeedbackRecord struct {
	TraceID      string `json:"trace_id"`
	Rating       string `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	SalesRepName string `json:"sales_rep_name,omitempty"`
}

// GenerationRecord is what trace recorders receive after a generation
// completes, whether cleanly parsed or degraded.
type GenerationRecord struct {
	TraceID          string
	CustomerName     string
	UserInstructions string
	Email            GeneratedEmail
	Degraded         bool
}
