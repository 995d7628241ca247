package store

import "time"

// Trace is the local record of one completed generation. The authoritative
// trace lives in the external tracking service; this copy exists so feedback
// can be validated and the demo inspected without tracking credentials.
type Trace struct {
	ID               string    `json:"id"` // UUID, the correlation identifier
	CustomerName     string    `json:"customer_name"`
	UserInstructions string    `json:"user_instructions,omitempty"`
	SubjectLine      string    `json:"subject_line"`
	Degraded         bool      `json:"degraded"`
	CreatedAt        time.Time `json:"created_at"`
}

// Feedback is the local audit row for one feedback submission.
type Feedback struct {
	ID           string    `json:"id"` // UUID
	TraceID      string    `json:"trace_id"`
	Rating       string    `json:"rating"` // "positive" or "negative"
	Comment      string    `json:"comment,omitempty"`
	SalesRepName string    `json:"sales_rep_name,omitempty"`
	Forwarded    bool      `json:"forwarded"`
	CreatedAt    time.Time `json:"created_at"`
}
