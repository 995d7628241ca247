package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"cloudflow.com/sales-email-assistant/internal/core"
)

// TraceStore keeps transient demo telemetry: generation traces and feedback
// audit rows. Customer data never goes through here; the catalog stays
// file-based and read-only.
type TraceStore struct {
	db *sql.DB
}

func NewTraceStore(dataSourceName string) (*TraceStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &TraceStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *TraceStore) Close() error {
	return s.db.Close()
}

func (s *TraceStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS traces (
        id TEXT PRIMARY KEY, -- UUID
        customer_name TEXT NOT NULL,
        user_instructions TEXT,
        subject_line TEXT,
        degraded BOOLEAN DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS feedback (
        id TEXT PRIMARY KEY, -- UUID
        trace_id TEXT NOT NULL,
        rating TEXT NOT NULL CHECK (rating IN ('positive', 'negative')),
        comment TEXT,
        sales_rep_name TEXT,
        forwarded BOOLEAN DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (trace_id) REFERENCES traces (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// RecordGeneration stores the local copy of a completed generation. Best
// effort: a storage failure is logged, never propagated, so it cannot break
// a generation that already succeeded.
func (s *TraceStore) RecordGeneration(ctx context.Context, rec core.GenerationRecord) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO traces (id, customer_name, user_instructions, subject_line, degraded, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.TraceID, rec.CustomerName, rec.UserInstructions, rec.Email.SubjectLine, rec.Degraded, time.Now())
	if err != nil {
		log.Printf("Failed to record trace %s locally: %v", rec.TraceID, err)
	}
}

// HasTrace reports whether a trace identifier belongs to a generation this
// process recorded.
func (s *TraceStore) HasTrace(ctx context.Context, traceID string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM traces WHERE id = ?", traceID).Scan(&one)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Failed to look up trace %s: %v", traceID, err)
		}
		return false
	}
	return true
}

// GetTrace returns a trace by ID, or nil when absent.
func (s *TraceStore) GetTrace(ctx context.Context, traceID string) (*Trace, error) {
	var trace Trace
	err := s.db.QueryRowContext(ctx,
		"SELECT id, customer_name, user_instructions, subject_line, degraded, created_at FROM traces WHERE id = ?",
		traceID).Scan(&trace.ID, &trace.CustomerName, &trace.UserInstructions, &trace.SubjectLine, &trace.Degraded, &trace.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trace: %w", err)
	}
	return &trace, nil
}

// RecordFeedback audits one feedback submission. Best effort, like
// RecordGeneration.
func (s *TraceStore) RecordFeedback(ctx context.Context, rec core.FeedbackRecord, forwarded bool) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO feedback (id, trace_id, rating, comment, sales_rep_name, forwarded, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), rec.TraceID, rec.Rating, rec.Comment, rec.SalesRepName, forwarded, time.Now())
	if err != nil {
		log.Printf("Failed to record feedback for trace %s: %v", rec.TraceID, err)
	}
}

// GetFeedbackForTrace returns the audit rows for one trace, oldest first.
func (s *TraceStore) GetFeedbackForTrace(ctx context.Context, traceID string) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trace_id, rating, comment, sales_rep_name, forwarded, created_at FROM feedback WHERE trace_id = ? ORDER BY created_at ASC",
		traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var records []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.TraceID, &fb.Rating, &fb.Comment, &fb.SalesRepName, &fb.Forwarded, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		records = append(records, fb)
	}
	return records, rows.Err()
}
