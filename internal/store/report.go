package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/outlint/internal/check"
	"github.com/roach88/outlint/internal/value"
)

// ErrNotFound is returned by GetReport for an unknown ID.
var ErrNotFound = errors.New("report not found")

// Report is one recorded evaluation.
type Report struct {
	ID         string          `json:"id"`
	Seq        int64           `json:"seq"`
	Method     string          `json:"method"`
	Kind       string          `json:"kind"`
	Passed     bool            `json:"passed"`
	Result     string          `json:"result"`
	RecordedAt time.Time       `json:"recorded_at"`
	Outcomes   []check.Outcome `json:"outcomes"`
}

// FromCheck converts an evaluation into a Report ready for RecordReport.
// The checked result is kept only as a summary.
func FromCheck(r *check.Report, result any) Report {
	return Report{
		Method:   r.Method,
		Kind:     r.Kind,
		Passed:   r.Passed(),
		Result:   value.Summarize(result),
		Outcomes: r.Outcomes,
	}
}

// Messages returns every violation message of the report in rule order.
func (r Report) Messages() []string {
	var msgs []string
	for _, o := range r.Outcomes {
		msgs = append(msgs, o.Messages...)
	}
	return msgs
}

// Filter narrows ListReports.
type Filter struct {
	// Method keeps only reports for this exact method path.
	Method string

	// FailedOnly keeps only reports that did not pass.
	FailedOnly bool

	// Limit caps the number of reports. Zero means no limit.
	Limit int
}

// RecordReport inserts a report and its outcomes in one transaction.
// An empty ID is filled from the store's generator; Seq and RecordedAt are
// always assigned here. Returns the report ID.
func (s *Store) RecordReport(ctx context.Context, r Report) (string, error) {
	if r.ID == "" {
		r.ID = s.ids.Generate()
	}
	recordedAt := s.clock.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record report: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM reports`).Scan(&seq); err != nil {
		return "", fmt.Errorf("record report: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, seq, method, kind, passed, result, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, seq, r.Method, r.Kind, r.Passed, r.Result, recordedAt)
	if err != nil {
		return "", fmt.Errorf("record report: %w", err)
	}

	for i, o := range r.Outcomes {
		msgs, err := marshalMessages(o.Messages)
		if err != nil {
			return "", fmt.Errorf("record report: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outcomes (report_id, position, rule, status, messages)
			VALUES (?, ?, ?, ?, ?)
		`, r.ID, i, o.Rule, string(o.Status), msgs)
		if err != nil {
			return "", fmt.Errorf("record report: outcome %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record report: commit: %w", err)
	}
	return r.ID, nil
}

// GetReport retrieves a single report with its outcomes.
// Returns ErrNotFound if no report has that ID.
func (s *Store) GetReport(ctx context.Context, id string) (Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, method, kind, passed, result, recorded_at
		FROM reports
		WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, fmt.Errorf("get report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Report{}, fmt.Errorf("get report %s: %w", id, err)
	}

	if r.Outcomes, err = s.readOutcomes(ctx, r.ID); err != nil {
		return Report{}, err
	}
	return r, nil
}

// ListReports returns reports newest first: ORDER BY seq DESC, id ASC.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListReports(ctx context.Context, f Filter) ([]Report, error) {
	var (
		where []string
		args  []any
	)
	if f.Method != "" {
		where = append(where, "method = ?")
		args = append(args, f.Method)
	}
	if f.FailedOnly {
		where = append(where, "passed = 0")
	}

	query := `SELECT id, seq, method, kind, passed, result, recorded_at FROM reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC, id COLLATE BINARY ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	// Outcomes are read after the cursor is closed; the pool holds one connection.
	rows.Close()
	for i := range reports {
		if reports[i].Outcomes, err = s.readOutcomes(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// DeleteReport removes a report and, through the foreign key, its outcomes.
// Deleting an unknown ID is not an error.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return nil
}

func (s *Store) readOutcomes(ctx context.Context, reportID string) ([]check.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, status, messages
		FROM outcomes
		WHERE report_id = ?
		ORDER BY position ASC
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []check.Outcome{}
	for rows.Next() {
		var (
			o      check.Outcome
			status string
			msgs   string
		)
		if err := rows.Scan(&o.Rule, &status, &msgs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = check.Status(status)
		if o.Messages, err = unmarshalMessages(msgs); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var (
		r          Report
		recordedAt string
	)
	if err := row.Scan(&r.ID, &r.Seq, &r.Method, &r.Kind, &r.Passed, &r.Result, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, err
		}
		return Report{}, fmt.Errorf("scan report: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Report{}, fmt.Errorf("scan report %s: recorded_at: %w", r.ID, err)
	}
	r.RecordedAt = t
	return r, nil
}

// marshalMessages stores messages as a JSON array without HTML escaping so
// the text reads back byte for byte.
func marshalMessages(msgs []string) (string, error) {
	if msgs == nil {
		msgs = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msgs); err != nil {
		return "", fmt.Errorf("marshal messages: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalMessages(data string) ([]string, error) {
	var msgs []string
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return nil, fmt.Errorf("unmarshal messages: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs, nil
}
