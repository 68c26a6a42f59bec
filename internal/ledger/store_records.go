package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RecordDecision appends a filed frame to the ledger.
func (s *Store) RecordDecision(ctx context.Context, d Decision) error {
	if strings.TrimSpace(d.Route) == "" || strings.TrimSpace(d.Frame) == "" {
		return errors.New("record decision: route and frame are required")
	}
	if strings.TrimSpace(d.Label) == "" {
		return errors.New("record decision: label is required")
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	err := s.exec(
		ctx,
		`INSERT INTO decisions (
            session_id, route, frame, frame_index, model_class,
            suggested_label, confidence, label, destination, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.SessionID,
		d.Route,
		d.Frame,
		d.FrameIndex,
		d.ModelClass,
		d.SuggestedLabel,
		d.Confidence,
		d.Label,
		d.Destination,
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// RecordRoute appends a route outcome to the ledger.
func (s *Store) RecordRoute(ctx context.Context, r RouteRecord) error {
	if strings.TrimSpace(r.Route) == "" {
		return errors.New("record route: route is required")
	}
	if r.Outcome == "" {
		return errors.New("record route: outcome is required")
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	err := s.exec(
		ctx,
		`INSERT INTO routes (
            session_id, route, outcome, frame_count, shown_count, filed_count, detail, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Route,
		string(r.Outcome),
		r.FrameCount,
		r.ShownCount,
		r.FiledCount,
		nullableString(r.Detail),
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// DecisionsForRoute returns the decisions recorded for route in insertion order.
func (s *Store) DecisionsForRoute(ctx context.Context, route string) ([]Decision, error) {
	rows, err := s.db.QueryContext(queryContext(ctx),
		`SELECT id, session_id, route, frame, frame_index, model_class, suggested_label,
                confidence, label, destination, created_at
         FROM decisions WHERE route = ? ORDER BY id`, route)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var (
			d          Decision
			createdRaw string
		)
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Route, &d.Frame, &d.FrameIndex, &d.ModelClass,
			&d.SuggestedLabel, &d.Confidence, &d.Label, &d.Destination, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.CreatedAt = parseTime(createdRaw)
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentRoutes returns up to limit route records, newest first.
func (s *Store) RecentRoutes(ctx context.Context, limit int) ([]RouteRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(queryContext(ctx),
		`SELECT id, session_id, route, outcome, frame_count, shown_count, filed_count, detail, created_at
         FROM routes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var out []RouteRecord
	for rows.Next() {
		var (
			r          RouteRecord
			outcome    string
			detail     sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Route, &outcome, &r.FrameCount, &r.ShownCount,
			&r.FiledCount, &detail, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		r.Outcome = Outcome(outcome)
		r.Detail = detail.String
		r.CreatedAt = parseTime(createdRaw)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
