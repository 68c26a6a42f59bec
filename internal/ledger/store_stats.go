package ledger

import (
	"context"
	"fmt"
)

// LabelCounts aggregates decisions per label, ordered by label name.
func (s *Store) LabelCounts(ctx context.Context) ([]LabelCount, error) {
	rows, err := s.db.QueryContext(queryContext(ctx),
		`SELECT label, COUNT(1), SUM(CASE WHEN label = suggested_label THEN 1 ELSE 0 END)
         FROM decisions GROUP BY label ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("query label counts: %w", err)
	}
	defer rows.Close()

	var out []LabelCount
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Label, &c.Total, &c.Agreed); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// OutcomeCounts returns how many route records exist per outcome.
func (s *Store) OutcomeCounts(ctx context.Context) (map[Outcome]int, error) {
	rows, err := s.db.QueryContext(queryContext(ctx),
		`SELECT outcome, COUNT(1) FROM routes GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Outcome]int, len(Outcomes()))
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[Outcome(outcome)] = count
	}
	return counts, rows.Err()
}
