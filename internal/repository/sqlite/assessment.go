package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/uvg/wellness-backend/internal/model"
	"github.com/uvg/wellness-backend/internal/repository"
)

// AssessmentStore implements repository.AssessmentRepository on the
// shared pool.
type AssessmentStore struct {
	conn *sql.DB
}

// compile-time check that *AssessmentStore implements repository.AssessmentRepository
var _ repository.AssessmentRepository = (*AssessmentStore)(nil)

// Create inserts a new assessment result, assigning ID and CreatedAt.
// Results are write-once; there is no Update or Delete.
func (s *AssessmentStore) Create(ctx context.Context, result *model.AssessmentResult) error {
	result.ID = xid.New().String()
	result.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO assessment_results (id, type, total, category, notes, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Type,
		result.Total,
		result.Category,
		result.Notes,
		result.UserID,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting assessment result: %w", err)
	}

	return nil
}

// List returns every stored result, newest first. xid values are
// time-ordered, so id breaks ties between rows created in the same instant.
func (s *AssessmentStore) List(ctx context.Context) ([]model.AssessmentResult, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, type, total, category, notes, user_id, created_at
		 FROM assessment_results
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing assessment results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListByUser returns one user's results, newest first.
func (s *AssessmentStore) ListByUser(ctx context.Context, userID string) ([]model.AssessmentResult, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, type, total, category, notes, user_id, created_at
		 FROM assessment_results
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing assessment results for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// scanResults drains a result-set query into a slice. The slice is
// non-nil even when empty so handlers serialize it as [] rather than null.
func scanResults(rows *sql.Rows) ([]model.AssessmentResult, error) {
	results := []model.AssessmentResult{}
	for rows.Next() {
		var r model.AssessmentResult
		if err := rows.Scan(
			&r.ID,
			&r.Type,
			&r.Total,
			&r.Category,
			&r.Notes,
			&r.UserID,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning assessment result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating assessment results: %w", err)
	}
	return results, nil
}
