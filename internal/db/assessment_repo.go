package db

import (
	"context"
	"encoding/json"
	"time"

	"floodwatch/internal/types"
)

// AssessmentRepository provides append-only access to the assessments table.
// Rows are keyed by insertion order (seq) so "most recent N" queries do not
// depend on client-supplied timestamps.
type AssessmentRepository struct {
	db DBTX
}

// NewAssessmentRepository creates a repository backed by the given database
// connection (pool or transaction).
func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// EnsureSchema creates the assessments table if it does not exist. Intended
// for startup in dev environments; production deployments run migrations out
// of band.
func (r *AssessmentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS assessments (
			seq      BIGSERIAL PRIMARY KEY,
			id       TEXT NOT NULL,
			district TEXT NOT NULL,
			state    TEXT NOT NULL,
			ts       TIMESTAMPTZ NOT NULL,
			payload  JSONB NOT NULL
		)`)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to ensure assessments schema", err)
	}
	return nil
}

// Save appends the full assessment payload plus the indexed district, state,
// and timestamp columns.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *types.FloodAssessment) error {
	payload, err := json.Marshal(assessment.Payload())
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to encode assessment payload", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO assessments (id, district, state, ts, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		assessment.ID,
		assessment.Risk.Scenario.District,
		assessment.Risk.Scenario.State,
		assessment.Risk.Scenario.Timestamp,
		payload,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to save assessment", err)
	}
	return nil
}

// ListRecent returns history entries for the most recent limit assessments,
// newest first.
func (r *AssessmentRepository) ListRecent(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT district, state, ts, payload
		 FROM assessments
		 ORDER BY seq DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list assessments", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			district, state string
			ts              time.Time
			payload         []byte
		)
		if err := rows.Scan(&district, &state, &ts, &payload); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan assessment row", err)
		}

		var stored types.AssessmentPayload
		if err := json.Unmarshal(payload, &stored); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to decode assessment payload", err)
		}

		entries = append(entries, types.HistoryEntry{
			Timestamp:  ts,
			District:   district,
			State:      state,
			Score:      stored.Risk.Score,
			Band:       stored.Risk.Band,
			Confidence: stored.Risk.Confidence,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate assessment rows", err)
	}
	return entries, nil
}
