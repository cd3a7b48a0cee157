package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch/internal/types"
)

// fakeDBTX satisfies DBTX with injectable behavior per method.
type fakeDBTX struct {
	execSQL  string
	execArgs []any
	execErr  error

	queryRows pgx.Rows
	queryErr  error
}

func (f *fakeDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = arguments
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryRows, nil
}

func (f *fakeDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// fakeRows serves canned (district, state, ts, payload) tuples as pgx.Rows.
type fakeRows struct {
	rows    [][]any
	idx     int
	scanErr error
	rowsErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx < len(r.rows) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	*(dest[0].(*string)) = row[0].(string)
	*(dest[1].(*string)) = row[1].(string)
	*(dest[2].(*time.Time)) = row[2].(time.Time)
	*(dest[3].(*[]byte)) = row[3].([]byte)
	return nil
}

func sampleAssessment() *types.FloodAssessment {
	return &types.FloodAssessment{
		ID: "d3adb33f",
		Risk: &types.FloodRiskResult{
			Score:      0.42,
			Band:       types.BandModerate,
			Confidence: 99.9,
			Scenario: &types.Scenario{
				District:  "Cuttack",
				State:     "Odisha",
				Timestamp: time.Date(2025, 7, 5, 8, 0, 0, 0, time.UTC),
			},
		},
		Actions: map[string]string{"SDMA": "High: Activate district EOCs and ensure mock evacuation drill readiness"},
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Run("creates table", func(t *testing.T) {
		fake := &fakeDBTX{}
		repo := NewAssessmentRepository(fake)

		require.NoError(t, repo.EnsureSchema(context.Background()))
		assert.Contains(t, fake.execSQL, "CREATE TABLE IF NOT EXISTS assessments")
	})

	t.Run("wraps exec failure", func(t *testing.T) {
		fake := &fakeDBTX{execErr: errors.New("permission denied")}
		repo := NewAssessmentRepository(fake)

		err := repo.EnsureSchema(context.Background())
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
	})
}

func TestSave(t *testing.T) {
	t.Run("inserts indexed columns and payload", func(t *testing.T) {
		fake := &fakeDBTX{}
		repo := NewAssessmentRepository(fake)

		require.NoError(t, repo.Save(context.Background(), sampleAssessment()))

		assert.Contains(t, fake.execSQL, "INSERT INTO assessments")
		require.Len(t, fake.execArgs, 5)
		assert.Equal(t, "d3adb33f", fake.execArgs[0])
		assert.Equal(t, "Cuttack", fake.execArgs[1])
		assert.Equal(t, "Odisha", fake.execArgs[2])

		var stored types.AssessmentPayload
		require.NoError(t, json.Unmarshal(fake.execArgs[4].([]byte), &stored))
		assert.Equal(t, types.BandModerate, stored.Risk.Band)
		assert.Equal(t, 0.42, stored.Risk.Score)
	})

	t.Run("wraps exec failure", func(t *testing.T) {
		fake := &fakeDBTX{execErr: errors.New("connection reset")}
		repo := NewAssessmentRepository(fake)

		err := repo.Save(context.Background(), sampleAssessment())
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
	})
}

func historyRow(t *testing.T, district string, score float64) []any {
	t.Helper()
	payload, err := json.Marshal(types.AssessmentPayload{
		Risk: types.RiskPayload{
			Score:      score,
			Band:       types.BandForScore(score),
			Confidence: 99.9,
			District:   district,
			State:      "Odisha",
		},
	})
	require.NoError(t, err)
	return []any{district, "Odisha", time.Date(2025, 7, 5, 8, 0, 0, 0, time.UTC), payload}
}

func TestListRecent(t *testing.T) {
	t.Run("maps rows to history entries", func(t *testing.T) {
		fake := &fakeDBTX{queryRows: &fakeRows{rows: [][]any{
			historyRow(t, "newest", 0.8),
			historyRow(t, "older", 0.3),
		}}}
		repo := NewAssessmentRepository(fake)

		entries, err := repo.ListRecent(context.Background(), 10)
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, "newest", entries[0].District)
		assert.Equal(t, types.BandSevere, entries[0].Band)
		assert.Equal(t, 0.8, entries[0].Score)
		assert.Equal(t, "older", entries[1].District)
		assert.Equal(t, types.BandModerate, entries[1].Band)
	})

	t.Run("wraps query failure", func(t *testing.T) {
		fake := &fakeDBTX{queryErr: errors.New("socket closed")}
		repo := NewAssessmentRepository(fake)

		_, err := repo.ListRecent(context.Background(), 10)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
	})

	t.Run("wraps scan failure", func(t *testing.T) {
		fake := &fakeDBTX{queryRows: &fakeRows{
			rows:    [][]any{historyRow(t, "bad", 0.5)},
			scanErr: fmt.Errorf("type mismatch"),
		}}
		repo := NewAssessmentRepository(fake)

		_, err := repo.ListRecent(context.Background(), 10)
		require.Error(t, err)
	})

	t.Run("wraps malformed payload", func(t *testing.T) {
		fake := &fakeDBTX{queryRows: &fakeRows{rows: [][]any{
			{"x", "y", time.Now(), []byte(`{"risk":`)},
		}}}
		repo := NewAssessmentRepository(fake)

		_, err := repo.ListRecent(context.Background(), 10)
		require.Error(t, err)
	})
}
