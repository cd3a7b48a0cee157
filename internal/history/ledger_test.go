package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch/internal/types"
)

func resultFor(district string, score float64) *types.FloodRiskResult {
	return &types.FloodRiskResult{
		Score:      score,
		Band:       types.BandForScore(score),
		Confidence: 99.9,
		Scenario: &types.Scenario{
			District:  district,
			State:     "Bihar",
			Timestamp: time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestLedgerNewestFirst(t *testing.T) {
	l := NewLedger(5)
	l.Add(resultFor("first", 0.2))
	l.Add(resultFor("second", 0.4))
	l.Add(resultFor("third", 0.6))

	entries := l.List(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].District)
	assert.Equal(t, "second", entries[1].District)
	assert.Equal(t, "first", entries[2].District)
}

func TestLedgerEvictsOldestAtCapacity(t *testing.T) {
	l := NewLedger(3)
	for i := 0; i < 5; i++ {
		l.Add(resultFor(fmt.Sprintf("district-%d", i), 0.3))
	}

	assert.Equal(t, 3, l.Len())
	entries := l.List(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "district-4", entries[0].District)
	assert.Equal(t, "district-2", entries[2].District)
}

func TestLedgerListLimit(t *testing.T) {
	l := NewLedger(10)
	for i := 0; i < 4; i++ {
		l.Add(resultFor(fmt.Sprintf("district-%d", i), 0.3))
	}

	assert.Len(t, l.List(2), 2)
	assert.Len(t, l.List(100), 4)
	assert.Len(t, l.List(-1), 4)
}

func TestLedgerListReturnsCopy(t *testing.T) {
	l := NewLedger(5)
	l.Add(resultFor("original", 0.3))

	snapshot := l.List(0)
	snapshot[0].District = "mutated"

	assert.Equal(t, "original", l.List(0)[0].District)
}

func TestLedgerDefaultCapacity(t *testing.T) {
	l := NewLedger(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		l.Add(resultFor(fmt.Sprintf("district-%d", i), 0.3))
	}
	assert.Equal(t, DefaultCapacity, l.Len())
}
