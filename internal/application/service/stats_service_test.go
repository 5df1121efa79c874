package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logEntry(f *fixture, t time.Time, from *enum.ItemState, to enum.ItemState) {
	f.logs.entries = append(f.logs.entries, entity.ItemStateLog{
		ID:       uuid.New(),
		ItemID:   uuid.New(),
		OldState: from,
		NewState: to,
		Time:     t,
	})
}

func collect(t *testing.T, svc *StatsService, filter repository.StateLogFilter) []StatsRow {
	t.Helper()
	var rows []StatsRow
	for row, err := range svc.replay(context.Background(), filter) {
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestReplayEmptyLog(t *testing.T) {
	f := newFixture()
	svc := NewStatsService(f.logs)

	rows := collect(t, svc, repository.StateLogFilter{})
	assert.Empty(t, rows)
}

func TestReplayBuckets(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 8, 28, 10, 0, 30, 0, time.UTC)
	ad := enum.ItemStateAdvertised
	br := enum.ItemStateBrought

	logEntry(f, base, nil, enum.ItemStateAdvertised)
	logEntry(f, base.Add(15*time.Second), &ad, enum.ItemStateBrought)
	logEntry(f, base.Add(100*time.Second), &br, enum.ItemStateSold)

	svc := NewStatsService(f.logs)
	rows := collect(t, svc, repository.StateLogFilter{})

	require.Len(t, rows, 4)

	// Zero baseline one bucket before the first entry.
	assert.Equal(t, time.Date(2026, 8, 28, 9, 59, 0, 0, time.UTC), rows[0].Time)
	assert.Equal(t, StatsRow{Time: rows[0].Time}, rows[0])

	// First real bucket holds the first two transitions.
	assert.Equal(t, time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), rows[1].Time)
	assert.Equal(t, int64(0), rows[1].Advertised)
	assert.Equal(t, int64(1), rows[1].Brought)
	assert.Equal(t, int64(1), rows[1].Unsold)
	assert.Equal(t, int64(0), rows[1].Money)

	// The gap repeats the balance.
	assert.Equal(t, time.Date(2026, 8, 28, 10, 1, 0, 0, time.UTC), rows[2].Time)
	assert.Equal(t, rows[1].Brought, rows[2].Brought)

	// Final bucket reflects the sale.
	assert.Equal(t, time.Date(2026, 8, 28, 10, 2, 0, 0, time.UTC), rows[3].Time)
	assert.Equal(t, int64(1), rows[3].Money)
	assert.Equal(t, int64(0), rows[3].Unsold)
	assert.Equal(t, int64(1), rows[3].Brought)
}

func TestReplayGroupings(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	so := enum.ItemStateSold
	br := enum.ItemStateBrought

	logEntry(f, base, nil, enum.ItemStateAdvertised)
	logEntry(f, base.Add(time.Second), nil, enum.ItemStateBrought)
	logEntry(f, base.Add(2*time.Second), nil, enum.ItemStateSold)
	logEntry(f, base.Add(3*time.Second), &so, enum.ItemStateCompensated)
	logEntry(f, base.Add(4*time.Second), &br, enum.ItemStateReturned)

	svc := NewStatsService(f.logs)
	rows := collect(t, svc, repository.StateLogFilter{})
	last := rows[len(rows)-1]

	assert.Equal(t, int64(1), last.Advertised)
	// Everything once brought stays counted: returned and compensated included.
	assert.Equal(t, int64(2), last.Brought)
	assert.Equal(t, int64(0), last.Unsold)
	assert.Equal(t, int64(0), last.Money)
	assert.Equal(t, int64(2), last.Compensated)
}

func TestRegistrationDataOnlyAdvertised(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	ad := enum.ItemStateAdvertised

	logEntry(f, base, nil, enum.ItemStateAdvertised)
	logEntry(f, base.Add(time.Second), &ad, enum.ItemStateBrought)

	svc := NewStatsService(f.logs)

	var rows []StatsRow
	for row, err := range svc.RegistrationData(context.Background()) {
		require.NoError(t, err)
		rows = append(rows, row)
	}

	last := rows[len(rows)-1]
	assert.Equal(t, int64(1), last.Advertised)
	assert.Equal(t, int64(0), last.Brought)
}

func TestReplayStopsWhenConsumerBreaks(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		logEntry(f, base.Add(time.Duration(i)*2*time.Minute), nil, enum.ItemStateAdvertised)
	}

	svc := NewStatsService(f.logs)
	n := 0
	for _, err := range svc.replay(context.Background(), repository.StateLogFilter{}) {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
