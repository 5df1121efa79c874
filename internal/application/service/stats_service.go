package service

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
)

// errReplayStopped aborts the log iteration when the consumer stops pulling.
var errReplayStopped = errors.New("replay stopped")

// bucketWidth is the stats aggregation granularity.
const bucketWidth = 60 * time.Second

// StatsRow is one time bucket of the replayed item log. Brought is
// cumulative: every item that has ever been brought to the event counts,
// whatever happened to it afterwards.
type StatsRow struct {
	Time        time.Time `json:"time"`
	Advertised  int64     `json:"advertised"`
	Brought     int64     `json:"brought"`
	Unsold      int64     `json:"unsold"`
	Money       int64     `json:"money"`
	Compensated int64     `json:"compensated"`
}

// StatsService derives inventory and sales statistics by replaying the
// append-only item state log. Read-only.
type StatsService struct {
	logRepo repository.ItemStateLogRepository
}

// NewStatsService creates a new stats service
func NewStatsService(logRepo repository.ItemStateLogRepository) *StatsService {
	return &StatsService{logRepo: logRepo}
}

// statsBalance tracks the running count of items per state during a replay.
type statsBalance map[enum.ItemState]int64

func (b statsBalance) row(bucket time.Time) StatsRow {
	return StatsRow{
		Time:       bucket,
		Advertised: b[enum.ItemStateAdvertised],
		Brought: b[enum.ItemStateBrought] + b[enum.ItemStateStaged] +
			b[enum.ItemStateSold] + b[enum.ItemStateMissing] +
			b[enum.ItemStateReturned] + b[enum.ItemStateCompensated],
		Unsold:      b[enum.ItemStateBrought] + b[enum.ItemStateStaged],
		Money:       b[enum.ItemStateSold],
		Compensated: b[enum.ItemStateCompensated] + b[enum.ItemStateReturned],
	}
}

// replay streams bucketed snapshots of the log, one row per 60-second bucket
// that saw at least one transition. The first row is anchored one bucket
// before the first entry with a zero balance so consumers get a baseline.
// The sequence is lazy and forward-only; iterate the log again for a fresh
// replay.
func (s *StatsService) replay(ctx context.Context, filter repository.StateLogFilter) iter.Seq2[StatsRow, error] {
	return func(yield func(StatsRow, error) bool) {
		balance := statsBalance{}
		var bucket time.Time
		stopped := false

		err := s.logRepo.Each(ctx, filter, func(entry entity.ItemStateLog) error {
			t := entry.Time.Truncate(bucketWidth)
			if bucket.IsZero() {
				bucket = t.Add(-bucketWidth)
				if !yield(balance.row(bucket), nil) {
					stopped = true
					return errReplayStopped
				}
				bucket = t
			}
			// Flush completed buckets, repeating the balance through gaps.
			for entry.Time.Sub(bucket) > bucketWidth {
				if !yield(balance.row(bucket), nil) {
					stopped = true
					return errReplayStopped
				}
				bucket = bucket.Add(bucketWidth)
			}
			if entry.OldState != nil {
				balance[*entry.OldState]--
			}
			balance[entry.NewState]++
			return nil
		})
		if stopped {
			return
		}
		if err != nil {
			yield(StatsRow{}, err)
			return
		}
		if !bucket.IsZero() {
			yield(balance.row(bucket), nil)
		}
	}
}

// SalesData replays everything except registration entries, suitable for the
// sales dashboard.
func (s *StatsService) SalesData(ctx context.Context) iter.Seq2[StatsRow, error] {
	advertised := enum.ItemStateAdvertised
	return s.replay(ctx, repository.StateLogFilter{ExcludeNewState: &advertised})
}

// RegistrationData replays only registration entries, charting how the
// advertised inventory grew.
func (s *StatsService) RegistrationData(ctx context.Context) iter.Seq2[StatsRow, error] {
	advertised := enum.ItemStateAdvertised
	return s.replay(ctx, repository.StateLogFilter{OnlyNewState: &advertised})
}
