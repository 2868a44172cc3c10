package ephemeris

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/pkg/logger"
)

// DefaultSeedBatch is the number of samples written per batch
const DefaultSeedBatch = 500

// Seeder precomputes daily longitudes from a source into a Store
type Seeder struct {
	source    contracts.EphemerisProvider
	store     Store
	log       *logger.Logger
	batchSize int
}

// NewSeeder creates a seeder
func NewSeeder(source contracts.EphemerisProvider, store Store, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{
		source:    source,
		store:     store,
		log:       log.WithComponent("seeder"),
		batchSize: DefaultSeedBatch,
	}
}

// SeedResult summarizes one seeding run
type SeedResult struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Days    int       `json:"days"`
	Samples int       `json:"samples"`
}

// Seed writes one sample per body for every UTC midnight in [from, to]
func (s *Seeder) Seed(ctx context.Context, from, to time.Time) (*SeedResult, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return nil, fmt.Errorf("seed range: to %s is before from %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	result := &SeedResult{From: from, To: to}
	batch := make([]Sample, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.store.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("save batch: %w", err)
		}
		result.Samples += len(batch)
		batch = batch[:0]
		return nil
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		instant := contracts.NewInstant(day)
		for _, body := range contracts.EphemerisBodies() {
			lon, err := s.source.LongitudeOf(ctx, instant, body)
			if err != nil {
				return result, fmt.Errorf("seed %s at %s: %w", body, day.Format(time.DateOnly), err)
			}
			batch = append(batch, Sample{Body: body, At: day, Longitude: lon})
			if len(batch) >= s.batchSize {
				if err := flush(); err != nil {
					return result, err
				}
			}
		}
		result.Days++
	}

	if err := flush(); err != nil {
		return result, err
	}

	s.log.WithFields(map[string]interface{}{
		"from":    from.Format(time.DateOnly),
		"to":      to.Format(time.DateOnly),
		"days":    result.Days,
		"samples": result.Samples,
		"source":  s.source.Name(),
	}).Info("Ephemeris table seeded")

	return result, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
