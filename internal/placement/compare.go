package placement

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/natal/internal/contracts"
)

// Comparison pairs a natal summary with one for a second instant at the
// same place
type Comparison struct {
	Natal   *contracts.PlacementSummary `json:"natal"`
	Current *contracts.PlacementSummary `json:"current"`
}

// Compare computes the natal summary and a second summary for current,
// through the identical pipeline and at the birth coordinates
func (e *Engine) Compare(ctx context.Context, in contracts.BirthInput, current time.Time) (*Comparison, error) {
	if current.IsZero() {
		return nil, fmt.Errorf("%w: current instant is required", contracts.ErrInvalidInstant)
	}

	natal, err := e.Compute(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("natal: %w", err)
	}

	inst := contracts.NewInstant(current)
	utc := inst.Time()
	currentInput := contracts.BirthInput{
		Date:      utc.Format("2006-01-02"),
		Time:      utc.Format("15:04:05.999999999"),
		Timezone:  "UTC",
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}

	cur, err := e.computeAt(ctx, currentInput, inst, time.Now())
	if err != nil {
		return nil, fmt.Errorf("current: %w", err)
	}

	return &Comparison{Natal: natal, Current: cur}, nil
}
