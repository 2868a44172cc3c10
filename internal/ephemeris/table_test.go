package ephemeris

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/contracts"
)

// memStore is an in-memory Store for tests
type memStore struct {
	mu      sync.Mutex
	samples map[contracts.Body][]Sample
	saves   int
	failOn  int // SaveBatch call that fails (1-based), 0 = never
}

func newMemStore() *memStore {
	return &memStore{samples: make(map[contracts.Body][]Sample)}
}

func (m *memStore) Bracket(_ context.Context, body contracts.Body, t time.Time) (Sample, Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.samples[body]
	idx := sort.Search(len(list), func(i int) bool { return list[i].At.After(t) })
	if idx == 0 {
		return Sample{}, Sample{}, ErrNoSample
	}
	before := list[idx-1]
	if before.At.Equal(t) {
		return before, before, nil
	}
	if idx == len(list) {
		return Sample{}, Sample{}, ErrNoSample
	}
	return before, list[idx], nil
}

func (m *memStore) SaveBatch(_ context.Context, samples []Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failOn > 0 && m.saves == m.failOn {
		return errors.New("disk full")
	}
	for _, s := range samples {
		list := m.samples[s.Body]
		replaced := false
		for i := range list {
			if list[i].At.Equal(s.At) {
				list[i] = s
				replaced = true
			}
		}
		if !replaced {
			list = append(list, s)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].At.Before(list[j].At) })
		m.samples[s.Body] = list
	}
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.samples {
		n += len(l)
	}
	return n
}

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func seedMem(t *testing.T, body contracts.Body, lons ...float64) *memStore {
	t.Helper()
	store := newMemStore()
	var samples []Sample
	for i, lon := range lons {
		samples = append(samples, Sample{Body: body, At: day0.AddDate(0, 0, i), Longitude: lon})
	}
	require.NoError(t, store.SaveBatch(context.Background(), samples))
	return store
}

func TestTable_Interpolates(t *testing.T) {
	table := NewTable(seedMem(t, contracts.BodyMoon, 100, 112, 124), 0, nil)
	assert.Equal(t, TableName, table.Name())

	lon, err := table.LongitudeOf(context.Background(), contracts.NewInstant(day0.Add(6*time.Hour)), contracts.BodyMoon)
	require.NoError(t, err)
	assert.InDelta(t, 103, lon, 1e-9)

	lon, err = table.LongitudeOf(context.Background(), contracts.NewInstant(day0.AddDate(0, 0, 1)), contracts.BodyMoon)
	require.NoError(t, err)
	assert.Equal(t, 112.0, lon)
}

func TestTable_WrapsThroughZero(t *testing.T) {
	table := NewTable(seedMem(t, contracts.BodySun, 359.5, 0.5), 0, nil)

	lon, err := table.LongitudeOf(context.Background(), contracts.NewInstant(day0.Add(12*time.Hour)), contracts.BodySun)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lon)

	lon, err = table.LongitudeOf(context.Background(), contracts.NewInstant(day0.Add(18*time.Hour)), contracts.BodySun)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, lon, 1e-9)
}

func TestTable_RetrogradeNode(t *testing.T) {
	table := NewTable(seedMem(t, contracts.BodyMeanNode, 0.02, 359.97), 0, nil)

	lon, err := table.LongitudeOf(context.Background(), contracts.NewInstant(day0.Add(12*time.Hour)), contracts.BodyMeanNode)
	require.NoError(t, err)
	assert.InDelta(t, 359.995, lon, 1e-9)
}

func TestTable_Failures(t *testing.T) {
	store := seedMem(t, contracts.BodySun, 340, 341)
	table := NewTable(store, 0, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		instant time.Time
		body    contracts.Body
	}{
		{"before first sample", day0.Add(-time.Hour), contracts.BodySun},
		{"after last sample", day0.AddDate(0, 0, 1).Add(time.Hour), contracts.BodySun},
		{"body not stored", day0.Add(time.Hour), contracts.BodyMars},
		{"derived body", day0.Add(time.Hour), contracts.BodyKetu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.LongitudeOf(ctx, contracts.NewInstant(tt.instant), tt.body)
			assert.True(t, errors.Is(err, contracts.ErrEphemerisUnavailable))
		})
	}
}

func TestTable_GapTooWide(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.SaveBatch(context.Background(), []Sample{
		{Body: contracts.BodySun, At: day0, Longitude: 10},
		{Body: contracts.BodySun, At: day0.AddDate(0, 0, 5), Longitude: 15},
	}))

	_, err := NewTable(store, 0, nil).LongitudeOf(context.Background(), contracts.NewInstant(day0.AddDate(0, 0, 2)), contracts.BodySun)
	assert.True(t, errors.Is(err, contracts.ErrEphemerisUnavailable))
}

func TestTable_CloseRunsCloser(t *testing.T) {
	closed := false
	table := NewTable(newMemStore(), 0, func() { closed = true })
	require.NoError(t, table.Close())
	assert.True(t, closed)
}
