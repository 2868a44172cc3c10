package instant

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/contracts"
)

func birth(date, clock, zone string) contracts.BirthInput {
	return contracts.BirthInput{Date: date, Time: clock, Timezone: zone, Latitude: 40.7, Longitude: -74}
}

func TestNormalize(t *testing.T) {
	n := New()

	tests := []struct {
		name  string
		input contracts.BirthInput
		want  time.Time
	}{
		{
			name:  "summer time in New York",
			input: birth("1990-07-15", "12:00", "America/New_York"),
			want:  time.Date(1990, 7, 15, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "winter time in New York",
			input: birth("1990-01-15", "12:00", "America/New_York"),
			want:  time.Date(1990, 1, 15, 17, 0, 0, 0, time.UTC),
		},
		{
			name:  "seconds and fraction",
			input: birth("2000-01-01", "12:00:30.5", "UTC"),
			want:  time.Date(2000, 1, 1, 12, 0, 30, 500_000_000, time.UTC),
		},
		{
			name:  "Seoul",
			input: birth("1995-03-01", "09:30", "Asia/Seoul"),
			want:  time.Date(1995, 3, 1, 0, 30, 0, 0, time.UTC),
		},
		{
			name:  "half-hour zone",
			input: birth("2010-06-01", "05:30", "Asia/Kolkata"),
			want:  time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time()), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Time().Location())
		})
	}
}

func TestNormalize_SameInstantAcrossZones(t *testing.T) {
	n := New()

	ny, err := n.Normalize(birth("1990-07-15", "12:00", "America/New_York"))
	require.NoError(t, err)
	seoul, err := n.Normalize(birth("1990-07-16", "01:00", "Asia/Seoul"))
	require.NoError(t, err)

	assert.True(t, ny.Equal(seoul))
	assert.Equal(t, ny.String(), seoul.String())
}

func TestNormalize_Invalid(t *testing.T) {
	n := New()

	tests := []struct {
		name  string
		input contracts.BirthInput
	}{
		{"spring-forward gap", birth("2021-03-14", "02:30", "America/New_York")},
		{"fall-back ambiguity", birth("2021-11-07", "01:30", "America/New_York")},
		{"unknown zone", birth("1990-07-15", "12:00", "Mars/Olympus_Mons")},
		{"Local is not IANA", birth("1990-07-15", "12:00", "Local")},
		{"empty zone", birth("1990-07-15", "12:00", "")},
		{"bad month", birth("1990-13-01", "12:00", "UTC")},
		{"bad day", birth("1990-02-30", "12:00", "UTC")},
		{"bad clock", birth("1990-07-15", "25:00", "UTC")},
		{"free text clock", birth("1990-07-15", "noon", "UTC")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrInvalidInstant), "got %v", err)
		})
	}
}

func TestNormalize_EdgesOfGap(t *testing.T) {
	n := New()

	before, err := n.Normalize(birth("2021-03-14", "01:59:59", "America/New_York"))
	require.NoError(t, err)
	after, err := n.Normalize(birth("2021-03-14", "03:00", "America/New_York"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, after.Time().Sub(before.Time()))
}

func TestNormalize_ZoneCache(t *testing.T) {
	n := New()

	_, err := n.Normalize(birth("1990-07-15", "12:00", "Europe/London"))
	require.NoError(t, err)
	_, err = n.Normalize(birth("1991-07-15", "12:00", "Europe/London"))
	require.NoError(t, err)

	n.mu.RLock()
	defer n.mu.RUnlock()
	assert.Len(t, n.zones, 1)
}
