package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/wonny/natal/internal/contracts"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLookup("analytic", contracts.BodySun, time.Millisecond, nil)
	m.ObserveLookup("remote", contracts.BodyMoon, time.Millisecond, errors.New("down"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LookupFailures.WithLabelValues("analytic", "sun")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupFailures.WithLabelValues("remote", "moon")))

	m.ObserveCompute("partial", "degenerate_house_geometry", 3*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Computations.WithLabelValues("partial", "degenerate_house_geometry")))

	m.ObserveSelfTest(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelfTestStatus))
	m.ObserveSelfTest(errors.New("sun not in Cancer"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SelfTestStatus))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelfTestRuns.WithLabelValues("fail")))

	m.ObserveCache("hit")
	m.ObserveCache("hit")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SummaryCache.WithLabelValues("hit")))

	m.ObserveHTTP("/api/placements", "POST", 422, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/placements", "POST", "4xx")))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "3xx", statusClass(304))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
