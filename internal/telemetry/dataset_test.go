package telemetry

import (
	"errors"
	"testing"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDatasetMetrics("test", reg)

	m.Observe(address.Stats{Provinces: 5, Districts: 8, SubDistricts: 21, ZipCodes: 20}, nil)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.entries.WithLabelValues("province")))
	assert.Equal(t, 21.0, testutil.ToFloat64(m.entries.WithLabelValues("sub_district")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads))

	t.Run("failure keeps previous gauges", func(t *testing.T) {
		loadErr := &address.LoadError{Code: "unavailable", Source: "missing.json", Err: errors.New("no such file")}
		m.Observe(address.Stats{}, loadErr)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.loadFailures.WithLabelValues("unavailable")))
		assert.Equal(t, 5.0, testutil.ToFloat64(m.entries.WithLabelValues("province")))
	})
}

func TestCaptureError_DisabledIsNoop(t *testing.T) {
	sentryInstance = nil
	assert.False(t, IsEnabled())
	CaptureError(errors.New("ignored"))
}

func TestDatasetMetrics_ObserveRecordsBreadcrumb(t *testing.T) {
	var crumbs []*sentry.Breadcrumb
	require.NoError(t, sentry.Init(sentry.ClientOptions{
		BeforeBreadcrumb: func(b *sentry.Breadcrumb, _ *sentry.BreadcrumbHint) *sentry.Breadcrumb {
			crumbs = append(crumbs, b)
			return b
		},
	}))
	sentryInstance = &SentryClient{enabled: true}
	t.Cleanup(func() {
		sentryInstance = nil
		sentry.CurrentHub().BindClient(nil)
	})

	m := NewDatasetMetrics("crumbs", prometheus.NewRegistry())
	m.Observe(address.Stats{Provinces: 5, Districts: 8, SubDistricts: 21, ZipCodes: 20}, nil)

	require.Len(t, crumbs, 1)
	assert.Equal(t, "dataset", crumbs[0].Category)
	assert.Equal(t, 5, crumbs[0].Data["provinces"])
}
