package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsRegistryExposesCollectors(t *testing.T) {
	m := NewMetrics("test_metrics_registry")
	m.eventsBroadcast.Inc()
	m.subscribersJoined.Inc()
	m.subscribersLive.Set(3)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["test_metrics_registry_events_broadcast_total"])
	require.True(t, names["test_metrics_registry_subscribers_live"])
}
