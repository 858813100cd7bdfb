package main

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/LdDl/colortrack-go/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector("replay", nil)
	require.NoError(t, collector.Register(registry))
	collector.ObserveFrame(time.Millisecond, colortrack.Result{}, nil)

	addr, stop, err := serveMetrics("127.0.0.1:0", registry)
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "replay_frame_processing_seconds_count 1")

	require.NoError(t, stop())
	_, err = http.Get("http://" + addr.String() + "/metrics")
	assert.Error(t, err)
}

func TestServeMetricsBadAddress(t *testing.T) {
	_, _, err := serveMetrics("127.0.0.1:-1", prometheus.NewRegistry())
	assert.Error(t, err)
}
