package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsVectorsCanBeScraped(t *testing.T) {
	reg := prometheus.NewRegistry()

	// vectors will only be available in /metrics after a label has been set/incremented
	reg.MustRegister(
		ResolvedTargets,
		ScriptExecutions,
		VFSOperations,
	)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	ResolvedTargets.WithLabelValues("script").Inc()
	ScriptExecutions.WithLabelValues("success").Inc()
	VFSOperations.WithLabelValues("local", "Open", "true").Inc()

	c, err := ScriptExecutions.GetMetricWithLabelValues("success")
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(c))

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, metricFamilies, 3)

	res, err := http.Get(testServer.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	require.Contains(t, string(body), `pages_cgi_resolved_targets_total{kind="script"}`)
	require.Contains(t, string(body), `pages_cgi_script_executions_total{outcome="success"}`)
	require.Contains(t, string(body), `pages_cgi_vfs_operations_total{operation="Open",success="true",vfs_name="local"}`)
}

func TestMustRegister(t *testing.T) {
	require.NotPanics(t, MustRegister)

	// a second registration of the same collectors is a programming error
	require.Panics(t, MustRegister)
}
