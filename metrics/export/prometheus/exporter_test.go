package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goAuthState "github.com/MrEthical07/goAuthState"
	"github.com/MrEthical07/goAuthState/metrics/export/internaldefs"
)

type fakeSource struct {
	snapshot goAuthState.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goAuthState.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                         { return f.dropped }

func sampleSource() fakeSource {
	return fakeSource{
		snapshot: goAuthState.MetricsSnapshot{
			Counters: map[goAuthState.MetricID]uint64{
				goAuthState.MetricLoginSuccess: 7,
				goAuthState.MetricAccessDenied: 2,
			},
			Histograms: map[goAuthState.MetricID][]uint64{
				goAuthState.MetricCredentialExchangeLatency: {1, 2, 0, 0, 0, 0, 0, 1},
			},
		},
		dropped: 3,
	}
}

func TestCollectorCounters(t *testing.T) {
	c := NewCollectorFromSource(sampleSource())

	expected := `
# HELP authstate_login_success_total Successful session logins.
# TYPE authstate_login_success_total counter
authstate_login_success_total 7
# HELP authstate_audit_dropped_total Audit events dropped due to dispatcher backpressure.
# TYPE authstate_audit_dropped_total counter
authstate_audit_dropped_total 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"authstate_login_success_total", internaldefs.AuditDroppedName))
}

func TestCollectorHistogramIsCumulative(t *testing.T) {
	c := NewCollectorFromSource(sampleSource())

	expected := `
# HELP authstate_credential_exchange_latency_seconds Credential exchange latency.
# TYPE authstate_credential_exchange_latency_seconds histogram
authstate_credential_exchange_latency_seconds_bucket{le="0.01"} 1
authstate_credential_exchange_latency_seconds_bucket{le="0.025"} 3
authstate_credential_exchange_latency_seconds_bucket{le="0.05"} 3
authstate_credential_exchange_latency_seconds_bucket{le="0.1"} 3
authstate_credential_exchange_latency_seconds_bucket{le="0.25"} 3
authstate_credential_exchange_latency_seconds_bucket{le="0.5"} 3
authstate_credential_exchange_latency_seconds_bucket{le="1"} 3
authstate_credential_exchange_latency_seconds_bucket{le="+Inf"} 4
authstate_credential_exchange_latency_seconds_sum 0
authstate_credential_exchange_latency_seconds_count 4
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"authstate_credential_exchange_latency_seconds"))
}

func TestCollectorLintClean(t *testing.T) {
	problems, err := testutil.CollectAndLint(NewCollectorFromSource(sampleSource()))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestHandlerServesEngineMetrics(t *testing.T) {
	engine, err := goAuthState.New().Build()
	require.NoError(t, err)
	defer engine.Close()

	rr := httptest.NewRecorder()
	Handler(NewCollector(engine)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "authstate_login_success_total")
	assert.Contains(t, string(body), internaldefs.AuditDroppedName)
}
