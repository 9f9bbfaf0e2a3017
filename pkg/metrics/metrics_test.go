package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	c := New()
	c.Lifecycle("initialize", nil)
	c.Lifecycle("initialize", errors.New("boom"))
	c.Approval("intent", "allow")
	c.Approval("intent", "allow")
	c.GateRedirect()
	c.SetInitialized(true)
	c.ObserveRequest("GET", "/healthz", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.lifecycleTotal.WithLabelValues("initialize", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lifecycleTotal.WithLabelValues("initialize", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.approvalsTotal.WithLabelValues("intent", "allow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.gateRedirects))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sdkInitialized))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/healthz")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "nexus_swap_gate_redirects_total 1"))
}

func TestNilCollectors(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.Lifecycle("deinitialize", nil)
		c.Approval("allowance", "deny")
		c.GateRedirect()
		c.SetInitialized(false)
		c.Deposit(nil)
		c.ObserveRequest("GET", "/", 0)
	})
	assert.NotNil(t, c.Handler())
}
