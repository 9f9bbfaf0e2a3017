// Package metrics exposes prometheus collectors for the wallet lifecycle,
// approval callbacks and the access gate. A nil *Collectors is valid and
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collectors struct {
	registry       *prometheus.Registry
	lifecycleTotal *prometheus.CounterVec
	approvalsTotal *prometheus.CounterVec
	gateRedirects  prometheus.Counter
	sdkInitialized prometheus.Gauge
	bridgeDeposits *prometheus.CounterVec
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func New() *Collectors {
	lifecycle := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_swap_sdk_lifecycle_total",
		Help: "SDK lifecycle transitions by event and result",
	}, []string{"event", "result"})

	approvals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_swap_approvals_total",
		Help: "Allowance and intent callbacks by decision",
	}, []string{"kind", "decision"})

	redirects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nexus_swap_gate_redirects_total",
		Help: "Redirects performed by the access gate",
	})

	initialized := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nexus_swap_sdk_initialized",
		Help: "1 while the settlement SDK is initialized",
	})

	deposits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_swap_bridge_deposits_total",
		Help: "Bridge deposits by result",
	}, []string{"result"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_swap_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_swap_request_duration_seconds",
		Help:    "Histogram of HTTP request latencies",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	r := prometheus.NewRegistry()
	r.MustRegister(lifecycle, approvals, redirects, initialized, deposits, requests, latency)

	return &Collectors{
		registry:       r,
		lifecycleTotal: lifecycle,
		approvalsTotal: approvals,
		gateRedirects:  redirects,
		sdkInitialized: initialized,
		bridgeDeposits: deposits,
		requestsTotal:  requests,
		requestLatency: latency,
	}
}

func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collectors) Lifecycle(event string, err error) {
	if c == nil {
		return
	}
	c.lifecycleTotal.WithLabelValues(event, result(err)).Inc()
}

func (c *Collectors) SetInitialized(ok bool) {
	if c == nil {
		return
	}
	if ok {
		c.sdkInitialized.Set(1)
	} else {
		c.sdkInitialized.Set(0)
	}
}

func (c *Collectors) Approval(kind, decision string) {
	if c == nil {
		return
	}
	c.approvalsTotal.WithLabelValues(kind, decision).Inc()
}

func (c *Collectors) GateRedirect() {
	if c == nil {
		return
	}
	c.gateRedirects.Inc()
}

func (c *Collectors) Deposit(err error) {
	if c == nil {
		return
	}
	c.bridgeDeposits.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRequest records one served HTTP request.
func (c *Collectors) ObserveRequest(method, endpoint string, d time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, endpoint).Inc()
	c.requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
