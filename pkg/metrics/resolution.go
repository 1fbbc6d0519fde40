package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics records resolution engine activity: catalog merges,
// override edits, and routing fallbacks.
type ResolutionMetrics struct {
	resolveDuration *prometheus.HistogramVec
	overrideWrites  *prometheus.CounterVec
	overrideResets  prometheus.Counter
	routingFallback *prometheus.CounterVec
	versionConflict *prometheus.CounterVec
}

// NewResolutionMetrics registers the resolution metrics on the provided registerer.
func NewResolutionMetrics(reg prometheus.Registerer) *ResolutionMetrics {
	if reg == nil {
		return &ResolutionMetrics{}
	}
	resolveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resolution_duration_seconds",
		Help:    "Duration of merchant view resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	overrideWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "override_writes_total",
		Help: "Override edits applied, labelled by actor.",
	}, []string{"actor"})
	overrideResets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "override_resets_total",
		Help: "Overrides cleared back to the base catalog.",
	})
	routingFallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_fallbacks_total",
		Help: "Routing resolutions that fell back to the system default, labelled by reason.",
	}, []string{"reason"})
	versionConflict := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "version_conflicts_total",
		Help: "Optimistic concurrency conflicts rejected, labelled by entity.",
	}, []string{"entity"})
	reg.MustRegister(resolveDuration, overrideWrites, overrideResets, routingFallback, versionConflict)
	return &ResolutionMetrics{
		resolveDuration: resolveDuration,
		overrideWrites:  overrideWrites,
		overrideResets:  overrideResets,
		routingFallback: routingFallback,
		versionConflict: versionConflict,
	}
}

// ObserveResolve records the duration for one resolution pass.
func (m *ResolutionMetrics) ObserveResolve(kind string, duration time.Duration) {
	if m == nil || m.resolveDuration == nil {
		return
	}
	m.resolveDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncOverrideWrite counts one applied override edit.
func (m *ResolutionMetrics) IncOverrideWrite(actor string) {
	if m == nil || m.overrideWrites == nil {
		return
	}
	m.overrideWrites.WithLabelValues(normalizeLabel(actor)).Inc()
}

// IncOverrideReset counts one override reset.
func (m *ResolutionMetrics) IncOverrideReset() {
	if m == nil || m.overrideResets == nil {
		return
	}
	m.overrideResets.Inc()
}

// IncRoutingFallback counts one fallback to the system default pharmacy.
func (m *ResolutionMetrics) IncRoutingFallback(reason string) {
	if m == nil || m.routingFallback == nil {
		return
	}
	m.routingFallback.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncVersionConflict counts one rejected stale write.
func (m *ResolutionMetrics) IncVersionConflict(entity string) {
	if m == nil || m.versionConflict == nil {
		return
	}
	m.versionConflict.WithLabelValues(normalizeLabel(entity)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
