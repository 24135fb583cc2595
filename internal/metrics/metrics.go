package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EngagementToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "akashic_engagement_toggles_total",
		Help: "Like and retweet toggles by kind and resulting state",
	}, []string{"kind", "result"})

	AssemblyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "akashic_assembly_duration_seconds",
		Help:    "Time spent assembling enriched read views",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	DroppedComments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akashic_thread_dropped_comments_total",
		Help: "Comment ids skipped during thread assembly because the record was missing or detached",
	})

	OrphanedAuthors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akashic_orphaned_author_lookups_total",
		Help: "Author lookups that found no user record",
	})

	AuthorCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "akashic_author_cache_lookups_total",
		Help: "Author cache lookups by outcome",
	}, []string{"outcome"})

	EngagementEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "akashic_engagement_events_total",
		Help: "Engagement stream events handled by workers",
	}, []string{"type", "status"})
)

func init() {
	prometheus.MustRegister(
		EngagementToggles,
		AssemblyDuration,
		DroppedComments,
		OrphanedAuthors,
		AuthorCacheLookups,
		EngagementEvents,
	)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAssembly records how long an assembly operation took.
func ObserveAssembly(operation string, start time.Time) {
	AssemblyDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncToggle counts a membership toggle.
func IncToggle(kind string, added bool) {
	result := "removed"
	if added {
		result = "added"
	}
	EngagementToggles.WithLabelValues(kind, result).Inc()
}
