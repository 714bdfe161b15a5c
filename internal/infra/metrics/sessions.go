package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sessionsActive, filesUploadedTotal, filesDerivedTotal) }

var sessionsActive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of sessions currently known to the store.",
	},
)

var filesUploadedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "files_uploaded_total",
		Help: "Total files uploaded across all sessions.",
	},
)

var filesDerivedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "files_derived_total",
		Help: "Total result files produced by dispatches, labeled by operation.",
	},
	[]string{"op"},
)

func SetActiveSessions(n int)   { sessionsActive.Set(float64(n)) }
func IncFileUploaded()          { filesUploadedTotal.Inc() }
func IncFileDerived(op string)  { filesDerivedTotal.WithLabelValues(norm(op)).Inc() }
