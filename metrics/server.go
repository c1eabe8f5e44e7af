package metrics

import (
	"expvar"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expvar metrics (legacy)
	RotationCacheHitCount  = expvar.NewInt("rotation_cache_hit_count")
	RotationFetchCount     = expvar.NewInt("rotation_fetch_count")
	RotationFetchFailCount = expvar.NewInt("rotation_fetch_fail_count")
	GroupMessageSentCount  = expvar.NewInt("group_message_sent_count")
	GroupMessageFailCount  = expvar.NewInt("group_message_fail_count")
	EventReceivedCount     = expvar.NewInt("event_received_count")

	// Prometheus metrics with labels
	CommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_command_total",
			Help: "Total number of chat commands handled by command name",
		},
		[]string{"command"},
	)

	CommandErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_command_errors",
			Help: "Total number of chat commands that replied with a failure by command name",
		},
		[]string{"command"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_command_duration_seconds",
			Help:    "Duration of chat command execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	AppraisalStageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appraisal_stage_total",
			Help: "Item appraisal pipeline outcomes by stage (ocr, analyze) and result",
		},
		[]string{"stage", "result"},
	)

	AnnounceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rotation_announce_total",
			Help: "Scheduled rotation announcements by result",
		},
		[]string{"result"},
	)
)

type Server struct {
	*http.Server
}

func SetupServer() *Server {

	// pprof is setup by importing the net/http/pprof package
	server := &http.Server{
		Addr:         ":6060",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// setup expvar cache
	RotationCacheHitCount.Set(0)
	RotationFetchCount.Set(0)
	RotationFetchFailCount.Set(0)
	GroupMessageSentCount.Set(0)
	GroupMessageFailCount.Set(0)
	EventReceivedCount.Set(0)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(
			map[string]*prometheus.Desc{
				"rotation_cache_hit_count":  prometheus.NewDesc("rotation_cache_hit_count", "number of rotation lookups served from the file cache", nil, nil),
				"rotation_fetch_count":      prometheus.NewDesc("rotation_fetch_count", "number of rotation lookups that hit the remote API", nil, nil),
				"rotation_fetch_fail_count": prometheus.NewDesc("rotation_fetch_fail_count", "number of failed rotation API fetches", nil, nil),
				"group_message_sent_count":  prometheus.NewDesc("group_message_sent_count", "number of messages posted to the group", nil, nil),
				"group_message_fail_count":  prometheus.NewDesc("group_message_fail_count", "number of group message posts that failed", nil, nil),
				"event_received_count":      prometheus.NewDesc("event_received_count", "number of chat events received on the webhook", nil, nil),
			},
		),
		// Register command metrics with labels
		CommandTotal,
		CommandErrors,
		CommandDuration,
		AppraisalStageTotal,
		AnnounceTotal,
	)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	http.HandleFunc("/healthz", healthzHandler)
	return &Server{server}
}

// healthzHandler returns a simple health check response
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) Run() {
	_ = s.ListenAndServe()
}
