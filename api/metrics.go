package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	analyses    *prometheus.CounterVec
	events      *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_analyses_total",
			Help: "Pipelines analysed, by verdict",
		}, []string{"result"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_editor_events_total",
			Help: "Editor events applied to the session graph, by event",
		}, []string{"event"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_submissions_total",
			Help: "Editor submissions to the analyzer, by outcome",
		}, []string{"outcome"}),
	}
}

func verdict(isDAG bool) string {
	if isDAG {
		return "dag"
	}
	return "cycle"
}
