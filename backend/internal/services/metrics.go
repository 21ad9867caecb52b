package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"teamshub/backend/internal/models"
)

// Metrics счетчики воронки найма
type Metrics struct {
	candidatesCreated prometheus.Counter
	stageTransitions  *prometheus.CounterVec
	jobViews          prometheus.Counter
	postingsExpired   prometheus.Counter
}

// NewMetrics создает и регистрирует счетчики. Методы nil *Metrics ничего не делают.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		candidatesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruitment",
			Name:      "candidates_created_total",
			Help:      "Candidates created through the candidate tracker.",
		}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recruitment",
			Name:      "stage_transitions_total",
			Help:      "Candidate moves between pipeline stages.",
		}, []string{"from", "to"}),
		jobViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruitment",
			Name:      "job_posting_views_total",
			Help:      "Counted public job posting views.",
		}),
		postingsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruitment",
			Name:      "job_postings_expired_total",
			Help:      "Job postings moved to expired by the sweeper.",
		}),
	}

	reg.MustRegister(m.candidatesCreated, m.stageTransitions, m.jobViews, m.postingsExpired)
	return m
}

func (m *Metrics) candidateCreated() {
	if m == nil {
		return
	}
	m.candidatesCreated.Inc()
}

func (m *Metrics) stageTransition(from, to models.CandidateStatus) {
	if m == nil {
		return
	}
	m.stageTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) jobViewed() {
	if m == nil {
		return
	}
	m.jobViews.Inc()
}

func (m *Metrics) postingExpired(n int) {
	if m == nil {
		return
	}
	m.postingsExpired.Add(float64(n))
}
