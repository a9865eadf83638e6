package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DealsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_deals_created_total",
		Help: "Total number of deals created",
	})

	DealsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_deals_deleted_total",
		Help: "Total number of deals deleted",
	})

	DealStageTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_deal_stage_transitions_total",
		Help: "Total number of deal stage transitions",
	}, []string{"direction", "to_stage"})

	SummaryRecomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_summary_recompute_failures_total",
		Help: "Total number of failed pipeline summary recomputes",
	})

	SummaryRecomputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crm_summary_recompute_latency_seconds",
		Help:    "Latency of pipeline summary recomputation",
		Buckets: prometheus.DefBuckets,
	})

	CustomersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_customers_created_total",
		Help: "Total number of customers created",
	})

	SMSSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_sms_sent_total",
		Help: "Total number of SMS send attempts",
	}, []string{"status"})

	RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_deadline_reminders_sent_total",
		Help: "Total number of deadline reminder SMS sent",
	})

	ReportsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_reports_generated_total",
		Help: "Total number of report files generated",
	}, []string{"extension"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
