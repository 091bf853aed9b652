package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConciergeMetrics exposes counters/histograms for webhook, FAQ, guardrail
// and ticket flows.
type ConciergeMetrics struct {
	webhookTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	faqLookups     *prometheus.CounterVec
	guardrailTrips *prometheus.CounterVec
	toolCalls      *prometheus.CounterVec
	ticketsCreated *prometheus.CounterVec
}

func NewConciergeMetrics(reg prometheus.Registerer) *ConciergeMetrics {
	m := &ConciergeMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound chat webhooks",
		}, []string{"platform", "source"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		faqLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "faq",
			Name:      "lookups_total",
			Help:      "FAQ lookups by result",
		}, []string{"result"}),
		guardrailTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "guardrail",
			Name:      "trips_total",
			Help:      "Guardrail violations by type",
		}, []string{"violation"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "assistant",
			Name:      "tool_calls_total",
			Help:      "Assistant tool executions",
		}, []string{"tool", "status"}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "tickets",
			Name:      "created_total",
			Help:      "Escalation tickets created",
		}, []string{"category"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.webhookLatency, m.faqLookups, m.guardrailTrips, m.toolCalls, m.ticketsCreated)
	return m
}

func (m *ConciergeMetrics) ObserveWebhook(platform, source string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(platform, source).Inc()
}

func (m *ConciergeMetrics) ObserveWebhookLatency(source string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(source).Observe(seconds)
}

func (m *ConciergeMetrics) ObserveFAQLookup(result string) {
	if m == nil {
		return
	}
	m.faqLookups.WithLabelValues(result).Inc()
}

func (m *ConciergeMetrics) ObserveGuardrailTrip(violation string) {
	if m == nil {
		return
	}
	m.guardrailTrips.WithLabelValues(violation).Inc()
}

func (m *ConciergeMetrics) ObserveToolCall(tool, status string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

// ObserveTicketCreated satisfies the ticket service's Metrics interface.
func (m *ConciergeMetrics) ObserveTicketCreated(category string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(category).Inc()
}
