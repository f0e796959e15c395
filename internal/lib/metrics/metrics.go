package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// результаты приема заказа
const (
	ResultAccepted    = "accepted"
	ResultInvalid     = "invalid"
	ResultBot         = "bot"
	ResultRateLimited = "rate_limited"
	ResultFailed      = "failed"
)

// Metrics счетчики приема заказов и отправки писем
type Metrics struct {
	submissions *prometheus.CounterVec
	emails      *prometheus.CounterVec
}

// New регистрирует счетчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_submissions_total",
			Help: "Order submissions by outcome.",
		}, []string{"result"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_emails_total",
			Help: "Order notification emails by recipient kind and outcome.",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(m.submissions, m.emails)
	return m
}

func (m *Metrics) Submission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// Email учитывает отправку письма; kind: "customer" или "owner".
func (m *Metrics) Email(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.emails.WithLabelValues(kind, result).Inc()
}

