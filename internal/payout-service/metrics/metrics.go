package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics reúne os coletores da reconciliação.
type Metrics struct {
	Checks         *prometheus.CounterVec
	FetchFailures  prometheus.Counter
	Records        prometheus.Histogram
	PayoutTotal    prometheus.Counter
	NotifierEvents *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payout_checks_total",
			Help: "reconciliações por resultado (won, lost, error)",
		}, []string{"result"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payout_fetch_failures_total",
			Help: "falhas ao buscar a página de resultado",
		}),
		Records: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "payout_records_extracted",
			Help:    "registros extraídos por página",
			Buckets: []float64{0, 5, 10, 15, 20, 30},
		}),
		PayoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payout_amount_total",
			Help: "soma dos pagamentos calculados (ienes)",
		}),
		NotifierEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payout_notifier_events_total",
			Help: "eventos payout_checked processados pelo notifier por etapa",
		}, []string{"stage"}),
	}
}

// MustRegister registra todos os coletores no registry.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Checks, m.FetchFailures, m.Records, m.PayoutTotal, m.NotifierEvents)
}
