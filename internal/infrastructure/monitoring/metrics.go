package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type LedgerMetrics struct {
	SalesTotal          *prometheus.CounterVec
	PaymentsTotal       *prometheus.CounterVec
	RemindersCreated    prometheus.Counter
	RemindersDispatched *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shop_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Ledger = LedgerMetrics{
		SalesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_ledger_sales_total",
				Help: "Total number of sale recording attempts by outcome.",
			},
			[]string{"status"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_ledger_payments_total",
				Help: "Total number of payment recording attempts by outcome.",
			},
			[]string{"status"},
		),
		RemindersCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shop_ledger_reminders_created_total",
				Help: "Total number of threshold-crossing reminders created.",
			},
		),
		RemindersDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_ledger_reminders_dispatched_total",
				Help: "Total number of reminder events handed to the notification exchange.",
			},
			[]string{"status"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordSale(status string) {
	Ledger.SalesTotal.WithLabelValues(status).Inc()
}

func RecordPayment(status string) {
	Ledger.PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordReminderCreated() {
	Ledger.RemindersCreated.Inc()
}

func RecordReminderDispatched(status string) {
	Ledger.RemindersDispatched.WithLabelValues(status).Inc()
}
