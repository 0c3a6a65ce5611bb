package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series with the running service.
type Config struct {
	ServiceName string
	Environment string
}

// BillingMetrics tracks document throughput and conversion health.
// A nil *BillingMetrics is a no-op so services can run without a registry.
type BillingMetrics struct {
	documentsCreated   *prometheus.CounterVec
	conversions        prometheus.Counter
	conversionFailures *prometheus.CounterVec
	grandTotals        *prometheus.HistogramVec
	statusChanges      *prometheus.CounterVec
}

// NewBilling registers the billing collectors on registerer.
func NewBilling(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "signboard-admin"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &BillingMetrics{
		documentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billing_documents_created_total",
			Help:        "Quotations and invoices saved, by kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "billing_invoice_conversions_total",
			Help:        "Invoices generated from quotations.",
			ConstLabels: constLabels,
		}),
		conversionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billing_invoice_conversion_failures_total",
			Help:        "Quotation to invoice conversions that failed, by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		grandTotals: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "billing_document_grand_total_inr",
			Help:        "Grand total of saved documents in rupees.",
			Buckets:     []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000},
			ConstLabels: constLabels,
		}, []string{"kind"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billing_invoice_status_changes_total",
			Help:        "Invoice status updates, by new status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}

	registerer.MustRegister(
		m.documentsCreated,
		m.conversions,
		m.conversionFailures,
		m.grandTotals,
		m.statusChanges,
	)
	return m
}

func (m *BillingMetrics) DocumentCreated(kind string, grandTotal float64) {
	if m == nil {
		return
	}
	m.documentsCreated.WithLabelValues(kind).Inc()
	m.grandTotals.WithLabelValues(kind).Observe(grandTotal)
}

func (m *BillingMetrics) ConversionSucceeded() {
	if m == nil {
		return
	}
	m.conversions.Inc()
}

// ConversionFailed records a failed conversion. reason must stay low-cardinality.
func (m *BillingMetrics) ConversionFailed(reason string) {
	if m == nil {
		return
	}
	m.conversionFailures.WithLabelValues(reason).Inc()
}

func (m *BillingMetrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
