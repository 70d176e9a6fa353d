package prometheus

import (
	"time"
)

// Export status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Default Buckets
var (
	DefaultLoadDurationBuckets = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
)

// AppMetrics holds the conversion metrics.  All methods are safe on a nil
// receiver so that callers without a collector need no branches.
type AppMetrics struct {
	RecordsLoaded  CounterVec
	RecordsSkipped CounterVec
	Canonicalized  CounterVec
	ExportsTotal   CounterVec
	SetOperations  CounterVec
	RowsWritten    GaugeVec
	LoadDuration   HistogramVec
	ImagesRendered CounterVec
}

// NewAppMetrics registers all metrics on collector and returns them.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		RecordsLoaded: collector.RegisterCounter("records_loaded_total",
			"Records loaded into a canonical table.", "format"),
		RecordsSkipped: collector.RegisterCounter("records_skipped_total",
			"Structure records dropped because they could not be parsed.", "format"),
		Canonicalized: collector.RegisterCounter("smiles_canonicalized_total",
			"Smiles values rewritten through canonicalization, by outcome.", "outcome"),
		ExportsTotal: collector.RegisterCounter("exports_total",
			"Export operations by target format and status.", "format", "status"),
		SetOperations: collector.RegisterCounter("set_operations_total",
			"Set algebra operations performed.", "operation"),
		RowsWritten: collector.RegisterGauge("rows_written",
			"Rows written by the most recent export per format.", "format"),
		LoadDuration: collector.RegisterHistogram("load_duration_seconds",
			"Time spent loading an input file.", DefaultLoadDurationBuckets, "format"),
		ImagesRendered: collector.RegisterCounter("images_rendered_total",
			"Grid images written.", "kind"),
	}
}

// ObserveLoad records one completed load.
func (m *AppMetrics) ObserveLoad(format string, loaded, skipped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RecordsLoaded.WithLabelValues(format).Add(float64(loaded))
	if skipped > 0 {
		m.RecordsSkipped.WithLabelValues(format).Add(float64(skipped))
	}
	m.LoadDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveCanonicalization records the outcome of canonicalizing one value.
func (m *AppMetrics) ObserveCanonicalization(ok bool) {
	if m == nil {
		return
	}
	outcome := StatusSuccess
	if !ok {
		outcome = StatusFailure
	}
	m.Canonicalized.WithLabelValues(outcome).Inc()
}

// ObserveExport records one export attempt; rows is ignored on failure.
func (m *AppMetrics) ObserveExport(format string, rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExportsTotal.WithLabelValues(format, StatusFailure).Inc()
		return
	}
	m.ExportsTotal.WithLabelValues(format, StatusSuccess).Inc()
	m.RowsWritten.WithLabelValues(format).Set(float64(rows))
}

// ObserveSetOperation records one set algebra call.
func (m *AppMetrics) ObserveSetOperation(op string) {
	if m == nil {
		return
	}
	m.SetOperations.WithLabelValues(op).Inc()
}

// ObserveImage records one written grid image.
func (m *AppMetrics) ObserveImage(kind string) {
	if m == nil {
		return
	}
	m.ImagesRendered.WithLabelValues(kind).Inc()
}

//Personal.AI order the ending
