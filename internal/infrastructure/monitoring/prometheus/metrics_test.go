package prometheus

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "cim"}, logging.NewNopLogger())
	require.NoError(t, err)
	return NewAppMetrics(c), c
}

func TestAppMetrics_ObserveLoad(t *testing.T) {
	m, c := newTestAppMetrics(t)
	m.ObserveLoad("sdf", 9, 1, 20*time.Millisecond)
	m.ObserveLoad("sdf", 3, 0, 5*time.Millisecond)

	expected := `
# HELP cim_records_loaded_total Records loaded into a canonical table.
# TYPE cim_records_loaded_total counter
cim_records_loaded_total{format="sdf"} 12
# HELP cim_records_skipped_total Structure records dropped because they could not be parsed.
# TYPE cim_records_skipped_total counter
cim_records_skipped_total{format="sdf"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected),
		"cim_records_loaded_total", "cim_records_skipped_total"))
}

func TestAppMetrics_ObserveExport(t *testing.T) {
	m, c := newTestAppMetrics(t)
	m.ObserveExport("csv", 4, nil)
	m.ObserveExport("csv", 0, errors.New("disk full"))

	expected := `
# HELP cim_exports_total Export operations by target format and status.
# TYPE cim_exports_total counter
cim_exports_total{format="csv",status="failure"} 1
cim_exports_total{format="csv",status="success"} 1
# HELP cim_rows_written Rows written by the most recent export per format.
# TYPE cim_rows_written gauge
cim_rows_written{format="csv"} 4
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected),
		"cim_exports_total", "cim_rows_written"))
}

func TestAppMetrics_SetOperationsAndImages(t *testing.T) {
	m, c := newTestAppMetrics(t)
	m.ObserveSetOperation("union")
	m.ObserveSetOperation("union")
	m.ObserveImage("grid")
	m.ObserveCanonicalization(true)
	m.ObserveCanonicalization(false)

	count, err := testutil.GatherAndCount(c.Gatherer(),
		"cim_set_operations_total", "cim_images_rendered_total", "cim_smiles_canonicalized_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestAppMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.ObserveLoad("csv", 1, 0, time.Second)
		m.ObserveExport("csv", 1, nil)
		m.ObserveSetOperation("sub")
		m.ObserveImage("grid")
		m.ObserveCanonicalization(true)
	})
}

//Personal.AI order the ending
