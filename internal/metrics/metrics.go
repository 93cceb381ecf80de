// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsTotal counts table uploads by table name and outcome
	// ("ok" or "failed").
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_uploads_total",
		Help: "Number of table uploads processed, by table and outcome.",
	}, []string{"table", "outcome"})

	// RowsInvalidTotal counts rows flagged invalid by the pipeline.
	RowsInvalidTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_rows_invalid_total",
		Help: "Number of rows flagged invalid, by table.",
	}, []string{"table"})

	// ReconcileRunsTotal counts reconciliation report requests served.
	ReconcileRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recon_reconcile_runs_total",
		Help: "Number of reconciliation reports produced.",
	})
)
