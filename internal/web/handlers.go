package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/logging"
	"github.com/JonMunkholm/reconcile/internal/metrics"
)

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleUploadCustomers ingests the customer table.
func (s *Server) handleUploadCustomers(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, core.CustomerTable, s.service.LoadCustomers)
}

// handleUploadOrders ingests the order table.
func (s *Server) handleUploadOrders(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, core.OrderTable, s.service.LoadOrders)
}

// loadFunc is the core entry point for one table's pipeline run.
type loadFunc func(ctx context.Context, in core.Table) (*core.TableReport, error)

// handleUpload parses the multipart CSV into an in-memory table and runs
// it through the pipeline. The core never touches the file itself.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, table string, load loadFunc) {
	in, fileName, err := s.readCSVUpload(w, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(table, "failed").Inc()
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("upload received", "table", table, "file", fileName, "rows", len(in.Rows))

	report, err := load(r.Context(), in)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(table, "failed").Inc()
		respondError(w, r, err, statusForError(err))
		return
	}

	metrics.UploadsTotal.WithLabelValues(table, "ok").Inc()
	metrics.RowsInvalidTotal.WithLabelValues(table).Add(float64(report.InvalidRows))

	writeJSON(w, report)
}

// handleReconcile returns the reconciliation report. With ?full=true the
// per-record detail is included alongside the summary.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	full := r.URL.Query().Get("full") == "true"

	report, err := s.service.Reconcile(full)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	metrics.ReconcileRunsTotal.Inc()

	if full {
		writeJSON(w, report)
		return
	}
	writeJSON(w, report.Summary)
}

// handleDownloadCustomers serves the cleaned customer table as CSV.
func (s *Server) handleDownloadCustomers(w http.ResponseWriter, r *http.Request) {
	table, err := s.service.CleanedCustomers()
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}
	writeCSV(w, "clean_customers.csv", table)
}

// handleDownloadOrders serves the cleaned order table as CSV.
func (s *Server) handleDownloadOrders(w http.ResponseWriter, r *http.Request) {
	table, err := s.service.CleanedOrders()
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}
	writeCSV(w, "clean_orders.csv", table)
}

// handleReset clears the loaded datasets.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.service.Reset()
	writeJSON(w, map[string]string{"status": "reset"})
}

// readCSVUpload extracts and parses the multipart "file" field into an
// in-memory table. The first non-empty record is the header.
func (s *Server) readCSVUpload(w http.ResponseWriter, r *http.Request) (core.Table, string, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return core.Table{}, "", fmt.Errorf("file too large or invalid form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Table{}, "", fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return core.Table{}, "", fmt.Errorf("read file: %w", err)
	}

	table, err := parseCSVTable(data, s.cfg.Upload.MaxRows)
	if err != nil {
		return core.Table{}, "", err
	}

	return table, header.Filename, nil
}

// parseCSVTable parses raw CSV bytes into a header row plus data rows.
// The input is UTF-8 sanitized and BOM-stripped first; fully empty
// records are skipped.
func parseCSVTable(data []byte, maxRows int) (core.Table, error) {
	data = core.SanitizeUTF8(data)
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return core.Table{}, fmt.Errorf("invalid csv: %w", err)
	}

	var table core.Table
	for _, rec := range records {
		if core.IsEmptyRow(rec) {
			continue
		}
		if table.Headers == nil {
			table.Headers = rec
			continue
		}
		table.Rows = append(table.Rows, rec)
		if len(table.Rows) > maxRows {
			return core.Table{}, fmt.Errorf("too many rows: limit is %d", maxRows)
		}
	}

	if table.Headers == nil {
		return core.Table{}, core.ErrEmptyTable
	}

	return table, nil
}

// writeCSV streams a table to the client as a CSV attachment.
func writeCSV(w http.ResponseWriter, fileName string, table *core.Table) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))

	cw := csv.NewWriter(w)
	cw.Write(table.Headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
	cw.Flush()
}
