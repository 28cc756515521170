// Package sink persists extracted records to CSV output files.
package sink

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// CSVSink writes the header once on open, then appends each batch's
// rows immediately. Nothing is buffered across calls, so every batch
// already appended survives a crash of later batches.
type CSVSink struct {
	file   *os.File
	mu     sync.Mutex
	logger *slog.Logger
}

// NewCSVSink truncates or creates path and writes the header line.
func NewCSVSink(path string, header []string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	if _, err := f.WriteString(quoteRow(header) + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return &CSVSink{
		file:   f,
		logger: slog.Default().With("component", "csv_sink"),
	}, nil
}

// AppendRows writes one line per row, terminated by a newline, directly
// to the underlying file.
func (s *CSVSink) AppendRows(rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(quoteRow(row))
		b.WriteString("\n")
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		return fmt.Errorf("append csv rows: %w", err)
	}

	s.logger.Debug("appended rows", "count", len(rows))
	return nil
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// WriteAll writes a complete CSV file in one shot (single-page mode).
func WriteAll(path string, header []string, rows [][]string) error {
	sink, err := NewCSVSink(path, header)
	if err != nil {
		return err
	}
	if err := sink.AppendRows(rows); err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}

// quoteRow quotes every field unconditionally, doubling embedded
// quotes, and joins fields with commas.
func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// FilePath builds the output file name from the target site's host and
// a run timestamp, e.g. shop_example_com_products_20260830_120000.csv.
func FilePath(dir, targetURL, kind string, now time.Time) string {
	host := "output"
	if u, err := url.Parse(targetURL); err == nil && u.Host != "" {
		host = strings.ReplaceAll(u.Host, ".", "_")
	}
	name := fmt.Sprintf("%s_%s_%s.csv", host, kind, now.Format("20060102_150405"))
	return filepath.Join(dir, name)
}
