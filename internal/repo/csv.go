// Package repo implements the persistence layer of the retrofit backend.
//
// Two kinds of stores live here, both backed by flat CSV files:
//
//   - Read-mostly catalogs (buildings, measures, energy series, financials,
//     calculator parameters) are loaded fully into memory once at startup.
//     A missing or unreadable catalog file degrades to an empty catalog with
//     a warning log; later lookups simply miss. Callers never branch on
//     file-level errors.
//
//   - Mutable record stores (users, requests, recommendations) rewrite their
//     whole file on every write: read all rows, mutate in memory, write a
//     complete snapshot. This is O(n) per write but keeps the on-disk file a
//     consistent snapshot at all times, which is the accepted trade-off for
//     the expected data volumes. Each store serializes its read-modify-write
//     sequence with a mutex, so a single process never loses updates. The
//     files are not safe against concurrent writer processes.
//
// This file holds the shared CSV plumbing: header-indexed table reads, full
// snapshot writes, and tolerant field parsing (blank or non-numeric cells
// become zero values, never errors).
package repo

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested record does not exist in a store.
var ErrNotFound = errors.New("record not found")

// table is a CSV file read into memory: an ordered header plus one
// column-name → value map per row.
type table struct {
	header []string
	rows   []map[string]string
}

// readTable reads an entire CSV file. Rows shorter than the header are
// padded with empty strings; extra cells are dropped.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return &table{}, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &table{header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// writeTable writes a complete CSV snapshot: header row plus every row's
// values in header order. Missing keys are written as empty cells.
func writeTable(path string, header []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ensureFile creates the backing file with just a header row when it does
// not exist yet, creating parent directories as needed.
func ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeTable(path, header, nil)
}

// ---- tolerant field parsing ----
//
// Catalog exports carry blank cells and "nan" artifacts. All parsing below
// substitutes a documented default instead of failing (MissingData policy).

func fieldStr(row map[string]string, col string) string {
	v := strings.TrimSpace(row[col])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func fieldFloat(row map[string]string, col string) float64 {
	if f, err := strconv.ParseFloat(fieldStr(row, col), 64); err == nil {
		return f
	}
	return 0
}

func fieldInt(row map[string]string, col string) int {
	s := fieldStr(row, col)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Exports sometimes render integers as "5.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func fieldBool(row map[string]string, col string) bool {
	switch strings.ToLower(fieldStr(row, col)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// fieldOptFloat returns nil for blank or non-numeric cells, so that callers
// can tell "absent" apart from a literal zero.
func fieldOptFloat(row map[string]string, col string) *float64 {
	s := fieldStr(row, col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func fieldTime(row map[string]string, col string) time.Time {
	t, err := time.Parse(time.RFC3339, fieldStr(row, col))
	if err != nil {
		return time.Time{}
	}
	return t
}

func fieldOptTime(row map[string]string, col string) *time.Time {
	s := fieldStr(row, col)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// formatFloat renders a float for CSV without trailing zero noise.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// nowUTC returns the current time in UTC truncated to seconds, matching the
// ISO-8601 "Z" timestamps the CSV files carry.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
