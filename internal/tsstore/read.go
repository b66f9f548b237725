package tsstore

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// Row is one stored record: the leading timestamp plus the raw fields
// that followed it.
type Row struct {
	Timestamp time.Time
	Fields    []string
}

// Tail returns the last n rows of a table, oldest first. A table that
// does not exist yet yields an empty slice, not an error: charts over an
// empty history simply render empty.
func (s *Store) Tail(c Cadence, table string, n int) ([]Row, error) {
	f, err := os.Open(s.path(c, table))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tables gained columns over time

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A torn append (crash mid-write) should not hide the
			// rest of the history.
			continue
		}
		if len(record) == 0 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			continue
		}
		rows = append(rows, Row{Timestamp: ts, Fields: record[1:]})
		if n > 0 && len(rows) > n {
			rows = rows[1:]
		}
	}
	return rows, nil
}

// Float returns field i parsed as a float64, or ok=false for missing or
// "unknown" fields.
func (r Row) Float(i int) (float64, bool) {
	if i < 0 || i >= len(r.Fields) {
		return 0, false
	}
	v, err := strconv.ParseFloat(r.Fields[i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// String returns field i, or "" when absent.
func (r Row) String(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}
