package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// table is a header-indexed view over a CSV stream.
type table struct {
	source string
	reader *csv.Reader
	index  map[string]int
}

// openTable reads the header row and checks that every required column exists.
// Extra columns are ignored.
func openTable(r io.Reader, source string, required []string) (*table, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnError{Source: source, Column: required[0]}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", source, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Source: source, Column: col}
		}
	}
	return &table{source: source, reader: rd, index: index}, nil
}

// tableRow is one data row together with its line number.
type tableRow struct {
	t      *table
	line   int
	fields []string
}

// next returns the next row, or io.EOF.
func (t *table) next() (*tableRow, error) {
	fields, err := t.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: %w", t.source, err)
	}
	line, _ := t.reader.FieldPos(0)
	return &tableRow{t: t, line: line, fields: fields}, nil
}

// has reports whether the table carries the column.
func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (r *tableRow) str(col string) string {
	i, ok := r.t.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r *tableRow) fail(col string, err error) error {
	return &ValueError{Source: r.t.source, Line: r.line, Column: col, Value: r.str(col), Err: err}
}

func (r *tableRow) date(col string) (time.Time, error) {
	s := r.str(col)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, r.fail(col, errors.New("unrecognized date format"))
}

func (r *tableRow) boolean(col string) (bool, error) {
	s := r.str(col)
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, r.fail(col, err)
	}
	return b, nil
}

func (r *tableRow) float(col string) (float64, error) {
	f, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		return 0, r.fail(col, err)
	}
	return f, nil
}

// optFloat parses the column, treating blanks and NaN as absent.
func (r *tableRow) optFloat(col string) (*float64, error) {
	s := r.str(col)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "<NA>") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, r.fail(col, err)
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func (r *tableRow) integer(col string) (int, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Summaries written by dataframe tools may carry "3.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, r.fail(col, err)
		}
		n = int(f)
	}
	return n, nil
}
