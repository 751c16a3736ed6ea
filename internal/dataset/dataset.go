// Package dataset decodes the embedded speed-of-light measurements.
//
// The table has six columns: sequence, date, observer, method, value and
// uncertainty. Every cell is read as text first and then converted on its
// own, so a bad number only zeroes that cell. A table that cannot be read
// at all (wrong arity, broken quoting, no header) is reported as a failed
// Result, and WithFallback turns that into a single empty placeholder row
// so the chart always has something to draw.
package dataset

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/lightspeed/pkg/models"
)

//go:embed measurements.csv
var embedded string

const columns = 6

// ErrNoHeader is returned when the input does not even contain a header row.
var ErrNoHeader = errors.New("dataset has no header row")

// Result is the outcome of decoding a table. Err is nil on success.
type Result struct {
	Rows []models.Measurement
	Err  error
}

// OK reports whether the table decoded.
func (r Result) OK() bool {
	return r.Err == nil
}

var (
	loaded = Decode(embedded)
	all    = WithFallback(loaded)
)

// Loaded returns the outcome of decoding the embedded table at startup.
// Rows is a copy; Err is non-nil when All is the placeholder.
func Loaded() Result {
	rows := make([]models.Measurement, len(loaded.Rows))
	copy(rows, loaded.Rows)
	return Result{Rows: rows, Err: loaded.Err}
}

// All returns a copy of the process-wide dataset.
func All() []models.Measurement {
	out := make([]models.Measurement, len(all))
	copy(out, all)
	return out
}

// Embedded returns the raw CSV text compiled into the binary.
func Embedded() string {
	return embedded
}

// Decode parses CSV text with a header row and six columns per row.
func Decode(text string) Result {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = columns
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Result{Err: ErrNoHeader}
		}
		return Result{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	var rows []models.Measurement
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{Err: fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)}
		}
		rows = append(rows, parseRow(rec))
	}
	return Result{Rows: rows}
}

// WithFallback returns the decoded rows, or a single zero-valued
// placeholder when decoding failed.
func WithFallback(res Result) []models.Measurement {
	if !res.OK() {
		return []models.Measurement{{}}
	}
	return res.Rows
}

func parseRow(rec []string) models.Measurement {
	return models.Measurement{
		Sequence:    parseIntOrZero(rec[0]),
		Year:        parseFloatOrZero(rec[1]),
		Observer:    rec[2],
		Method:      rec[3],
		Value:       parseFloatOrZero(rec[4]),
		Uncertainty: parseFloatOrZero(rec[5]),
	}
}

func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
