package domain

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

// ErrEmptyCatalog is returned when the input has no header row.
var ErrEmptyCatalog = errors.New("catalog has no header row")

// ParseCSV reads a header row followed by product rows.
// Columns are matched case-insensitively; unknown columns are kept in the
// column set but otherwise ignored. A malformed number in a present column
// fails the whole load.
func ParseCSV(r io.Reader, source string, now time.Time) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
		columns = append(columns, name)
	}

	var products []Product
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		row := rowReader{record: record, index: index, line: line}
		p := Product{
			ProductID:   row.text(ColProductID),
			ProductName: row.text(ColProductName),
			Category:    row.text(ColCategory),
			Brand:       row.text(ColBrand),
			Description: row.text(ColDescription),
		}
		p.CurrentPrice = row.float(ColCurrentPrice)
		p.Cost = row.float(ColCost)
		p.AverageRating = row.float(ColAverageRating)
		p.StockQuantity = row.int(ColStockQuantity)
		p.ReviewCount = row.int(ColReviewCount)
		if row.err != nil {
			return nil, row.err
		}
		products = append(products, p)
	}

	return NewSnapshot(products, columns, source, now), nil
}

type rowReader struct {
	record []string
	index  map[string]int
	line   int
	err    error
}

func (r *rowReader) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *rowReader) float(col string) float64 {
	raw := r.text(col)
	if raw == "" || r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		r.err = fmt.Errorf("line %d: column %s: invalid number %q", r.line, col, raw)
		return 0
	}
	return v
}

func (r *rowReader) int(col string) int {
	raw := r.text(col)
	if raw == "" || r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Exported spreadsheets often write integers as "12.0".
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != float64(int(f)) {
			r.err = fmt.Errorf("line %d: column %s: invalid integer %q", r.line, col, raw)
			return 0
		}
		v = int(f)
	}
	return v
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
