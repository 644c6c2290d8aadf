package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// SchemaError reports a required raw field missing from an input schema.
// This is the fatal configuration case: it is never treated as a
// missing-value condition.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required field %q absent from schema", e.Field)
}

// missing markers accepted in the source CSV
func isMissingToken(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}

// ReadCSV parses a raw borrower dataset from r. The header must contain all
// ten raw fields; the target column and a leading unnamed index column are
// optional. Missing numeric entries become NaN.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	for _, f := range RawFields() {
		if _, ok := colIndex[f.Name]; !ok {
			return nil, &SchemaError{Field: f.Name}
		}
	}
	targetCol, labeled := colIndex[FieldTarget]

	ds := &Dataset{Labeled: labeled}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		rec := Record{Target: math.NaN()}
		if labeled {
			v, err := parseCell(row, targetCol)
			if err != nil {
				return nil, fmt.Errorf("row %d, field %s: %w", line, FieldTarget, err)
			}
			rec.Target = v
		}
		for _, f := range RawFields() {
			v, err := parseCell(row, colIndex[f.Name])
			if err != nil {
				return nil, fmt.Errorf("row %d, field %s: %w", line, f.Name, err)
			}
			f.Set(&rec, v)
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// ReadCSVFile opens and parses a raw borrower dataset from disk.
func ReadCSVFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

func parseCell(row []string, idx int) (float64, error) {
	if idx >= len(row) || isMissingToken(row[idx]) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", row[idx], err)
	}
	return v, nil
}
