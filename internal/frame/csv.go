package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	// LabelColumn names the column to use as row labels. Empty means the
	// default 0..n-1 labels.
	LabelColumn string
}

// ReadCSV reads a table from CSV with a header row.
//
// Empty cells are null. Each column gets the narrowest dtype that parses
// every non-empty cell, trying int64, float64, bool, then string.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header row")
	}

	header := records[0]
	rows := records[1:]
	cells := make([][]string, len(header))
	for _, row := range rows {
		for j := range header {
			if j < len(row) {
				cells[j] = append(cells[j], row[j])
			} else {
				cells[j] = append(cells[j], "")
			}
		}
	}

	labels := RangeLabels(len(rows))
	columns := make([]*Column, 0, len(header))
	found := opts.LabelColumn == ""
	for j, name := range header {
		dtype, values := inferCells(cells[j], len(rows))
		if name == opts.LabelColumn && !found {
			labels = NewLabels(values, name)
			found = true
			continue
		}
		columns = append(columns, &Column{name: name, dtype: dtype, values: values})
	}
	if !found {
		return nil, fmt.Errorf("read csv: %w: label column %q", ErrNoColumn, opts.LabelColumn)
	}
	return NewTableWithLabels(labels, columns...)
}

func inferCells(cells []string, n int) (DType, []Value) {
	for _, dtype := range []DType{DTypeInt64, DTypeFloat64, DTypeBool} {
		if values, ok := parseCells(cells, n, dtype); ok {
			return dtype, values
		}
	}
	values := make([]Value, n)
	nonEmpty := false
	for i := 0; i < n; i++ {
		if i >= len(cells) || cells[i] == "" {
			values[i] = Null{}
			continue
		}
		nonEmpty = true
		values[i] = String(cells[i])
	}
	if !nonEmpty {
		return DTypeObject, values
	}
	return DTypeString, values
}

func parseCells(cells []string, n int, dtype DType) ([]Value, bool) {
	values := make([]Value, n)
	nonEmpty := false
	for i := 0; i < n; i++ {
		s := ""
		if i < len(cells) {
			s = strings.TrimSpace(cells[i])
		}
		if s == "" {
			values[i] = Null{}
			continue
		}
		nonEmpty = true
		switch dtype {
		case DTypeInt64:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, false
			}
			values[i] = Int(v)
		case DTypeFloat64:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			values[i] = Float(v)
		case DTypeBool:
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, false
			}
			values[i] = Bool(v)
		}
	}
	return values, nonEmpty
}

// WriteCSV writes a table with a header row. When labelColumn is non-empty
// the row labels are written first under that header.
func WriteCSV(w io.Writer, t *Table, labelColumn string) error {
	writer := csv.NewWriter(w)
	header := t.ColumnNames()
	if labelColumn != "" {
		header = append([]string{labelColumn}, header...)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for i := 0; i < t.rows; i++ {
		row := make([]string, 0, len(header))
		if labelColumn != "" {
			row = append(row, Format(t.labels.At(i)))
		}
		for _, c := range t.columns {
			row = append(row, Format(c.values[i]))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
