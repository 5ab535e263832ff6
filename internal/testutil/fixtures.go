package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/tablecontract/internal/frame"
)

// OrdersCSV is a four-row orders table labelled by order_id. Row 11 has a
// negative qty and no region; row 12 has no price.
const OrdersCSV = `order_id,qty,price,region
10,3,9.5,north
11,-1,4.0,
12,5,,south
13,2,1.25,east
`

// OrdersYAML declares contracts for OrdersCSV. Applied with repair, the
// price contract fails and every other contract passes.
const OrdersYAML = `contracts:
  - name: has_columns
    scope: table
    rule: columns
    columns: [qty, price, region, discount]
  - name: qty_non_negative
    scope: column
    rule: non_negative
    column: qty
  - name: price_not_null
    scope: table
    rule: not_null
    columns: [price]
  - name: index_positive
    scope: labels
    rule: positive
  - name: index_named
    scope: labels
    rule: names
    names: [order_id]
  - name: region_filled
    scope: column
    rule: not_null
    column: region
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// OrdersTable parses OrdersCSV.
func OrdersTable(t testing.TB) *frame.Table {
	t.Helper()
	table, err := frame.ReadCSV(strings.NewReader(OrdersCSV), frame.CSVOptions{LabelColumn: "order_id"})
	if err != nil {
		t.Fatalf("read orders fixture: %v", err)
	}
	return table
}
