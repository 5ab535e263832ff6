package check

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/diag"
	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/testutil"
)

func ordersPlan(t *testing.T, opts ...contract.Option) *decl.Plan {
	t.Helper()
	path := testutil.WriteFile(t, t.TempDir(), "orders.yaml", testutil.OrdersYAML)
	plan, err := decl.LoadPlan(path, opts...)
	require.NoError(t, err)
	return plan
}

func compile(t *testing.T, decls ...decl.Declaration) *decl.Plan {
	t.Helper()
	plan, err := decl.Compile(decls, contract.WithSink(diag.Discard))
	require.NoError(t, err)
	return plan
}

func TestRunOrders(t *testing.T) {
	rec := &diag.Recorder{}
	plan := ordersPlan(t, contract.WithSink(rec))
	input := testutil.OrdersTable(t)

	res, err := Run(context.Background(), plan, input)
	require.NoError(t, err)

	type outcome struct {
		contract string
		target   string
		passed   bool
		repair   contract.RepairStatus
	}
	got := make([]outcome, len(res.Steps))
	for i, st := range res.Steps {
		got[i] = outcome{st.Contract, st.Target, st.Passed, st.Repair}
	}
	assert.Equal(t, []outcome{
		{"has_columns", "", true, contract.RepairSucceeded},
		{"qty_non_negative", "qty", true, contract.RepairSucceeded},
		{"price_not_null", "", false, contract.RepairNotAttempted},
		{"index_positive", "", true, contract.RepairNotAttempted},
		{"index_named", "", true, contract.RepairNotAttempted},
		{"region_filled", "region", true, contract.RepairSucceeded},
	}, got)

	assert.False(t, res.Passed())
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "price_not_null", failed[0].Contract)
	assert.True(t, res.Steps[0].Repaired())
	assert.False(t, res.Steps[3].Repaired())

	assert.Equal(t, []diag.Kind{
		diag.KindRepairAttempted,
		diag.KindRepairAttempted,
		diag.KindRepairAttempted,
	}, rec.Kinds())

	var buf bytes.Buffer
	require.NoError(t, frame.WriteCSV(&buf, res.Table, "order_id"))
	testutil.AssertGolden(t, "orders_repaired", buf.Bytes())

	assert.Equal(t, []string{"qty", "price", "region"}, input.ColumnNames(), "input table untouched")
}

func TestRunNoRepair(t *testing.T) {
	plan := ordersPlan(t, contract.WithSink(diag.Discard), contract.WithRepair(false))

	res, err := Run(context.Background(), plan, testutil.OrdersTable(t))
	require.NoError(t, err)

	var names []string
	for _, st := range res.Failed() {
		names = append(names, st.Contract)
		assert.Equal(t, contract.RepairNotAttempted, st.Repair)
	}
	assert.Equal(t, []string{"has_columns", "qty_non_negative", "price_not_null", "region_filled"}, names)
	assert.True(t, res.Table.Equal(testutil.OrdersTable(t)))
}

func TestRunLaterContractsSeeRepairs(t *testing.T) {
	plan := compile(t,
		decl.Declaration{Name: "add_discount", Scope: "table", Rule: "columns", Columns: []string{"discount"}},
		decl.Declaration{Name: "discount_filled", Scope: "column", Rule: "not_null", Column: "discount"},
	)

	res, err := Run(context.Background(), plan, testutil.OrdersTable(t))
	require.NoError(t, err)
	require.True(t, res.Passed())

	discount, ok := res.Table.Column("discount")
	require.True(t, ok)
	assert.Equal(t, frame.Values(0, 0, 0, 0), discount.Values())
}

func TestRunMissingColumn(t *testing.T) {
	plan := compile(t, decl.Declaration{Name: "tax_ok", Scope: "column", Rule: "positive", Column: "tax"})

	res, err := Run(context.Background(), plan, testutil.OrdersTable(t))
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)

	st := res.Steps[0]
	assert.False(t, st.Passed)
	assert.ErrorIs(t, st.Err, frame.ErrNoColumn)
	assert.Equal(t, contract.RepairStatus(""), st.Repair, "never evaluated")
}

func TestRunReattachFailure(t *testing.T) {
	table := frame.MustTable(
		frame.NewColumn("sku", frame.Values("a", "b", "a")),
		frame.NewColumn("qty", frame.Values(1, 2, 3)),
	)
	plan := compile(t, decl.Declaration{Name: "sku_unique", Scope: "column", Rule: "unique", Column: "sku"})

	res, err := Run(context.Background(), plan, table)
	require.NoError(t, err)

	st := res.Steps[0]
	assert.False(t, st.Passed)
	assert.Equal(t, contract.RepairSucceeded, st.Repair, "the repair itself worked")
	assert.ErrorIs(t, st.Err, ErrReattach)
	assert.ErrorIs(t, st.Err, frame.ErrLength)
	assert.Same(t, table, res.Table)
}

func TestRunLabelsRepairDoesNotMutateInput(t *testing.T) {
	input := testutil.OrdersTable(t)
	plan := compile(t, decl.Declaration{Name: "named", Scope: "labels", Rule: "names", Names: []string{"id"}})

	res, err := Run(context.Background(), plan, input)
	require.NoError(t, err)
	require.True(t, res.Passed())

	assert.Equal(t, []string{"id"}, res.Table.Labels().Names())
	assert.Equal(t, []string{"order_id"}, input.Labels().Names())
}

func TestRunLabelsReorder(t *testing.T) {
	table, err := frame.NewTableWithLabels(
		frame.NewLabels(frame.Values(3, 1, 2)),
		frame.NewColumn("qty", frame.Values(30, 10, 20)),
	)
	require.NoError(t, err)
	plan := compile(t, decl.Declaration{Name: "sorted", Scope: "labels", Rule: "monotonic"})

	res, err := Run(context.Background(), plan, table)
	require.NoError(t, err)
	require.True(t, res.Passed())
	assert.Equal(t, frame.Values(1, 2, 3), res.Table.Labels().Values())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, ordersPlan(t, contract.WithSink(diag.Discard)), testutil.OrdersTable(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Steps)
}

func TestRunEmptyPlan(t *testing.T) {
	table := testutil.OrdersTable(t)
	res, err := Run(context.Background(), &decl.Plan{}, table)
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Same(t, table, res.Table)
}
