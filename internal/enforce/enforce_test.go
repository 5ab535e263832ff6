package enforce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/diag"
	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/rules"
)

// sumColumn adds up the "values" argument and records that it ran.
func sumColumn(calls *int) Func[float64] {
	return func(_ context.Context, args Args) (float64, error) {
		*calls++
		c, ok := Get[*frame.Column](args, "values")
		if !ok {
			return 0, errors.New("values not a column")
		}
		var total float64
		for _, v := range c.Values() {
			f, _ := frame.Numeric(v)
			total += f
		}
		return total, nil
	}
}

func TestWrapPassesValidArgument(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative()))

	got, err := fn(context.Background(), Args{"values": frame.NewColumn("v", frame.Values(1, 2))})

	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 1, calls)
}

func TestWrapReplacesArgumentWithRepairedData(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative(contract.WithSink(diag.Discard))))
	original := frame.NewColumn("v", frame.Values(-5, 2))
	args := Args{"values": original}

	got, err := fn(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
	assert.Same(t, original, args["values"], "caller bag untouched")
}

func TestWrapAbortsBeforeBodyOnFailure(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative(contract.WithRepair(false))))

	_, err := fn(context.Background(), Args{"values": frame.NewColumn("v", frame.Values(-1, 0, 1))})

	require.Error(t, err)
	assert.Zero(t, calls, "body must not run")
	assert.True(t, IsValidationError(err))
	assert.False(t, IsConfigError(err))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "values", e.Arg)
	assert.Equal(t, contract.RepairNotAttempted, e.Repair)
	assert.Contains(t, err.Error(), `argument "values"`)
}

func TestWrapFailedRepairCarriesCause(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative(contract.WithSink(diag.Discard))))

	_, err := fn(context.Background(), Args{"values": frame.NewColumn("v", frame.Values("x", -1))})

	assert.Zero(t, calls)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, rules.ErrNonNumeric)
}

func TestWrapMissingArgumentIsConfigError(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative()))

	_, err := fn(context.Background(), Args{"other": 1})

	assert.Zero(t, calls)
	assert.True(t, IsConfigError(err))
	assert.False(t, IsValidationError(err))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ErrCodeMissingArgument, e.Code)
}

func TestWrapWrongArgumentType(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative()))

	for name, v := range map[string]any{
		"labels":     frame.NewLabels(nil),
		"primitive":  []int{1},
		"nil column": (*frame.Column)(nil),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fn(context.Background(), Args{"values": v})
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, ErrCodeArgumentType, e.Code)
		})
	}
	assert.Zero(t, calls)
}

func TestWrapRunsEveryGuardBeforeBody(t *testing.T) {
	var order []string
	sink := diag.SinkFunc(func(d diag.Diagnostic) { order = append(order, d.Contract) })
	body := func(_ context.Context, args Args) (int, error) {
		order = append(order, "body")
		tbl, _ := Get[*frame.Table](args, "table")
		return len(tbl.ColumnNames()), nil
	}

	fn := Wrap(body,
		Require("table", rules.RequireColumns([]string{"a", "b"}, contract.WithSink(sink))),
		Require("index", rules.UniqueLabels(contract.WithSink(sink))),
	)

	got, err := fn(context.Background(), Args{
		"table": frame.MustTable(frame.NewColumn("a", frame.Values(1))),
		"index": frame.NewLabels(frame.Values(1, 1)),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, []string{"columns", "unique", "body"}, order)
}

func TestWrapStopsAtFirstRejectedGuard(t *testing.T) {
	calls := 0
	rec := &diag.Recorder{}
	fn := Wrap(func(context.Context, Args) (struct{}, error) {
		calls++
		return struct{}{}, nil
	},
		Require("a", rules.NotNull(contract.WithRepair(false), contract.WithSink(rec))),
		Require("b", rules.NonNegative(contract.WithSink(rec))),
	)

	_, err := fn(context.Background(), Args{
		"a": frame.NewColumn("a", frame.Values(nil)),
		"b": frame.NewColumn("b", frame.Values(-1)),
	})

	assert.True(t, IsValidationError(err))
	assert.Zero(t, calls)
	assert.Zero(t, rec.Len(), "second guard never ran")
}

func TestWrapHonoursCancelledContext(t *testing.T) {
	calls := 0
	fn := Wrap(sumColumn(&calls), Require("values", rules.NonNegative()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fn(ctx, Args{"values": frame.NewColumn("v", frame.Values(1))})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRequireEvaluator(t *testing.T) {
	ev, err := rules.Build(rules.Spec{Scope: frame.KindLabels, Rule: rules.RuleLabelsMonotonic})
	require.NoError(t, err)

	body := func(_ context.Context, args Args) ([]frame.Value, error) {
		l, _ := Get[*frame.Labels](args, "idx")
		return l.Values(), nil
	}
	fn := Wrap(body, RequireEvaluator("idx", ev))

	got, err := fn(context.Background(), Args{"idx": frame.NewLabels(frame.Values(2, 3, 1))})
	require.NoError(t, err)
	assert.Equal(t, frame.Values(1, 2, 3), got)

	_, err = fn(context.Background(), Args{"idx": frame.NewColumn("c", nil)})
	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, contract.ErrScopeMismatch)
}
