package diag

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tablecontract/internal/frame"
)

func TestSlogSinkWritesStructuredWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	SlogSink{Logger: logger}.Emit(Diagnostic{
		Kind:     KindRepairFailed,
		Contract: "orders",
		Rule:     "dtypes",
		Scope:    frame.KindTable,
		Message:  "coercion failed",
		Err:      errors.New("bad cast"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="coercion failed"`)
	assert.Contains(t, out, "kind=repair_failed")
	assert.Contains(t, out, "contract=orders")
	assert.Contains(t, out, "scope=table")
	assert.Contains(t, out, `error="bad cast"`)
}

func TestMultiFansOutInOrder(t *testing.T) {
	var order []string
	a := SinkFunc(func(Diagnostic) { order = append(order, "a") })
	b := SinkFunc(func(Diagnostic) { order = append(order, "b") })

	Multi(a, b).Emit(Diagnostic{Kind: KindRepairAttempted})
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRecorderConcurrentEmit(t *testing.T) {
	rec := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Emit(Diagnostic{Kind: KindRepairAttempted})
		}()
	}
	wg.Wait()

	require.Equal(t, 50, rec.Len())
	rec.Reset()
	assert.Zero(t, rec.Len())
}

func TestRecorderCopies(t *testing.T) {
	rec := &Recorder{}
	rec.Emit(Diagnostic{Kind: KindRepairAttempted, Message: "first"})

	got := rec.Diagnostics()
	got[0].Message = "mutated"
	assert.Equal(t, "first", rec.Diagnostics()[0].Message)
	assert.Equal(t, []Kind{KindRepairAttempted}, rec.Kinds())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Emit(Diagnostic{}) })
}
