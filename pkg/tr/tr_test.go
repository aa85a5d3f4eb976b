package tr

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
)

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	if !errors.Is(err, e.ErrTransactionNotFound) {
		t.Fatalf("TxFromCtx() error = %v, want %v", err, e.ErrTransactionNotFound)
	}
}

func TestExecutorFromCtx_FallsBackWithoutTx(t *testing.T) {
	if got := ExecutorFromCtx(context.Background(), nil); got != nil {
		t.Fatalf("ExecutorFromCtx() = %v, want fallback nil", got)
	}
}

func TestPassthrough_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	calls := 0

	err := Passthrough{}.WithinTx(context.Background(), func(ctx context.Context) error {
		calls++
		return want
	})

	if !errors.Is(err, want) {
		t.Fatalf("WithinTx() error = %v, want %v", err, want)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}
