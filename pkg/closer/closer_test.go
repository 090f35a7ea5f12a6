package closer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(0)

	var order []string
	for _, name := range []string{"db", "cache", "server"} {
		c.Add(func(_ context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"server", "cache", "db"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("close order must be LIFO: got %v", order)
		}
	}
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add(func(_ context.Context) error { return nil })
	c.Add(func(_ context.Context) error { return errors.New("kafka writer stuck") })

	err := c.Close(context.Background())
	if err == nil || !strings.Contains(err.Error(), "kafka writer stuck") {
		t.Fatalf("errors of individual funcs must surface: %v", err)
	}
}

func TestClose_ForcedPhaseOnExpiredContext(t *testing.T) {
	c := NewCloser(time.Second)

	c.Add(func(_ context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return errors.New("slow resource")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Close(ctx)
	if err == nil || !strings.Contains(err.Error(), "shutdown interrupted") {
		t.Fatalf("expired context must report interruption: %v", err)
	}
	if !strings.Contains(err.Error(), "[FORCED]") {
		t.Fatalf("remaining funcs must still run in the forced phase: %v", err)
	}
}

func TestClose_SecondCallIsNoop(t *testing.T) {
	c := NewCloser(0)

	calls := 0
	c.Add(func(_ context.Context) error {
		calls++
		return nil
	})

	_ = c.Close(context.Background())
	_ = c.Close(context.Background())

	if calls != 1 {
		t.Fatalf("funcs must run exactly once, got %d calls", calls)
	}
}
