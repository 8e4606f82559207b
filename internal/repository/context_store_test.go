package repository

import (
	"context"
	"testing"
)

// Without Redis the store must behave as a silent no-op so the webhook can
// keep answering statelessly.
func TestContextStoreNilClient(t *testing.T) {
	s := NewContextStore(nil, 0)
	ctx := context.Background()

	d, err := s.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d != nil {
		t.Fatalf("expected nil draft, got %+v", d)
	}
	if err := s.Set(ctx, 42, &Draft{Intent: "schedule"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Clear(ctx, 42); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
