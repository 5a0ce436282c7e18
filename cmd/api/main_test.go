package main

import (
	"context"
	"testing"
	"time"
)

// The ping loop has no deadline of its own: it keeps retrying until the
// database answers or the caller's context ends.
func TestOpenDBRetriesUntilContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	// nothing listens on this port, every ping fails
	db, err := openDB(ctx, "postgres://127.0.0.1:1/unreachable?connect_timeout=1")
	if err == nil {
		db.Close()
		t.Fatal("expected error for unreachable database")
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("returned after %v, before the context was cancelled", elapsed)
	}
}
