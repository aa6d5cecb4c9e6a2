package store

import (
	"context"
	"testing"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
)

func TestRecorderFlushesInBatches(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, &Session{Provider: "random"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	rec := NewRecorder(store, id, 4)
	p := decision.NewRecorder(
		decision.NewRandom(engine.NewMulberry32Source(5)),
		decision.WithHook(rec.Record),
	)
	for i := 0; i < 10; i++ {
		if _, err := p.Number(1, 6, nil, nil); err != nil {
			t.Fatalf("Number: %v", err)
		}
	}
	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got, err := store.Transcript(ctx, id)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	want := p.Transcript()
	if len(got) != len(want) {
		t.Fatalf("stored %d decisions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Seq != want[i].Seq || got[i].Number != want[i].Number {
			t.Errorf("decision %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRecorderFlushReportsErrors(t *testing.T) {
	store := testStore(t)

	// No such session: the foreign key rejects every batch.
	rec := NewRecorder(store, "missing", 2)
	for i := 1; i <= 4; i++ {
		rec.Record(decision.Decision{Seq: i, Op: decision.OpCoinFlip})
	}
	if err := rec.Flush(); err == nil {
		t.Fatal("expected Flush to report the failed batches")
	}
	if err := rec.Flush(); err != nil {
		t.Errorf("second Flush = %v, want nil after reset", err)
	}
}
