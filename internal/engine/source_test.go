package engine

import (
	"testing"
)

func TestSeededSourceReproducible(t *testing.T) {
	seeds := Seeds{Server: "server-seed", Client: "client-seed"}
	a := NewSeededSource(seeds, 3)
	b := NewSeededSource(seeds, 3)

	for i := 0; i < 200; i++ {
		if x, y := a.Intn(6), b.Intn(6); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestSeededSourceRestore(t *testing.T) {
	seeds := Seeds{Server: "server-seed", Client: "client-seed"}
	src := NewSeededSource(seeds, 9)
	for i := 0; i < 11; i++ {
		src.Intn(30)
	}

	resumed := RestoreSeededSource(seeds, 9, src.Cursor())
	for i := 0; i < 50; i++ {
		if x, y := src.Intn(30), resumed.Intn(30); x != y {
			t.Fatalf("draw %d after restore differs: %d != %d", i, x, y)
		}
	}
	if src.Cursor() != resumed.Cursor() {
		t.Errorf("cursor %d != %d", src.Cursor(), resumed.Cursor())
	}
}

func TestSourcesStayInRange(t *testing.T) {
	sources := map[string]Source{
		"seeded":   NewSeededSource(Seeds{Server: "s", Client: "c"}, 1),
		"mulberry": NewMulberry32Source(12345),
		"entropy":  NewEntropySource(),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			seen := make(map[int]bool)
			for i := 0; i < 5000; i++ {
				v := src.Intn(7)
				if v < 0 || v >= 7 {
					t.Fatalf("Intn(7) = %d", v)
				}
				seen[v] = true
			}
			if len(seen) != 7 {
				t.Errorf("saw %d distinct values, want 7", len(seen))
			}
		})
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for Intn(0)")
		}
	}()
	NewMulberry32Source(1).Intn(0)
}

func TestMulberry32KnownSequence(t *testing.T) {
	a := NewMulberry32Source(42)
	b := NewMulberry32Source(42)
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			t.Fatal("mulberry32 is not deterministic")
		}
	}
}

func TestHashSeed(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashSeed("abc"); got != want {
		t.Errorf("HashSeed(abc) = %s, want %s", got, want)
	}
}
