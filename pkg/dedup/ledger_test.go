package dedup

import (
	"fmt"
	"sync"
	"testing"
)

func TestLedger_SeenOrRecord(t *testing.T) {
	l := NewLedger(3)

	if l.SeenOrRecord("a") {
		t.Error("dedup:ledger_test - first record of a reported as seen")
	}
	if !l.SeenOrRecord("a") {
		t.Error("dedup:ledger_test - second record of a not reported as seen")
	}
	if l.Len() != 1 {
		t.Errorf("dedup:ledger_test - Len = %d, want 1", l.Len())
	}
}

func TestLedger_EvictsOldest(t *testing.T) {
	l := NewLedger(3)

	for _, ref := range []string{"a", "b", "c"} {
		if l.SeenOrRecord(ref) {
			t.Fatalf("dedup:ledger_test - %q unexpectedly seen", ref)
		}
	}

	// Fourth distinct ref evicts "a".
	if l.SeenOrRecord("d") {
		t.Fatal("dedup:ledger_test - d unexpectedly seen")
	}
	if l.Len() != 3 {
		t.Fatalf("dedup:ledger_test - Len = %d, want 3", l.Len())
	}
	if l.SeenOrRecord("a") {
		t.Error("dedup:ledger_test - a should have been evicted")
	}
	if !l.SeenOrRecord("b") {
		t.Error("dedup:ledger_test - b should still be recorded after a was re-recorded")
	}
}

func TestLedger_DefaultCapacity(t *testing.T) {
	l := NewLedger(0)

	for i := 0; i < DefaultCapacity; i++ {
		l.SeenOrRecord(fmt.Sprintf("ref-%d", i))
	}
	if l.Len() != DefaultCapacity {
		t.Fatalf("dedup:ledger_test - Len = %d, want %d", l.Len(), DefaultCapacity)
	}

	l.SeenOrRecord("one-more")
	if l.Len() != DefaultCapacity {
		t.Errorf("dedup:ledger_test - Len = %d after overflow, want %d", l.Len(), DefaultCapacity)
	}
	if l.SeenOrRecord("ref-0") {
		t.Error("dedup:ledger_test - oldest ref should have been evicted")
	}
}

func TestLedger_ConcurrentSameRef(t *testing.T) {
	// Two envelopes with the same ref may arrive on both channels at once;
	// exactly one of the concurrent checks must win.
	l := NewLedger(25)

	const goroutines = 32
	var wg sync.WaitGroup
	results := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.SeenOrRecord("abc123")
		}()
	}
	wg.Wait()
	close(results)

	notSeen := 0
	for seen := range results {
		if !seen {
			notSeen++
		}
	}
	if notSeen != 1 {
		t.Errorf("dedup:ledger_test - %d goroutines observed not-seen, want exactly 1", notSeen)
	}
}
