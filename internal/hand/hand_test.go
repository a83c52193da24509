package hand

import "testing"

func TestOpenLocksAfterTwoFreeHands(t *testing.T) {
	store := NewStore(DefaultBatchSize, nil)

	first := store.Open(10, 1)
	second := store.Open(50, 2)
	if first.Locked || second.Locked {
		t.Fatalf("expected first two hands unlocked, got %v and %v", first.Locked, second.Locked)
	}
	for i := 0; i < 5; i++ {
		h := store.Open(float64(i+1), 0.1)
		if !h.Locked {
			t.Fatalf("expected hand %d to be locked", h.ID)
		}
	}
	if store.TotalLocked() != 5 {
		t.Fatalf("expected 5 locked hands, got %d", store.TotalLocked())
	}
	if store.Len() != 7 {
		t.Fatalf("expected 7 hands, got %d", store.Len())
	}
}

func TestOpenAssignsSequentialIDs(t *testing.T) {
	store := NewStore(DefaultBatchSize, nil)
	for i := 1; i <= 3; i++ {
		if h := store.Open(10, 1); h.ID != i {
			t.Fatalf("expected id %d, got %d", i, h.ID)
		}
	}
}

func TestOpenEmitsBatchReadyOnMultiple(t *testing.T) {
	var events []Event
	store := NewStore(3, func(ev Event) { events = append(events, ev) })

	for i := 0; i < 6; i++ {
		store.Open(10, 1)
	}

	batches := 0
	opened := 0
	for _, ev := range events {
		switch ev.Kind {
		case BatchReady:
			batches++
			if ev.Total%3 != 0 {
				t.Fatalf("expected batch at multiple of 3, got total %d", ev.Total)
			}
		case Opened:
			opened++
		}
	}
	if opened != 6 {
		t.Fatalf("expected 6 opened events, got %d", opened)
	}
	if batches != 2 {
		t.Fatalf("expected 2 batch events, got %d", batches)
	}
}

func TestNewStoreDefaultsBatchSize(t *testing.T) {
	store := NewStore(0, nil)
	if store.BatchSize() != DefaultBatchSize {
		t.Fatalf("expected default batch size %d, got %d", DefaultBatchSize, store.BatchSize())
	}
}

func TestUnlockEligibleSelectsLockedHands(t *testing.T) {
	var events []Event
	store := NewStore(DefaultBatchSize, func(ev Event) {
		if ev.Kind == Unlocked {
			events = append(events, ev)
		}
	})
	store.Open(10.0, 1)
	store.Open(10.0, 1)
	store.Open(10.0, 1)

	unlocked := store.UnlockEligible(10.5)
	if len(unlocked) != 1 || unlocked[0].ID != 3 {
		t.Fatalf("expected only hand 3 unlocked, got %+v", unlocked)
	}
	if unlocked[0].Locked {
		t.Fatalf("expected returned hand to be unlocked")
	}
	if store.TotalLocked() != 0 {
		t.Fatalf("expected no locked hands, got %d", store.TotalLocked())
	}
	if len(events) != 1 || events[0].Price != 10.5 {
		t.Fatalf("expected one unlocked event at 10.5, got %+v", events)
	}
}

func TestUnlockEligibleIsIdempotent(t *testing.T) {
	store := NewStore(DefaultBatchSize, nil)
	for i := 0; i < 4; i++ {
		store.Open(10.0, 1)
	}

	if got := len(store.UnlockEligible(11)); got != 2 {
		t.Fatalf("expected 2 hands unlocked, got %d", got)
	}
	if got := len(store.UnlockEligible(11)); got != 0 {
		t.Fatalf("expected nothing on second pass, got %d", got)
	}
}

func TestUnlockEligibleBelowRiseKeepsLock(t *testing.T) {
	store := NewStore(DefaultBatchSize, nil)
	for i := 0; i < 3; i++ {
		store.Open(10.0, 1)
	}

	if got := store.UnlockEligible(10.4); len(got) != 0 {
		t.Fatalf("expected no unlocks below rise, got %+v", got)
	}
	if store.TotalLocked() != 1 {
		t.Fatalf("expected hand to stay locked, got %d locked", store.TotalLocked())
	}
}

func TestHandsReturnsCopy(t *testing.T) {
	store := NewStore(DefaultBatchSize, nil)
	for i := 0; i < 3; i++ {
		store.Open(10.0, 1)
	}

	hands := store.Hands()
	hands[2].Locked = false
	if store.TotalLocked() != 1 {
		t.Fatalf("expected store to be unaffected by caller mutation")
	}
}
