package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertMergeKeepsExistingFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Upsert(ctx, "profiles", "u1", Document{"name": "Riya", "points": 10}, false); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}
	if err := store.Upsert(ctx, "profiles", "u1", Document{"points": 25}, true); err != nil {
		t.Fatalf("merge upsert: %v", err)
	}

	doc, ok, err := store.Get(ctx, "profiles", "u1")
	if err != nil || !ok {
		t.Fatalf("get after merge: ok=%v err=%v", ok, err)
	}
	if doc["name"] != "Riya" {
		t.Fatalf("merge dropped untouched field: %v", doc["name"])
	}
	if doc["points"] != 25 {
		t.Fatalf("merge did not apply new value: %v", doc["points"])
	}
}

func TestUpsertReplaceDropsExistingFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Upsert(ctx, "profiles", "u1", Document{"name": "Riya", "points": 10}, false); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}
	if err := store.Upsert(ctx, "profiles", "u1", Document{"points": 25}, false); err != nil {
		t.Fatalf("replace upsert: %v", err)
	}

	doc, _, err := store.Get(ctx, "profiles", "u1")
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if _, exists := doc["name"]; exists {
		t.Fatalf("replace kept a stale field: %v", doc)
	}
}

func TestGetReturnsClone(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Upsert(ctx, "profiles", "u1", Document{"tags": []any{"a"}}, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	doc, _, err := store.Get(ctx, "profiles", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	doc["tags"].([]any)[0] = "mutated"

	fresh, _, err := store.Get(ctx, "profiles", "u1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if fresh["tags"].([]any)[0] != "a" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestRunTransactionAbortDiscardsStagedWrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunTransaction(ctx, func(tx *Tx) error {
		tx.Upsert("profiles", "u1", Document{"name": "Riya"}, false)
		return boom
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error to be wrapped, got %v", err)
	}

	_, ok, getErr := store.Get(ctx, "profiles", "u1")
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if ok {
		t.Fatal("aborted transaction leaked a staged write")
	}
}

func TestRunTransactionReadsOwnStagedWrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunTransaction(ctx, func(tx *Tx) error {
		tx.Upsert("counters", "c1", Document{"value": 1}, false)
		doc, ok := tx.Get("counters", "c1")
		if !ok {
			t.Fatal("staged write invisible to same transaction")
		}
		if doc["value"] != 1 {
			t.Fatalf("unexpected staged value: %v", doc["value"])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestRunTransactionFoldsAllStagedWrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Upsert(ctx, "counters", "c1", Document{"value": 1, "label": "seed"}, false); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	err := store.RunTransaction(ctx, func(tx *Tx) error {
		tx.Upsert("counters", "c1", Document{"value": 2}, true)
		tx.Upsert("counters", "c1", Document{"owner": "u1"}, true)

		doc, ok := tx.Get("counters", "c1")
		if !ok {
			t.Fatal("staged document invisible to same transaction")
		}
		// Both merges and the committed field must all be visible.
		if doc["value"] != 2 || doc["owner"] != "u1" || doc["label"] != "seed" {
			t.Fatalf("earlier staged write hidden from preview: %v", doc)
		}

		tx.Upsert("counters", "c1", Document{"value": 3}, false)
		doc, _ = tx.Get("counters", "c1")
		if _, exists := doc["label"]; exists {
			t.Fatalf("staged replace kept stale fields in preview: %v", doc)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	doc, _, err := store.Get(ctx, "counters", "c1")
	if err != nil {
		t.Fatalf("get after commit: %v", err)
	}
	if doc["value"] != 3 {
		t.Fatalf("commit did not apply staged writes in order: %v", doc)
	}
}

func TestSubscribeDeliversSnapshotAndChanges(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Upsert(ctx, "boards", "t1", Document{"rev": 1}, false); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	sub, err := store.Subscribe(ctx, "boards", "t1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	snapshot := <-sub.C
	if !snapshot.Exists || snapshot.Doc["rev"] != 1 {
		t.Fatalf("unexpected initial snapshot: %+v", snapshot)
	}

	if err := store.Upsert(ctx, "boards", "t1", Document{"rev": 2}, false); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	change := <-sub.C
	if !change.Exists || change.Doc["rev"] != 2 {
		t.Fatalf("unexpected change event: %+v", change)
	}

	if err := store.Delete(ctx, "boards", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tombstone := <-sub.C
	if tombstone.Exists {
		t.Fatalf("expected delete event, got %+v", tombstone)
	}
}

func TestSubscribeIgnoresOtherKeys(t *testing.T) {
	store := New()
	ctx := context.Background()

	sub, err := store.Subscribe(ctx, "boards", "t1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if err := store.Upsert(ctx, "boards", "t2", Document{"rev": 1}, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	select {
	case change := <-sub.C:
		t.Fatalf("received change for another key: %+v", change)
	default:
	}
}
