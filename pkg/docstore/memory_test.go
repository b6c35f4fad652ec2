package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMemoryStoreAddAssignsIDInsideDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Add(ctx, "bookings", Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}

	doc, err := store.Get(ctx, "bookings", id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if doc["id"] != id {
		t.Fatalf("document id field %v does not match key %s", doc["id"], id)
	}
	if doc["name"] != "Ada" {
		t.Fatalf("unexpected name: %v", doc["name"])
	}
}

func TestMemoryStoreGetMissingReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "bookings", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Add(ctx, "bookings", Document{"name": "Ada", "status": "pending"})

	if err := store.Update(ctx, "bookings", id, Document{"status": "confirmed"}); err != nil {
		t.Fatalf("update error: %v", err)
	}

	doc, _ := store.Get(ctx, "bookings", id)
	if doc["status"] != "confirmed" {
		t.Fatalf("status not updated: %v", doc["status"])
	}
	if doc["name"] != "Ada" {
		t.Fatalf("untouched field lost: %v", doc["name"])
	}

	if err := store.Update(ctx, "bookings", "missing", Document{"status": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing doc, got %v", err)
	}
}

func TestMemoryStoreDeleteTwiceReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Add(ctx, "bookings", Document{"name": "Ada"})

	if err := store.Delete(ctx, "bookings", id); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	if err := store.Delete(ctx, "bookings", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreSetUsesCallerKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "admins", "boss@limo.test", Document{"role": "admin"}); err != nil {
		t.Fatalf("set error: %v", err)
	}

	doc, err := store.Get(ctx, "admins", "boss@limo.test")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if doc["id"] != "boss@limo.test" {
		t.Fatalf("unexpected key: %v", doc["id"])
	}
}

func TestMemoryStoreQueryFiltersAndWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		status := "pending"
		if i%2 == 0 {
			status = "confirmed"
		}
		_, err := store.Add(ctx, "bookings", Document{
			"status":    status,
			"createdAt": fmt.Sprintf("2026-08-0%dT00:00:00.000Z", i%9+1),
		})
		if err != nil {
			t.Fatalf("add error: %v", err)
		}
	}

	docs, err := store.Query(ctx, "bookings", Query{
		Filters: []Filter{Where("status", OpEqual, "pending")},
	})
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("expected 5 pending docs, got %d", len(docs))
	}

	// Offset past the end yields nothing.
	docs, err = store.Query(ctx, "bookings", Query{Offset: 100})
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty window, got %d docs", len(docs))
	}

	// Limit + offset walk the collection without overlap.
	first, _ := store.Query(ctx, "bookings", Query{OrderBy: "createdAt", Limit: 6})
	second, _ := store.Query(ctx, "bookings", Query{OrderBy: "createdAt", Limit: 6, Offset: 6})
	if len(first) != 6 || len(second) != 4 {
		t.Fatalf("unexpected window sizes: %d, %d", len(first), len(second))
	}
}

func TestMemoryStoreQueryOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, ts := range []string{"2026-08-02T00:00:00.000Z", "2026-08-01T00:00:00.000Z", "2026-08-03T00:00:00.000Z"} {
		store.Add(ctx, "bookings", Document{"createdAt": ts})
	}

	docs, err := store.Query(ctx, "bookings", Query{OrderBy: "createdAt", Descending: true})
	if err != nil {
		t.Fatalf("query error: %v", err)
	}

	want := []string{"2026-08-03T00:00:00.000Z", "2026-08-02T00:00:00.000Z", "2026-08-01T00:00:00.000Z"}
	for i, doc := range docs {
		if doc["createdAt"] != want[i] {
			t.Fatalf("position %d: got %v want %s", i, doc["createdAt"], want[i])
		}
	}
}

func TestMemoryStorePrefixFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"Alice", "Alicia", "Bob", "alice"} {
		store.Add(ctx, "bookings", Document{"name": name})
	}

	docs, err := store.Query(ctx, "bookings", Query{Filters: PrefixFilters("name", "Ali")})
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 prefix matches, got %d", len(docs))
	}
}

func TestMemoryStoreCount(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		status := "pending"
		if i < 3 {
			status = "completed"
		}
		store.Add(ctx, "bookings", Document{"status": status})
	}

	total, err := store.Count(ctx, "bookings", nil)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected total 7, got %d", total)
	}

	completed, err := store.Count(ctx, "bookings", []Filter{Where("status", OpEqual, "completed")})
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if completed != 3 {
		t.Fatalf("expected 3 completed, got %d", completed)
	}
}

func TestMemoryStoreReadsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Add(ctx, "bookings", Document{"name": "Ada", "responses": []any{}})

	doc, _ := store.Get(ctx, "bookings", id)
	doc["name"] = "mutated"
	doc["responses"] = append(doc["responses"].([]any), "x")

	fresh, _ := store.Get(ctx, "bookings", id)
	if fresh["name"] != "Ada" {
		t.Fatalf("stored document mutated through a read copy: %v", fresh["name"])
	}
	if len(fresh["responses"].([]any)) != 0 {
		t.Fatal("stored responses mutated through a read copy")
	}
}
