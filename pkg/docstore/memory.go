package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the degraded/offline implementation: deterministic,
// non-persistent, map-backed. It is only ever selected explicitly (local
// development without store credentials, and tests); it is never spliced
// into a real implementation at runtime.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

func (s *MemoryStore) collection(name string) map[string]Document {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]Document)
		s.collections[name] = coll
	}
	return coll
}

func (s *MemoryStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneDocument(doc)
	stored["id"] = id
	s.collection(collection)[id] = stored

	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneDocument(doc)
	stored["id"] = id
	s.collection(collection)[id] = stored

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collection(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneDocument(doc), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collection(collection)[id]
	if !ok {
		return ErrNotFound
	}

	for field, value := range patch {
		if field == "id" {
			continue
		}
		doc[field] = cloneValue(value)
	}

	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)

	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Document
	for _, doc := range s.collection(collection) {
		ok, err := matches(doc, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, cloneDocument(doc))
		}
	}

	if q.OrderBy != "" {
		field := q.OrderBy
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][field], matched[j][field])
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return matched, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, doc := range s.collection(collection) {
		ok, err := matches(doc, filters)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}

	return count, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func matches(doc Document, filters []Filter) (bool, error) {
	for _, f := range filters {
		value, ok := doc[f.Field]
		if !ok {
			return false, nil
		}

		cmp := compareValues(value, f.Value)

		switch f.Op {
		case OpEqual:
			if cmp != 0 {
				return false, nil
			}
		case OpGreater:
			if cmp <= 0 {
				return false, nil
			}
		case OpGreaterEqual:
			if cmp < 0 {
				return false, nil
			}
		case OpLess:
			if cmp >= 0 {
				return false, nil
			}
		case OpLessEqual:
			if cmp > 0 {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported operator %q", f.Op)
		}
	}

	return true, nil
}

// compareValues orders strings lexicographically and numbers numerically.
// Mixed or unknown types compare by their string form.
func compareValues(a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for field, value := range doc {
		out[field] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return cloneDocument(v)
	case map[string]any:
		return map[string]any(cloneDocument(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
