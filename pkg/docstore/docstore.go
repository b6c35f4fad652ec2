package docstore

import (
	"context"
	"errors"
	"unicode/utf8"
)

// Document is one JSON-shaped record in a collection. Every persisted
// document carries its own "id" field, equal to the store key.
type Document map[string]any

type Operator string

const (
	OpEqual        Operator = "=="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

// Filter is one (field, op, value) predicate. A query's filters are a
// conjunction: every filter must match.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Where builds a single filter predicate.
func Where(field string, op Operator, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// PrefixFilters matches string values starting with prefix, expressed as
// a range pair: field >= prefix AND field <= prefix + max code point.
func PrefixFilters(field, prefix string) []Filter {
	return []Filter{
		Where(field, OpGreaterEqual, prefix),
		Where(field, OpLessEqual, prefix+string(utf8.MaxRune)),
	}
}

// Query describes a filtered, ordered window of a collection. Offset is
// executed natively by every implementation, never by slicing a larger
// fetch, so page math stays exact.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Store is the uniform contract over named collections of documents.
// Which client library answers the calls is decided once at startup;
// business logic never branches on the concrete implementation.
type Store interface {
	// Add persists a new document under a store-assigned id. The id is
	// written into the document before the single insert, so no reader
	// can observe a record without its id.
	Add(ctx context.Context, collection string, doc Document) (string, error)

	// Set persists a document under a caller-chosen key, replacing any
	// existing document with that key.
	Set(ctx context.Context, collection, id string, doc Document) error

	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Update merges patch into the existing document. ErrNotFound if the
	// document is absent.
	Update(ctx context.Context, collection, id string, patch Document) error

	// Delete removes the document. ErrNotFound if already absent.
	Delete(ctx context.Context, collection, id string) error

	// Query returns the documents matching q, ordered and windowed.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// Count returns how many documents match the conjunction of filters.
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
