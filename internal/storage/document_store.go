package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrWatchUnsupported = errors.New("watch not supported by this deployment")
)

// Document is a schemaless record. Nested documents are map[string]interface{},
// timestamps are time.Time.
type Document = map[string]interface{}

// Record is a stored document with its id
type Record struct {
	ID   string
	Data Document
}

// FilterOp is a comparison operator
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
)

// Filter restricts a query to documents where Field Op Value holds
type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// Eq is shorthand for an equality filter
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Query selects documents of a collection
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// DocumentStore persists registrations and logs
type DocumentStore interface {
	// Create stores data under a new id and returns it
	Create(ctx context.Context, collection string, data Document) (string, error)
	// CreateMany appends documents with generated ids, unordered
	CreateMany(ctx context.Context, collection string, docs []Document) error
	// Get returns ErrDocumentNotFound when id does not exist
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update sets the patch keys. Dotted keys address nested fields.
	Update(ctx context.Context, collection, id string, patch Document) error
	Query(ctx context.Context, collection string, q Query) ([]Record, error)
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
	// Watch delivers the query result now and again after every change to the
	// collection, until stop is called or ctx ends.
	Watch(ctx context.Context, collection string, q Query, onChange func([]Record)) (stop func(), err error)
}

// compareValues orders two stored values of the same kind. ok is false for
// values that cannot be ordered against each other.
func compareValues(a, b interface{}) (cmp int, ok bool) {
	switch av := a.(type) {
	case time.Time:
		bv, isTime := b.(time.Time)
		if !isTime {
			return 0, false
		}
		return av.Compare(bv), true
	case string:
		bv, isString := b.(string)
		if !isString {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, isBool := b.(bool)
		if !isBool {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	}

	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if !aNum || !bNum {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// matches reports whether doc satisfies every filter
func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		value, exists := lookupPath(doc, f.Field)
		if !exists {
			return false
		}
		cmp, ok := compareValues(value, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// lookupPath resolves a dotted path inside nested documents
func lookupPath(doc Document, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = doc
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath assigns value at a dotted path, creating intermediate documents
func setPath(doc Document, path string, value interface{}) error {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, exists := current[part]
		if !exists || next == nil {
			child := Document{}
			current[part] = child
			current = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot set %q: %q is not a document", path, part)
		}
		current = child
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// deepCopy copies nested documents and slices so callers never share state with the store
func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return val
	}
}

func copyDocument(doc Document) Document {
	if doc == nil {
		return Document{}
	}
	return deepCopy(doc).(map[string]interface{})
}
