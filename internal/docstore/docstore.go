package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no document exists under the id.
var ErrNotFound = errors.New("document not found")

// Document is a JSON-shaped document as stored in a collection.
type Document map[string]any

// Store is the minimal document-database surface the service needs:
// get-by-id, merge-write, and equality queries over a collection.
type Store interface {
	// Get returns the document stored under collection/id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Merge deep-merges fields into the document under collection/id,
	// creating it when absent. Existing fields not named in fields are kept.
	Merge(ctx context.Context, collection, id string, fields Document) error
	// QueryEqual returns every document in collection whose value at
	// fieldPath equals value. Results carry no ordering guarantee.
	QueryEqual(ctx context.Context, collection string, fieldPath []string, value string) ([]Document, error)
}

// DeepMerge merges src into dst recursively: nested maps merge key-wise,
// any other value in src replaces the value in dst. dst is returned for
// convenience and may be mutated.
func DeepMerge(dst, src Document) Document {
	if dst == nil {
		dst = Document{}
	}
	for key, value := range src {
		srcMap, srcIsMap := toMap(value)
		if !srcIsMap {
			dst[key] = value
			continue
		}
		dstMap, dstIsMap := toMap(dst[key])
		if !dstIsMap {
			dstMap = Document{}
		}
		dst[key] = DeepMerge(dstMap, srcMap)
	}
	return dst
}

func toMap(v any) (Document, bool) {
	switch m := v.(type) {
	case Document:
		return m, true
	case map[string]any:
		return Document(m), true
	default:
		return nil, false
	}
}

// At walks fieldPath into nested maps and returns the value found there.
func (d Document) At(fieldPath ...string) (any, bool) {
	var current any = d
	for _, key := range fieldPath {
		m, ok := toMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// StringAt returns the string at fieldPath, or "" when absent or not a string.
func (d Document) StringAt(fieldPath ...string) string {
	v, ok := d.At(fieldPath...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// FloatAt returns the numeric value at fieldPath, or 0 when absent.
// JSON decoding yields float64 for all numbers, so that is the only
// numeric case besides documents assembled in Go code.
func (d Document) FloatAt(fieldPath ...string) float64 {
	v, ok := d.At(fieldPath...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Decode JSON-round-trips a document into a typed struct.
func Decode(doc Document, target any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// Encode JSON-round-trips a typed value into a Document, so merge writes
// always carry plain JSON shapes regardless of the source type.
func Encode(value any) (Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
