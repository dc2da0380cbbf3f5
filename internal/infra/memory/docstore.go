package memory

import (
	"context"
	"encoding/json"
	"sync"

	"finergy-service/internal/docstore"
)

// Store is an in-memory docstore.Store used when no Postgres URL is
// configured and throughout the test suite.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document
}

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]docstore.Document)}
}

func (s *Store) Get(_ context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) Merge(_ context.Context, collection, id string, fields docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]docstore.Document)
		s.collections[collection] = docs
	}
	docs[id] = docstore.DeepMerge(docs[id], clone(fields))
	return nil
}

func (s *Store) QueryEqual(_ context.Context, collection string, fieldPath []string, value string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []docstore.Document
	for _, doc := range s.collections[collection] {
		if doc.StringAt(fieldPath...) == value {
			results = append(results, clone(doc))
		}
	}
	return results, nil
}

// clone round-trips through JSON so callers never alias stored maps and
// values carry the same shapes a real document store would return.
func clone(doc docstore.Document) docstore.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		return docstore.Document{}
	}
	var out docstore.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return docstore.Document{}
	}
	return out
}
