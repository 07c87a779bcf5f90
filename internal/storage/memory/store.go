// Package memory provides an in-memory store, primarily for tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"remindkit/internal/remind"
)

// Store implements storage.Store with an in-memory document.
type Store struct {
	mu  sync.RWMutex
	doc remind.Document
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{doc: make(remind.Document)}
}

// Load returns a deep copy of the document, so callers can mutate it freely
// before saving.
func (s *Store) Load(_ context.Context) (remind.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocument(s.doc)
}

// Save replaces the document with a deep copy of doc.
func (s *Store) Save(_ context.Context, doc remind.Document) error {
	copied, err := cloneDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = copied
	return nil
}

func (s *Store) Close() error {
	return nil
}

func cloneDocument(doc remind.Document) (remind.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("memory store: marshal document: %w", err)
	}
	out := make(remind.Document)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("memory store: unmarshal document: %w", err)
	}
	return out, nil
}
