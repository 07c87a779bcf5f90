// Package storage persists the reminder document. The document is a single
// unit: stores load it whole, callers mutate it in memory, and stores write
// it back whole. There is no field-level locking; callers serialize
// logically related mutations themselves.
package storage

import (
	"context"
	"errors"
	"fmt"

	"remindkit/internal/engine"
	"remindkit/internal/remind"
)

var (
	// ErrNotFound is returned when a referenced series does not exist, e.g.
	// it was deleted between load and save.
	ErrNotFound = errors.New("series not found")
	// ErrInvalidInput is returned when input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input parameters")
	// ErrStoreUnavailable is returned when the backend cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store reads and writes the whole reminder document.
type Store interface {
	// Load returns the full document. A missing backing file or empty
	// database yields an empty document, not an error.
	Load(ctx context.Context) (remind.Document, error)
	// Save replaces the full document.
	Save(ctx context.Context, doc remind.Document) error
	// Close releases backend resources.
	Close() error
}

// UpdateSeries loads the document, applies mutate to the series with the
// given id, and saves. If the series vanished between load and save
// (deleted concurrently), the update is rejected with ErrNotFound so the
// caller can surface a failure instead of silently dropping the edit.
func UpdateSeries(ctx context.Context, st Store, id string, mutate func(*remind.Series) error) error {
	doc, err := st.Load(ctx)
	if err != nil {
		return err
	}
	s, ok := doc[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := mutate(s); err != nil {
		return err
	}
	return st.Save(ctx, doc)
}

// ApplySplit persists a staged split as one document write. Both halves
// land together or not at all; a partial write would corrupt the series
// history. The original series must still exist, otherwise the split is
// rejected with ErrNotFound.
func ApplySplit(ctx context.Context, st Store, res *engine.SplitResult) error {
	if res == nil || res.Original == nil {
		return fmt.Errorf("%w: nil split result", ErrInvalidInput)
	}
	doc, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc[res.Original.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, res.Original.ID)
	}
	doc[res.Original.ID] = res.Original
	if res.New != nil {
		doc[res.New.ID] = res.New
	}
	return st.Save(ctx, doc)
}

// DeleteSeries removes a series record together with all of its override
// tables (they live inside the record).
func DeleteSeries(ctx context.Context, st Store, id string) error {
	doc, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(doc, id)
	return st.Save(ctx, doc)
}
