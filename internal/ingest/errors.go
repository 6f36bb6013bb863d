package ingest

import (
	"errors"
	"fmt"
)

// CatalogLoadError means the roster could not be retrieved. The run aborts
// before any row is written.
type CatalogLoadError struct {
	Err error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("load player catalog: %v", e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

// PersistenceError is a store failure other than the uniqueness case the
// upserts absorb. It aborts the run.
type PersistenceError struct {
	Op       string
	PlayerID int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s for player %d: %v", e.Op, e.PlayerID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsCatalogLoad reports whether err wraps a CatalogLoadError.
func IsCatalogLoad(err error) bool {
	var ce *CatalogLoadError
	return errors.As(err, &ce)
}

// IsPersistence reports whether err wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
