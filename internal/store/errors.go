package store

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptStore = errors.New("store: corrupt data")
	ErrClosed       = errors.New("store: closed")
)

// CorruptStoreError describes persisted data that could not be parsed.
// Loading aborts for the affected collection; no record is skipped.
type CorruptStoreError struct {
	Collection string // "suggestions" or "questions"
	Path       string
	Line       int // 1-based; 0 when not line oriented
	Err        error
}

func (e *CorruptStoreError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("store: corrupt %s data in %s at line %d: %v", e.Collection, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("store: corrupt %s data in %s: %v", e.Collection, e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }
