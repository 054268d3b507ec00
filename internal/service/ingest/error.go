package ingest

import (
	"fmt"
	"strings"
)

// Failure describes one failed source or chunk. ChunkId is empty for
// source-level failures.
type Failure struct {
	SourceId string
	ChunkId  string
	Err      error
}

func (f Failure) String() string {
	if len(f.ChunkId) > 0 {
		return fmt.Sprintf("source %s chunk %s: %v", f.SourceId, f.ChunkId, f.Err)
	}
	return fmt.Sprintf("source %s: %v", f.SourceId, f.Err)
}

// Error aggregates per-source and per-chunk ingestion failures so the caller
// can report each one individually.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("ingestion failed for %d item(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
