package model

import "io"

// Normalizer converts the captured output of one agent run into a
// NormalizedResult. Implementations never fail on malformed content; the
// returned error is reserved for faults reading r.
type Normalizer interface {
	// Name returns the provider name the normalizer is registered under.
	Name() string

	// Normalize consumes r to EOF and returns the canonical record.
	Normalize(r io.Reader) (NormalizedResult, error)
}
