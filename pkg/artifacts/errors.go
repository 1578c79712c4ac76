package artifacts

import "errors"

var (
	// ErrNotFound indicates a hash or id did not resolve to any row.
	ErrNotFound = errors.New("artifacts: not found")

	// ErrAmbiguousHash indicates a short-hash prefix matched more than one
	// row (spec.md §9 open question, resolved here by rejecting ambiguous
	// lookups rather than guessing).
	ErrAmbiguousHash = errors.New("artifacts: ambiguous hash prefix")

	// ErrCycle indicates inserting a GeneratedContent would create a cycle
	// in the source DAG (spec.md §3 invariant, §9 design note).
	ErrCycle = errors.New("artifacts: generated content source cycle")

	// ErrEmptySources indicates a GeneratedContent was constructed with no
	// sources of either kind, violating invariant I5.
	ErrEmptySources = errors.New("artifacts: generated content must have at least one source")
)
