package suite

import "errors"

var (
	// ErrMissingName indicates a declaration without a case name.
	ErrMissingName = errors.New("case name required")
	// ErrMissingPipeline indicates a declaration without a pipeline.
	ErrMissingPipeline = errors.New("pipeline required")
	// ErrPartialOverride indicates a custom fixture combined with populator
	// options; the override is all-or-nothing.
	ErrPartialOverride = errors.New("custom fixture cannot be combined with NumDocs, Indexes, or Docs")
	// ErrDuplicateCase indicates two declarations sharing a name.
	ErrDuplicateCase = errors.New("duplicate case name")
)
