package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptySource is returned when the raw source material is empty.
	ErrEmptySource = errors.New("source material cannot be empty")

	// ErrInvalidConfig is returned when the extractor configuration is
	// incomplete.
	ErrInvalidConfig = errors.New("invalid extractor configuration")

	// ErrInvalidResponse is returned when the API response cannot be used.
	ErrInvalidResponse = errors.New("invalid extraction response")

	// ErrContentBlocked is returned when the API refuses the source
	// material on safety grounds.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrTransientFailure is returned when the API keeps failing past the
	// retry budget.
	ErrTransientFailure = errors.New("transient extraction failure")
)
