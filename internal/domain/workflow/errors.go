package workflow

import "errors"

var (
	// ErrEmptyBatch is returned when a batch call carries no requests.
	ErrEmptyBatch = errors.New("status update batch is empty")

	// ErrUnknownCategory is returned when the reference-value category for a
	// batch cannot be resolved. The whole batch fails fast before any
	// request is processed.
	ErrUnknownCategory = errors.New("unknown reference value category")

	// ErrUnknownStatusCode is returned when the target status code does not
	// resolve to a reference value within the batch's category.
	ErrUnknownStatusCode = errors.New("target status code not found in category")
)
