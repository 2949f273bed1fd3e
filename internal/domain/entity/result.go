package entity

// ProcessingResult accumulates per-request error messages and an overall
// validity flag returned to the caller. It is never persisted.
//
// AddError invalidates the result; Record appends a message without touching
// validity. The email path uses Record for partial recipient failures, which
// leave the result valid while still carrying the message.
type ProcessingResult struct {
	Valid         bool     `json:"is_valid"`
	ErrorMessages []string `json:"error_messages"`
}

// NewProcessingResult returns an empty, valid result.
func NewProcessingResult() *ProcessingResult {
	return &ProcessingResult{Valid: true, ErrorMessages: []string{}}
}

// AddError records a message and marks the result invalid.
func (r *ProcessingResult) AddError(msg string) {
	r.ErrorMessages = append(r.ErrorMessages, msg)
	r.Valid = false
}

// Record appends a message without changing validity.
func (r *ProcessingResult) Record(msg string) {
	r.ErrorMessages = append(r.ErrorMessages, msg)
}

// Merge copies another result's messages into this one and propagates
// invalidity. Messages from a still-valid result do not invalidate.
func (r *ProcessingResult) Merge(other *ProcessingResult) {
	r.ErrorMessages = append(r.ErrorMessages, other.ErrorMessages...)
	if !other.Valid {
		r.Valid = false
	}
}

// HasErrors reports whether any message has been recorded.
func (r *ProcessingResult) HasErrors() bool {
	return len(r.ErrorMessages) > 0
}
