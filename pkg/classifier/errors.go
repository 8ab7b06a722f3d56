package classifier

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the completion endpoint answers
// with no usable content.
var ErrEmptyResponse = errors.New("completion returned no content")

// UpstreamError wraps transport and HTTP failures from the completion
// endpoint. These are transient from the orchestrator's point of view
// and count against the item's retry budget.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream completion error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
