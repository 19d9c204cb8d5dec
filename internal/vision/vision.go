package vision

import (
	"context"
	"fmt"
)

// Describer turns one or more encoded still images into a single free-text
// description. It is a pure request/response boundary; callers decide what
// to do with a failed call.
type Describer interface {
	Describe(ctx context.Context, images [][]byte, instruction string) (string, error)
}

// UnavailableError wraps a failed description call. The pipeline treats it
// as a skip for the frame rather than aborting the whole asset.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("description unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
