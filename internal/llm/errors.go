package llm

import (
	"errors"
	"fmt"
)

// ErrNoJSONObject means the model response contained no balanced JSON object.
// Treated by callers as "no match for this document", never as a run failure.
var ErrNoJSONObject = errors.New("no JSON object found in model response")

// RepairFailedError means the object was located but stayed unparseable after
// the repair pass.
type RepairFailedError struct {
	Cause error
}

func (e *RepairFailedError) Error() string {
	return fmt.Sprintf("JSON repair failed: %v", e.Cause)
}

func (e *RepairFailedError) Unwrap() error {
	return e.Cause
}
