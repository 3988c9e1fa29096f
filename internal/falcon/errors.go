package falcon

import (
	"errors"
	"fmt"

	"modofoco/internal/perception"
)

// ExecutionError reports the step of an intent that failed. Partial is set
// when an earlier write of the same command had already been stored; the
// store is then left with that write and nothing undoes it.
type ExecutionError struct {
	Intent  perception.Intent
	Step    string
	Partial bool
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%s: %s (partial write): %v", e.Intent, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Intent, e.Step, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsPartialWrite reports whether err left some writes of its command in
// the store.
func IsPartialWrite(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee) && ee.Partial
}

func stepError(intent perception.Intent, step string, partial bool, err error) error {
	return &ExecutionError{Intent: intent, Step: step, Partial: partial, Err: err}
}
