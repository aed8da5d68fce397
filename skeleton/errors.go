package skeleton

import (
	"errors"
	"fmt"
)

var (
	// ErrReferenceOutOfRange is wrapped by ReferenceError when a bone index is not in [0,N).
	ErrReferenceOutOfRange = errors.New("bone reference out of range")
	// ErrCyclicReference is returned when a parent or inherit chain loops.
	ErrCyclicReference = errors.New("cyclic bone reference")
)

// ReferenceError describes an unresolvable cross reference in a bone table.
type ReferenceError struct {
	Bone  int
	Field string
	Index int
	Count int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("bone %d: %s index %d not in [0,%d): %v", e.Bone, e.Field, e.Index, e.Count, ErrReferenceOutOfRange)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceOutOfRange
}
