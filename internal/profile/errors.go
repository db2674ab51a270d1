package profile

import (
	"errors"
	"fmt"
)

var (
	ErrNoAnchors         = errors.New("at least one anchor point is required")
	ErrNotIncreasing     = errors.New("anchor times must be strictly increasing")
	ErrNegativeTime      = errors.New("anchor time must not be negative")
	ErrNotFinite         = errors.New("value must be a finite number")
	ErrZeroPhaseDuration = errors.New("derived phase duration is zero")
	ErrNegativePercent   = errors.New("phase percentage must not be negative")
	ErrTotalDuration     = errors.New("total duration must be positive")
)

// ConstructionError reports which profile parameter made construction fail.
type ConstructionError struct {
	Param string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid profile parameter %s: %v", e.Param, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func invalid(param string, err error) error {
	return &ConstructionError{Param: param, Err: err}
}
