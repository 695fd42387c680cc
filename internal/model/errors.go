package model

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for malformed engine input. ValidationError unwraps to one of these.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrDuplicateID     = errors.New("duplicate item id")
)

// ValidationError describes why an item or a settings value was rejected.
type ValidationError struct {
	ItemID string // Empty for settings errors
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("%v: item %q: %s %s", e.Err, e.ItemID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate rejects geometry the solver cannot work with: empty IDs,
// non-finite coordinates and negative or non-finite sizes.
func (it Item) Validate() error {
	bad := func(field, reason string) error {
		return &ValidationError{ItemID: it.ID, Field: field, Reason: reason, Err: ErrInvalidGeometry}
	}
	if it.ID == "" {
		return bad("id", "must not be empty")
	}
	if !finite(it.X) {
		return bad("x", "must be finite")
	}
	if !finite(it.Y) {
		return bad("y", "must be finite")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"width", it.Width}, {"height", it.Height}, {"scale", it.Scale}} {
		if !finite(f.v) {
			return bad(f.name, "must be finite")
		}
		if f.v < 0 {
			return bad(f.name, "must not be negative")
		}
	}
	return nil
}

// ValidateItems validates every item and rejects duplicate IDs.
func ValidateItems(items []Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if seen[it.ID] {
			return &ValidationError{ItemID: it.ID, Field: "id", Reason: "appears more than once", Err: ErrDuplicateID}
		}
		seen[it.ID] = true
	}
	return nil
}

// Validate checks that the tuning values guarantee termination.
// A zero or negative step could never finish a pull walk.
func (s Settings) Validate() error {
	bad := func(field, reason string) error {
		return &ValidationError{Field: field, Reason: reason, Err: ErrInvalidSettings}
	}
	switch {
	case !finite(s.Margin) || s.Margin < 0:
		return bad("margin", "must be a finite, non-negative number")
	case !finite(s.ClusterDistance) || s.ClusterDistance < s.Margin:
		return bad("cluster_distance", "must be finite and at least the margin")
	case !finite(s.StepSize) || s.StepSize <= 0:
		return bad("step_size", "must be a finite, positive number")
	case s.PushIterations <= 0:
		return bad("push_iterations", "must be positive")
	case s.PullSteps <= 0:
		return bad("pull_steps", "must be positive")
	case s.PullLoops < 1 || s.PullLoops > MaxPullLoops:
		return bad("pull_loops", fmt.Sprintf("must be between 1 and %d", MaxPullLoops))
	case !finite(s.SpacedTolerance) || s.SpacedTolerance < 0:
		return bad("spaced_tolerance", "must be a finite, non-negative number")
	}
	return nil
}
