package render

import "errors"

var (
	// ErrDegenerateCamera is returned when the eye coincides with the center
	// or the view direction is parallel to the up vector.
	ErrDegenerateCamera = errors.New("degenerate camera")

	// ErrInvalidRadius is returned for non-positive or inverted orbit radius bounds.
	ErrInvalidRadius = errors.New("invalid orbit radius bounds")

	// ErrInvalidProjection is returned for a non-positive viewport or bad clip planes.
	ErrInvalidProjection = errors.New("invalid projection parameters")
)
