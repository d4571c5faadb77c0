package mscx

import "errors"

var (
	// ErrMissingAttribute marks a required attribute that was absent.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrBadFraction marks a fraction that was present but unusable,
	// such as one with a non-positive denominator.
	ErrBadFraction = errors.New("bad fraction")

	// ErrNoRootElement marks input with no usable root element.
	ErrNoRootElement = errors.New("no root element")
)
