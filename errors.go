package svg

import "errors"

var (
	// ErrNotSVG is returned when the document root is not an svg element.
	ErrNotSVG = errors.New("document root is not an svg element")

	// ErrInvalidDimensions is returned for width, height or viewBox values
	// that cannot be converted to user units.
	ErrInvalidDimensions = errors.New("invalid document dimensions")

	// ErrMalformedGeometry is returned for geometry attributes, path data
	// or transforms that cannot be parsed.
	ErrMalformedGeometry = errors.New("malformed geometry")
)
