package pixel

import "errors"

var (
	// ErrInvalidSize indicates a grid dimension below 1 or above MaxDimension.
	ErrInvalidSize = errors.New("pixel: invalid grid size")

	// ErrInvalidColor indicates a color string that could not be parsed.
	ErrInvalidColor = errors.New("pixel: invalid color")

	// ErrUnknownPalette indicates a palette name with no registered gradient.
	ErrUnknownPalette = errors.New("pixel: unknown palette")
)
