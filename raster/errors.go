package raster

import "errors"

// Error kinds raised by the engine. Callers discriminate with
// errors.Is; call sites wrap them with context via fmt.Errorf and %w.
var (
	// ErrShapeMismatch indicates two grids disagree in shape or
	// geometry where the operation requires them to be identical.
	ErrShapeMismatch = errors.New("grid shape or geometry mismatch")

	// ErrInvalidThreshold indicates a threshold outside the natural
	// range of the index being thresholded.
	ErrInvalidThreshold = errors.New("threshold outside index range")

	// ErrInvalidWindow indicates a filter window that is even or
	// smaller than 3.
	ErrInvalidWindow = errors.New("filter window must be an odd integer >= 3")

	// ErrDuplicateDate indicates an insert for a date the cube
	// already holds.
	ErrDuplicateDate = errors.New("duplicate acquisition date")

	// ErrEmptyCube indicates a cube operation that needs more slices
	// than the cube holds.
	ErrEmptyCube = errors.New("datacube has too few slices")

	// ErrUndefinedStatistic flags a slice with no valid cells. It is
	// reported through the stats record, never raised as a failure of
	// the whole run.
	ErrUndefinedStatistic = errors.New("no valid cells for statistic")
)
