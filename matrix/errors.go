package matrix

import "errors"

var (
	// ErrInvalidParams is returned for dimension triples violating 0 < k < n, m > 0.
	ErrInvalidParams = errors.New("matrix: invalid parameters")

	// ErrOutOfRange is returned when a row or column index is outside the declared
	// dimensions. It is raised before any mutation.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrLengthMismatch is returned when a row, column or grid does not have the
	// length the parameters require.
	ErrLengthMismatch = errors.New("matrix: length mismatch")
)
