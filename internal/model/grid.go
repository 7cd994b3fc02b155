package model

// Grid dimension bounds.  Rows and columns are always clamped into this range.
const (
	MinDimension = 5
	MaxDimension = 80
)

// ClampDimension clamps n into [MinDimension, MaxDimension].
func ClampDimension(n int) int {
	if n < MinDimension {
		return MinDimension
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}

// IndexToRC converts a row-major linear index into its row and column.
func IndexToRC(index, cols int) (row, col int) {
	if cols <= 0 {
		return 0, 0
	}
	return index / cols, index % cols
}

// RCToIndex converts a row and column into a row-major linear index.
func RCToIndex(row, col, cols int) int {
	return row*cols + col
}

// InBounds reports whether index addresses a cell of a rows x cols grid.
func InBounds(index, rows, cols int) bool {
	return index >= 0 && index < rows*cols
}
