package domain

import "math"

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100

	// MaxOffset is the largest row offset the database accepts.
	MaxOffset = math.MaxInt32
)

// Page selects one window of an ordered result set. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps page and size into range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	number = min(number, MaxPageNumber(size))
	return Page{Number: number, Size: size}
}

// MaxPageNumber is the last page whose offset stays within MaxOffset.
func MaxPageNumber(size int) int {
	return MaxOffset/size + 1
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the number of rows to take.
func (p Page) Limit() int {
	return p.Size
}

// Pages returns how many pages total rows span. Empty sets still have one page.
func (p Page) Pages(total int64) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
