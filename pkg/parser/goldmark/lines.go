package goldmark

import "sort"

// lineIndex maps byte offsets in the parsed body to 0-based line numbers.
type lineIndex struct {
	// starts holds the byte offset of the first byte of each line.
	starts []int
}

// newLineIndex builds the index for the given content.
func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lineOf returns the 0-based line containing the byte offset. Offsets past
// the end of content map to the last line.
func (ix *lineIndex) lineOf(offset int) int {
	if offset < 0 {
		return 0
	}

	// First line start greater than offset; the line is the one before it.
	idx := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	return idx - 1
}
