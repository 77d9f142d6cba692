package domain

import (
	"sort"
	"unicode/utf8"

	m "gooze.dev/pkg/mutest/internal/model"
)

// OffsetIndex answers position and enclosing-function queries for one source
// with binary searches over data built once up front.
type OffsetIndex struct {
	src        []byte
	lineStarts []int
	segments   []segment
}

// segment is a disjoint stretch of the source owned by its innermost function.
type segment struct {
	start int
	end   int
	name  string
}

// NewOffsetIndex indexes line starts of src and flattens possibly nested
// function spans into disjoint segments.
func NewOffsetIndex(src []byte, functions []m.FunctionSpan) *OffsetIndex {
	lineStarts := []int{0}

	for i, c := range src {
		if c == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return &OffsetIndex{src: src, lineStarts: lineStarts, segments: flatten(functions)}
}

func flatten(functions []m.FunctionSpan) []segment {
	sorted := make([]m.FunctionSpan, 0, len(functions))

	for _, fn := range functions {
		if fn.End > fn.Start && fn.Name != "" {
			sorted = append(sorted, fn)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}

		return sorted[i].End > sorted[j].End
	})

	var (
		segments []segment
		stack    []m.FunctionSpan
		cursor   int
	)

	emit := func(upto int) {
		if len(stack) > 0 && upto > cursor {
			segments = append(segments, segment{start: cursor, end: upto, name: stack[len(stack)-1].Name})
		}

		cursor = max(cursor, upto)
	}

	for _, fn := range sorted {
		for len(stack) > 0 && stack[len(stack)-1].End <= fn.Start {
			emit(stack[len(stack)-1].End)
			stack = stack[:len(stack)-1]
		}

		emit(fn.Start)

		// Partially overlapping spans are clipped to their parent.
		if len(stack) > 0 {
			fn.End = min(fn.End, stack[len(stack)-1].End)
		}

		stack = append(stack, fn)
	}

	for len(stack) > 0 {
		emit(stack[len(stack)-1].End)
		stack = stack[:len(stack)-1]
	}

	return segments
}

// Position returns the 1-based line and column of offset. Columns count runes.
func (x *OffsetIndex) Position(offset int) (int, int) {
	offset = min(max(offset, 0), len(x.src))
	line := sort.Search(len(x.lineStarts), func(i int) bool { return x.lineStarts[i] > offset })
	start := x.lineStarts[line-1]

	return line, utf8.RuneCount(x.src[start:offset]) + 1
}

// EnclosingFunction returns the innermost function containing offset.
func (x *OffsetIndex) EnclosingFunction(offset int) (string, bool) {
	i := sort.Search(len(x.segments), func(i int) bool { return x.segments[i].end > offset })
	if i < len(x.segments) && x.segments[i].start <= offset {
		return x.segments[i].name, true
	}

	return m.UnknownFunction, false
}

// Lines returns the number of lines in the source.
func (x *OffsetIndex) Lines() int {
	return len(x.lineStarts)
}

// LineBounds returns the byte range of a 1-based line without its newline.
func (x *OffsetIndex) LineBounds(line int) (int, int) {
	if line < 1 || line > len(x.lineStarts) {
		return 0, 0
	}

	start := x.lineStarts[line-1]
	end := len(x.src)

	if line < len(x.lineStarts) {
		end = x.lineStarts[line] - 1
	}

	return start, end
}

// Window returns the byte range of the full lines covering span.
func (x *OffsetIndex) Window(span m.Span) (int, int) {
	first, _ := x.Position(span.Offset)
	last, _ := x.Position(max(span.End()-1, span.Offset))
	start, _ := x.LineBounds(first)
	_, end := x.LineBounds(last)

	return start, end
}
