package scan

import "sort"

// LineRecord is the raw, content-independent geometry of one line: where it
// starts, how long it is, and how much leading whitespace it carries.
// Everything classification-related (heading, list, code block…) lives on
// LineInfo instead; LineRecord is the O(1)/O(log n) addressing layer.
type LineRecord struct {
	// Index is the 0-based line index.
	Index int

	// Number is the 1-based line number.
	Number int

	// Offset is the byte offset of the first byte of the line.
	Offset int

	// Length is the byte length of the line content, excluding the
	// terminating newline.
	Length int

	// Indent is the count of leading space characters (tabs count as one
	// column of indent for this purpose; rules that care about tab
	// expansion inspect the raw content themselves).
	Indent int

	// IsBlank is true if the line contains only whitespace.
	IsBlank bool
}

// End returns the byte offset one past the last byte of line content
// (i.e. Offset+Length), which is also where a following newline, if any,
// begins.
func (l LineRecord) End() int {
	return l.Offset + l.Length
}

// LineIndex provides byte↔(line,col) conversion and line slicing over a
// single normalized document body. It is built once per file and never
// mutated; every query is O(1) or O(log n).
type LineIndex struct {
	content []byte
	lines   []LineRecord
}

// BuildLineIndex performs a single O(n) pass over content and records the
// offset, length, indent and blankness of every line. An empty file
// produces a single zero-length line, matching the "empty file" boundary
// case in the testable properties.
func BuildLineIndex(content []byte) *LineIndex {
	idx := &LineIndex{content: content}

	start := 0
	lineNum := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx.lines = append(idx.lines, makeLineRecord(content, lineNum, start, i))
			lineNum++
			start = i + 1
		}
	}
	// Trailing line (possibly with no terminating newline, possibly empty
	// when the file ends exactly on a newline).
	idx.lines = append(idx.lines, makeLineRecord(content, lineNum, start, len(content)))

	return idx
}

func makeLineRecord(content []byte, lineNum, start, end int) LineRecord {
	rec := LineRecord{
		Index:  lineNum,
		Number: lineNum + 1,
		Offset: start,
		Length: end - start,
	}
	blank := true
	indent := 0
	countingIndent := true
	for i := start; i < end; i++ {
		c := content[i]
		if countingIndent && (c == ' ' || c == '\t') {
			indent++
			continue
		}
		countingIndent = false
		if c != ' ' && c != '\t' {
			blank = false
		}
	}
	rec.Indent = indent
	rec.IsBlank = blank
	return rec
}

// Count returns the number of lines in the index.
func (idx *LineIndex) Count() int {
	return len(idx.lines)
}

// Line returns the record for the given 1-based line number. Returns the
// zero value and false if out of range.
func (idx *LineIndex) Line(number int) (LineRecord, bool) {
	if number < 1 || number > len(idx.lines) {
		return LineRecord{}, false
	}
	return idx.lines[number-1], true
}

// Content returns the byte content of a 1-based line, excluding the
// newline. Returns nil if out of range.
func (idx *LineIndex) Content(number int) []byte {
	rec, ok := idx.Line(number)
	if !ok {
		return nil
	}
	return idx.content[rec.Offset:rec.End()]
}

// ByteRange converts a 1-based (line, col) position into a zero-length
// half-open byte range [start, start). Column 1 is the first byte of the
// line. A column past end-of-line clamps to end-of-line.
func (idx *LineIndex) ByteRange(line, col int) (int, int) {
	start := idx.byteOffset(line, col)
	return start, start
}

// ByteRangeLen converts a 1-based (line, col) position plus a byte length
// into the half-open range [start, start+length).
func (idx *LineIndex) ByteRangeLen(line, col, length int) (int, int) {
	start := idx.byteOffset(line, col)
	return start, start + length
}

func (idx *LineIndex) byteOffset(line, col int) int {
	rec, ok := idx.Line(line)
	if !ok {
		if len(idx.content) == 0 {
			return 0
		}
		return len(idx.content)
	}
	if col < 1 {
		col = 1
	}
	offset := rec.Offset + (col - 1)
	if offset > rec.End() {
		offset = rec.End()
	}
	return offset
}

// ByteToLineCol converts a byte offset to a 1-based (line, col) pair using
// binary search over line start offsets. It returns the last line whose
// start offset does not exceed offset.
func (idx *LineIndex) ByteToLineCol(offset int) (int, int) {
	if len(idx.lines) == 0 {
		return 1, 1
	}
	if offset < 0 {
		offset = 0
	}
	n := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].Offset > offset
	}) - 1
	if n < 0 {
		n = 0
	}
	if n >= len(idx.lines) {
		n = len(idx.lines) - 1
	}
	rec := idx.lines[n]
	return rec.Number, offset - rec.Offset + 1
}

// RuneColumn converts a byte column on the given line to a 1-based rune
// (character) column, for callers that need visual/character positions
// rather than raw byte offsets (e.g. line-length reporting over
// multi-byte UTF-8 text).
func (idx *LineIndex) RuneColumn(line, byteCol int) int {
	content := idx.Content(line)
	if content == nil || byteCol <= 1 {
		return 1
	}
	limit := byteCol - 1
	if limit > len(content) {
		limit = len(content)
	}
	runes := 0
	for i := 0; i < limit; {
		_, size := decodeRuneLen(content[i:])
		i += size
		runes++
	}
	return runes + 1
}

// decodeRuneLen returns the byte length of the UTF-8 scalar value starting
// at b[0], defaulting to 1 for invalid or empty input so callers always
// make forward progress.
func decodeRuneLen(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 1
	}
	c := b[0]
	switch {
	case c < 0x80:
		return rune(c), 1
	case c&0xE0 == 0xC0 && len(b) >= 2:
		return 0, 2
	case c&0xF0 == 0xE0 && len(b) >= 3:
		return 0, 3
	case c&0xF8 == 0xF0 && len(b) >= 4:
		return 0, 4
	default:
		return 0, 1
	}
}
