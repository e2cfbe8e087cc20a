// Package scan builds the shared structural index that lint rules read from:
// a line index, a single-pass structural scan, and a set of lazily memoized
// auxiliary detectors (code spans, link ranges, reference definitions).
//
// The package deliberately stops short of a full CommonMark AST. Rules need
// line-level structural facts (is this line a heading, a blockquote, inside a
// fenced code block) far more often than they need a parse tree, and a single
// linear scan over the document is cheap enough to run per file without
// amortizing it across a persistent parser.
package scan

import "bytes"

// LineEnding identifies the dominant line terminator detected in a document.
type LineEnding int

const (
	// LF is the Unix line ending ("\n"). Used as the default when a file
	// has no newlines at all (e.g. empty or single-line files).
	LF LineEnding = iota
	// CRLF is the Windows line ending ("\r\n").
	CRLF
	// CR is the old Mac OS line ending ("\r" with no following "\n").
	CR
)

// String returns the literal bytes of the ending, for display purposes.
func (e LineEnding) String() string {
	switch e {
	case CRLF:
		return "CRLF"
	case CR:
		return "CR"
	default:
		return "LF"
	}
}

// Bytes returns the raw byte sequence for this line ending.
func (e LineEnding) Bytes() []byte {
	switch e {
	case CRLF:
		return []byte("\r\n")
	case CR:
		return []byte("\r")
	default:
		return []byte("\n")
	}
}

// Document holds the original file bytes alongside an LF-normalized working
// copy. All structural analysis operates on the normalized copy; the
// original bytes and detected ending are kept so the caller can
// re-serialize a fixed file with its original line terminator.
type Document struct {
	// Path is the logical file path, used only for diagnostics.
	Path string

	// Original is the raw, unmodified file content.
	Original []byte

	// Ending is the line ending detected in Original.
	Ending LineEnding

	// Normalized is Original with all line endings collapsed to "\n".
	// Structural scanning and fix ranges operate on this buffer.
	Normalized []byte
}

// NewDocument detects the line ending of raw and produces a Document with
// an LF-normalized working copy.
func NewDocument(path string, raw []byte) *Document {
	ending := detectEnding(raw)
	return &Document{
		Path:       path,
		Original:   raw,
		Ending:     ending,
		Normalized: normalize(raw, ending),
	}
}

// detectEnding inspects the first newline-bearing sequence in content to
// classify its dominant line ending. A file with no "\n" at all but at
// least one bare "\r" is treated as classic Mac (CR); otherwise LF.
func detectEnding(content []byte) LineEnding {
	idx := bytes.IndexByte(content, '\n')
	if idx < 0 {
		if bytes.IndexByte(content, '\r') >= 0 {
			return CR
		}
		return LF
	}
	if idx > 0 && content[idx-1] == '\r' {
		return CRLF
	}
	return LF
}

// normalize collapses CRLF and lone-CR endings to LF. LF content is
// returned unmodified (no allocation).
func normalize(content []byte, ending LineEnding) []byte {
	switch ending {
	case CRLF:
		return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	case CR:
		return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
	default:
		return content
	}
}

// Denormalize re-serializes LF-normalized content using the document's
// original line ending. Content produced by the fix coordinator is always
// LF-normalized internally; this is the single place the original ending
// is restored before the result reaches the caller.
func (d *Document) Denormalize(content []byte) []byte {
	switch d.Ending {
	case CRLF:
		return bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	case CR:
		return bytes.ReplaceAll(content, []byte("\n"), []byte("\r"))
	default:
		return content
	}
}
