package lint

import (
	"bytes"

	"github.com/go-mdlint/mdlint/pkg/scan"
)

// Line-based query helpers. The Structural Scanner (pkg/scan) produces one
// LineInfo per line; these helpers filter and project over that slice so
// rules don't each re-walk it.

// Headings returns every line carrying heading info, in document order.
func Headings(lines []scan.LineInfo) []scan.LineInfo {
	var out []scan.LineInfo
	for _, li := range lines {
		if li.Heading != nil {
			out = append(out, li)
		}
	}
	return out
}

// ListItemLines returns every line carrying list-item info, in document order.
func ListItemLines(lines []scan.LineInfo) []scan.LineInfo {
	var out []scan.LineInfo
	for _, li := range lines {
		if li.List != nil {
			out = append(out, li)
		}
	}
	return out
}

// BlockquoteLines returns every line carrying blockquote info, in document order.
func BlockquoteLines(lines []scan.LineInfo) []scan.LineInfo {
	var out []scan.LineInfo
	for _, li := range lines {
		if li.Blockquote != nil {
			out = append(out, li)
		}
	}
	return out
}

// ThematicBreakLines returns the line numbers of every horizontal rule.
func ThematicBreakLines(lines []scan.LineInfo) []int {
	var out []int
	for _, li := range lines {
		if li.IsHorizontalRule {
			out = append(out, li.Number())
		}
	}
	return out
}

// HTMLBlockLines returns the line numbers covered by any HTML block.
func HTMLBlockLines(lines []scan.LineInfo) []int {
	var out []int
	for _, li := range lines {
		if li.InHTMLBlock {
			out = append(out, li.Number())
		}
	}
	return out
}

// Line content helpers, addressed through the LineIndex built for the file.

// LineContent returns the byte content of the given 1-based line, excluding
// the newline. Returns nil if out of range.
func LineContent(idx *scan.LineIndex, lineNum int) []byte {
	if idx == nil {
		return nil
	}
	return idx.Content(lineNum)
}

// LineLength returns the byte length of the given 1-based line.
func LineLength(idx *scan.LineIndex, lineNum int) int {
	rec, ok := idx.Line(lineNum)
	if !ok {
		return 0
	}
	return rec.Length
}

// HasTrailingWhitespace returns true if the line ends in a space or tab.
func HasTrailingWhitespace(idx *scan.LineIndex, lineNum int) bool {
	content := LineContent(idx, lineNum)
	if len(content) == 0 {
		return false
	}
	last := content[len(content)-1]
	return last == ' ' || last == '\t'
}

// TrailingWhitespaceRange returns the half-open byte range of trailing
// whitespace on a line, or (-1, -1) if there is none.
func TrailingWhitespaceRange(idx *scan.LineIndex, lineNum int) (int, int) {
	rec, ok := idx.Line(lineNum)
	if !ok {
		return -1, -1
	}
	content := idx.Content(lineNum)
	if len(content) == 0 {
		return -1, -1
	}

	end := rec.End()
	start := end
	for i := len(content) - 1; i >= 0; i-- {
		if content[i] != ' ' && content[i] != '\t' {
			break
		}
		start = rec.Offset + i
	}

	if start == end {
		return -1, -1
	}
	return start, end
}

// IsBlankLine returns true if the line contains only whitespace.
func IsBlankLine(idx *scan.LineIndex, lineNum int) bool {
	return len(bytes.TrimSpace(LineContent(idx, lineNum))) == 0
}

// LineContainsURL returns true if the line contains a bare http(s) URL.
func LineContainsURL(idx *scan.LineIndex, lineNum int) bool {
	content := LineContent(idx, lineNum)
	return bytes.Contains(content, []byte("http://")) || bytes.Contains(content, []byte("https://"))
}

// CountBlankLinesBefore counts consecutive blank lines immediately before lineNum.
func CountBlankLinesBefore(idx *scan.LineIndex, lineNum int) int {
	count := 0
	for ln := lineNum - 1; ln >= 1; ln-- {
		if !IsBlankLine(idx, ln) {
			break
		}
		count++
	}
	return count
}

// CountBlankLinesAfter counts consecutive blank lines immediately after lineNum.
func CountBlankLinesAfter(idx *scan.LineIndex, lineNum int) int {
	count := 0
	for ln := lineNum + 1; ln <= idx.Count(); ln++ {
		if !IsBlankLine(idx, ln) {
			break
		}
		count++
	}
	return count
}

// IsLineInCodeBlock returns true if the given line falls within any fenced
// or indented code block.
func IsLineInCodeBlock(blocks []scan.CodeBlock, lineNum int) bool {
	for _, cb := range blocks {
		if lineNum >= cb.StartLine && lineNum <= cb.EndLine {
			return true
		}
	}
	return false
}

// CodeBlockAt returns the code block covering lineNum, or nil.
func CodeBlockAt(blocks []scan.CodeBlock, lineNum int) *scan.CodeBlock {
	for i := range blocks {
		if lineNum >= blocks[i].StartLine && lineNum <= blocks[i].EndLine {
			return &blocks[i]
		}
	}
	return nil
}

// ExtractHTMLTagName extracts the lowercase tag name from an HTML element,
// e.g. "<div class=\"x\">" -> "div", "</span>" -> "span".
func ExtractHTMLTagName(content []byte) string {
	content = bytes.TrimSpace(content)
	if len(content) < 2 || content[0] != '<' {
		return ""
	}

	idx := 1
	if idx < len(content) && content[idx] == '/' {
		idx++
	}

	start := idx
	for idx < len(content) {
		ch := content[idx]
		isAlphaNum := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-'
		if !isAlphaNum {
			break
		}
		idx++
	}

	if idx == start {
		return ""
	}

	return string(bytes.ToLower(content[start:idx]))
}

// FirstHeading returns the first heading line, or the zero value and false
// if the document has none.
func FirstHeading(lines []scan.LineInfo) (scan.LineInfo, bool) {
	for _, li := range lines {
		if li.Heading != nil {
			return li, true
		}
	}
	return scan.LineInfo{}, false
}

// Links returns every non-image link occurrence.
func Links(links []scan.LinkRange) []scan.LinkRange {
	var out []scan.LinkRange
	for _, l := range links {
		if !l.IsImage {
			out = append(out, l)
		}
	}
	return out
}

// Images returns every image occurrence.
func Images(links []scan.LinkRange) []scan.LinkRange {
	var out []scan.LinkRange
	for _, l := range links {
		if l.IsImage {
			out = append(out, l)
		}
	}
	return out
}

// IsEmptyLink returns true if the link's destination and reference label are
// both empty (an inline link with nothing between the parens, or a dangling
// reference with no resolvable target).
func IsEmptyLink(l scan.LinkRange) bool {
	return l.Dest == "" && l.RefLabel == ""
}

// IsEmptyLinkText returns true if the link/image has no visible text.
func IsEmptyLinkText(l scan.LinkRange) bool {
	return len(bytes.TrimSpace([]byte(l.Text))) == 0
}
