package rules

import "github.com/go-mdlint/mdlint/pkg/scan"

// spansOnLine returns the code spans (backtick runs) on the given line.
func spansOnLine(aux *scan.Aux, lineNum int) []scan.CodeSpan {
	if aux == nil {
		return nil
	}
	var out []scan.CodeSpan
	for _, cs := range aux.CodeSpans() {
		if cs.Line == lineNum {
			out = append(out, cs)
		}
	}
	return out
}

// inAnyCodeSpan reports whether the 1-based column range [startCol, endCol)
// overlaps any code span on the line.
func inAnyCodeSpan(spans []scan.CodeSpan, startCol, endCol int) bool {
	for _, cs := range spans {
		if startCol < cs.EndCol && endCol > cs.StartCol {
			return true
		}
	}
	return false
}
