package lint

import "github.com/go-mdlint/mdlint/pkg/scan"

// ParsedFile is the output of running the Structural Scanner over one file:
// the line-ending-aware Document, the byte/line index built over its
// normalized content, the per-line classification, detected code blocks and
// front matter, and the lazily memoized auxiliary detectors.
//
// Unlike a full AST parse, scanning a file cannot fail: every byte sequence
// classifies into some combination of LineInfo fields, even if the result is
// "plain paragraph text". Rules that need stricter validation (e.g. "is this
// heading well-formed") inspect the relevant LineInfo field themselves.
type ParsedFile struct {
	Path string

	Doc         *scan.Document
	Idx         *scan.LineIndex
	Lines       []scan.LineInfo
	CodeBlocks  []scan.CodeBlock
	FrontMatter scan.FrontMatter
	Aux         *scan.Aux
}

// ParseFile runs the Structural Scanner over raw Markdown content.
func ParseFile(path string, content []byte) *ParsedFile {
	doc := scan.NewDocument(path, content)
	idx := scan.BuildLineIndex(doc.Normalized)
	lines, codeBlocks, fm := scan.Scan(doc.Normalized)

	return &ParsedFile{
		Path:        path,
		Doc:         doc,
		Idx:         idx,
		Lines:       lines,
		CodeBlocks:  codeBlocks,
		FrontMatter: fm,
		Aux:         scan.NewAux(idx, lines),
	}
}
