package lint

import "github.com/go-mdlint/mdlint/pkg/scan"

// NodeCache provides pre-computed collections of structural facts, indexed
// by kind, so that 40+ rules sharing an interest in "every heading" or
// "every list item" don't each re-scan the line slice.
//
// Without caching, if 10 rules each call Headings(), the line slice is
// filtered 10 times. With caching, it's filtered once and the result is
// shared.
//
// NodeCache is not thread-safe; it is built per-file inside RuleContext,
// and rules for a single file always execute sequentially.
//
// Do not mutate the slices returned by its accessors — they are shared
// across every rule invoked for this file.
type NodeCache struct {
	lines      []scan.LineInfo
	codeBlocks []scan.CodeBlock
	aux        *scan.Aux

	built bool

	headings       []scan.LineInfo
	listItems      []scan.LineInfo
	blockquotes    []scan.LineInfo
	thematicBreaks []int
	htmlBlockLines []int
}

func newNodeCache(lines []scan.LineInfo, codeBlocks []scan.CodeBlock, aux *scan.Aux) *NodeCache {
	return &NodeCache{lines: lines, codeBlocks: codeBlocks, aux: aux}
}

// build performs the one O(n) pass over lines that every accessor below
// shares. It runs on first access to any collection.
func (nc *NodeCache) build() {
	if nc.built {
		return
	}
	for _, li := range nc.lines {
		if li.Heading != nil {
			nc.headings = append(nc.headings, li)
		}
		if li.List != nil {
			nc.listItems = append(nc.listItems, li)
		}
		if li.Blockquote != nil {
			nc.blockquotes = append(nc.blockquotes, li)
		}
		if li.IsHorizontalRule {
			nc.thematicBreaks = append(nc.thematicBreaks, li.Number())
		}
		if li.InHTMLBlock {
			nc.htmlBlockLines = append(nc.htmlBlockLines, li.Number())
		}
	}
	nc.built = true
}

// Headings returns every heading line, in document order.
func (nc *NodeCache) Headings() []scan.LineInfo {
	nc.build()
	return nc.headings
}

// ListItems returns every list-item line, in document order.
func (nc *NodeCache) ListItems() []scan.LineInfo {
	nc.build()
	return nc.listItems
}

// Blockquotes returns every blockquote line, in document order.
func (nc *NodeCache) Blockquotes() []scan.LineInfo {
	nc.build()
	return nc.blockquotes
}

// ThematicBreaks returns the line numbers of every horizontal rule.
func (nc *NodeCache) ThematicBreaks() []int {
	nc.build()
	return nc.thematicBreaks
}

// HTMLBlockLines returns the line numbers covered by any HTML block.
func (nc *NodeCache) HTMLBlockLines() []int {
	nc.build()
	return nc.htmlBlockLines
}

// CodeBlocks returns every fenced or indented code block.
func (nc *NodeCache) CodeBlocks() []scan.CodeBlock {
	return nc.codeBlocks
}

// CodeSpans returns every inline code span, computed lazily by Aux and
// cached there (not duplicated here).
func (nc *NodeCache) CodeSpans() []scan.CodeSpan {
	if nc.aux == nil {
		return nil
	}
	return nc.aux.CodeSpans()
}

// Links returns every non-image link occurrence.
func (nc *NodeCache) Links() []scan.LinkRange {
	if nc.aux == nil {
		return nil
	}
	return Links(nc.aux.Links())
}

// Images returns every image occurrence.
func (nc *NodeCache) Images() []scan.LinkRange {
	if nc.aux == nil {
		return nil
	}
	return Images(nc.aux.Links())
}
