package lint

import "strings"

// Fix ordering tiebreak categories, in priority order (lower sorts first).
// Derived from spec's rule category tag set (Heading, List, Blockquote,
// Whitespace, Link, Image, Code, HTML, FrontMatter, Table, Footnote, Other),
// collapsed to the coordinator's documented ordering: whitespace rules
// apply before structural rules, which apply before everything else.
const (
	categoryWhitespace = iota
	categoryStructure
	categoryContent
	categoryLink
	categoryTable
	categoryFrontMatter
	categoryFootnote
	categoryOther
)

// structureTags identifies rules operating on document structure: headings,
// lists, blockquotes, horizontal rules.
var structureTags = map[string]bool{
	"headings": true, "atx": true, "lists": true, "hr": true,
	"blockquote": true, "ol": true, "ul": true, "bullet": true,
	"indentation": true,
}

var linkTags = map[string]bool{"links": true, "images": true, "url": true}
var tableTags = map[string]bool{"table": true, "tables": true, "gfm": true}
var frontMatterTags = map[string]bool{"metadata": true, "frontmatter": true, "front-matter": true}
var footnoteTags = map[string]bool{"footnote": true, "footnotes": true}

// rulePriority derives a rule's fix-ordering tiebreak from its declared
// tags, following categoryWhitespace < categoryStructure < categoryContent
// < categoryLink < categoryTable < categoryFrontMatter < categoryFootnote.
// Rules whose tags don't match any recognized category fall back to
// categoryContent (if tagged at all) or categoryOther.
func rulePriority(r Rule) int {
	tags := r.Tags()

	for _, t := range tags {
		if strings.EqualFold(t, "whitespace") {
			return categoryWhitespace
		}
	}
	for _, t := range tags {
		if structureTags[strings.ToLower(t)] {
			return categoryStructure
		}
	}
	for _, t := range tags {
		if linkTags[strings.ToLower(t)] {
			return categoryLink
		}
	}
	for _, t := range tags {
		if tableTags[strings.ToLower(t)] {
			return categoryTable
		}
	}
	for _, t := range tags {
		if frontMatterTags[strings.ToLower(t)] {
			return categoryFrontMatter
		}
	}
	for _, t := range tags {
		if footnoteTags[strings.ToLower(t)] {
			return categoryFootnote
		}
	}
	if len(tags) > 0 {
		return categoryContent
	}
	return categoryOther
}
