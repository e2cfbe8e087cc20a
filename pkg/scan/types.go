package scan

// HeadingStyle identifies how a heading was written in the source.
type HeadingStyle int

const (
	// StyleATX is "# Heading".
	StyleATX HeadingStyle = iota
	// StyleATXClosed is "# Heading #".
	StyleATXClosed
	// StyleSetext1 is a heading underlined with "=" (level 1).
	StyleSetext1
	// StyleSetext2 is a heading underlined with "-" (level 2).
	StyleSetext2
)

// HeadingInfo describes a heading detected on a line.
type HeadingInfo struct {
	Level int
	Style HeadingStyle

	// Marker is the literal marker text, e.g. "###" for ATX or "===" for
	// setext (recorded on the underline line, not the text line).
	Marker string

	// MarkerColumn is the 1-based byte column where Marker begins.
	MarkerColumn int

	// ContentColumn is the 1-based byte column where the heading text
	// begins (after the marker and following whitespace).
	ContentColumn int

	// Text is the heading's trimmed, marker-stripped content.
	Text string

	// RawText is the full line content, untrimmed.
	RawText string

	// CustomID is the value of an explicit "{#id}" attribute, if present.
	CustomID string

	// HasClosingSequence is true for ATX headings with a trailing "#...".
	HasClosingSequence bool

	// ClosingSequence is the literal trailing marker text.
	ClosingSequence string

	// IsValid is false for ATX markers missing the required space (e.g.
	// "#Heading"); the heading is still recorded so MD018 can fire.
	IsValid bool

	// EndLine is the last line occupied by the heading (StartLine+1 for
	// setext headings, StartLine otherwise).
	EndLine int
}

// BlockquoteInfo describes blockquote structure detected on a line.
type BlockquoteInfo struct {
	// NestingLevel is the count of ">" markers from the line start.
	NestingLevel int

	// Indent is the count of spaces before the first ">".
	Indent int

	// MarkerColumn is the 1-based byte column of the first ">".
	MarkerColumn int

	// Prefix is indent + markers + inter-marker/trailing spaces, i.e.
	// everything before Content begins.
	Prefix string

	// Content is the line text following the blockquote prefix.
	Content string

	// HasNoSpaceAfterMarker is true for ">text" with no space.
	HasNoSpaceAfterMarker bool

	// HasMultipleSpacesAfterMarker is true for ">  text".
	HasMultipleSpacesAfterMarker bool

	// NeedsMD028Fix marks a blank blockquote line that should become a
	// bare ">" continuation rather than ending the blockquote.
	NeedsMD028Fix bool
}

// ListMarkerType identifies the bullet/ordinal style of a list item.
type ListMarkerType int

const (
	MarkerAsterisk ListMarkerType = iota
	MarkerPlus
	MarkerMinus
	MarkerOrdered
)

// ListInfo describes a list item detected on a line.
type ListInfo struct {
	MarkerType ListMarkerType

	// Marker is the literal marker text ("*", "-", "+", "1.", "2)"...).
	Marker string

	// Indent is the count of leading spaces before the marker.
	Indent int

	// SpacesAfterMarker is the count of spaces between the marker and
	// content.
	SpacesAfterMarker int

	// ContentOffset is the 0-based byte offset, relative to line start,
	// where item content begins.
	ContentOffset int

	// OrderedIndex is the parsed numeric value for ordered items, or -1
	// for bullet items.
	OrderedIndex int

	// Delimiter is "." or ")" for ordered items.
	Delimiter string
}

// CodeBlockType distinguishes fenced from indented code blocks.
type CodeBlockType int

const (
	Fenced CodeBlockType = iota
	Indented
)

// CodeBlock describes one fenced or indented code block.
type CodeBlock struct {
	StartLine int
	EndLine   int
	Type      CodeBlockType

	// FenceChar is '`' or '~' for fenced blocks.
	FenceChar byte

	// FenceLength is the number of fence characters in the opening fence.
	FenceLength int

	// Language is the info-string language token, lowercased.
	Language string

	// Unclosed is true when a fenced block never finds a matching closer
	// and runs to end of file.
	Unclosed bool
}

// FrontMatterKind identifies the delimiter style of a front-matter block.
type FrontMatterKind int

const (
	FrontMatterNone FrontMatterKind = iota
	FrontMatterYAML
	FrontMatterTOML
	FrontMatterJSON
	FrontMatterMalformed
)

// FrontMatter describes the document's front-matter block, if any.
type FrontMatter struct {
	Kind      FrontMatterKind
	StartLine int
	EndLine   int

	// Fields holds flattened key/value pairs; nested structures use
	// dotted keys (e.g. "author.name").
	Fields map[string]string

	// FieldOrder preserves the original top-level key order for
	// sort-checking rules.
	FieldOrder []string

	// HasComments is true when the raw block contains comment lines,
	// which disables certain auto-fixes (e.g. key reordering).
	HasComments bool
}

// ReferenceDefinition describes one "[label]: url "title"" definition.
type ReferenceDefinition struct {
	// Label is the normalized (lowercased, unescaped) identifier.
	Label string

	// RawLabel is the identifier exactly as written.
	RawLabel string

	StartLine int
	EndLine   int
	URL       string
	Title     string

	// StartCol/EndCol bound the "[label]" token for precise ranges.
	StartCol int
	EndCol   int
}

// LineInfo is the per-line classification record produced by the
// Structural Scanner (C2). Exactly one of the optional pointer fields
// (Heading, Blockquote, List) is populated unless the line is a list item
// nested inside a blockquote, in which case both Blockquote and List may be
// set.
type LineInfo struct {
	Record LineRecord

	InCodeBlock    bool
	IsFenceLine    bool
	InFrontMatter  bool
	InHTMLBlock    bool
	InHTMLComment  bool
	IsHorizontalRule bool

	Heading    *HeadingInfo
	Blockquote *BlockquoteInfo
	List       *ListInfo
}

// IsBlank reports whether the line is blank.
func (li LineInfo) IsBlank() bool { return li.Record.IsBlank }

// Indent returns the line's leading-space count.
func (li LineInfo) Indent() int { return li.Record.Indent }

// Number returns the 1-based line number.
func (li LineInfo) Number() int { return li.Record.Number }
