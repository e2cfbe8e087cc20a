package scan

import (
	"bytes"
	"strconv"
	"strings"
)

// htmlBlockTags are the block-level tag names that open an HTML block
// under the scanner's simplified model. "style" and "script" are the two
// tags that may contain blank lines without ending the block; every other
// tag's block ends at the first blank line or matching closing tag.
var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true,
	"basefont": true, "blockquote": true, "body": true, "caption": true,
	"center": true, "col": true, "colgroup": true, "dd": true, "details": true,
	"dialog": true, "dir": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "frame": true, "frameset": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true, "header": true,
	"hr": true, "html": true, "iframe": true, "legend": true, "li": true,
	"link": true, "main": true, "menu": true, "menuitem": true, "nav": true,
	"noframes": true, "ol": true, "optgroup": true, "option": true, "p": true,
	"param": true, "section": true, "summary": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"title": true, "tr": true, "track": true, "ul": true,
	"script": true, "style": true,
}

// noBlankInterrupt tags may contain blank lines without closing the block.
var noBlankInterrupt = map[string]bool{"script": true, "style": true}

// Scan runs the Structural Scanner (C2) over content, producing one
// LineInfo per line plus the document-level code-block and front-matter
// summaries. content must already be LF-normalized (see Document).
func Scan(content []byte) ([]LineInfo, []CodeBlock, FrontMatter) {
	idx := BuildLineIndex(content)
	n := idx.Count()
	lines := make([]LineInfo, n)
	for i := 0; i < n; i++ {
		rec, _ := idx.Line(i + 1)
		lines[i] = LineInfo{Record: rec}
	}

	fm := scanFrontMatter(idx, lines)
	scanHTMLComments(idx, lines)
	blocks := scanCodeBlocks(idx, lines)
	scanHTMLBlocks(idx, lines)
	scanBlockquotes(idx, lines)
	scanHeadings(idx, lines)
	scanLists(idx, lines)
	scanHorizontalRules(idx, lines)

	return lines, blocks, fm
}

// --- Step 1: front matter -------------------------------------------------

func scanFrontMatter(idx *LineIndex, lines []LineInfo) FrontMatter {
	fm := FrontMatter{Kind: FrontMatterNone}
	if idx.Count() == 0 {
		return fm
	}
	first := bytes.TrimRight(idx.Content(1), "\r")
	trimmed := bytes.TrimSpace(first)

	var kind FrontMatterKind
	var closer string
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		kind, closer = FrontMatterYAML, "---"
	case bytes.Equal(trimmed, []byte("+++")):
		kind, closer = FrontMatterTOML, "+++"
	case bytes.HasPrefix(trimmed, []byte("{")):
		kind, closer = FrontMatterJSON, ""
	case isMalformedFrontMatterOpener(trimmed):
		kind = FrontMatterMalformed
	default:
		return fm
	}

	switch kind {
	case FrontMatterJSON:
		return scanJSONFrontMatter(idx, lines)
	case FrontMatterMalformed:
		return fm // not recognized: no opening/closing pair to find
	}

	for ln := 2; ln <= idx.Count(); ln++ {
		content := bytes.TrimSpace(bytes.TrimRight(idx.Content(ln), "\r"))
		if string(content) == closer {
			fm.Kind = kind
			fm.StartLine = 1
			fm.EndLine = ln
			for i := 0; i < ln && i < len(lines); i++ {
				lines[i].InFrontMatter = true
			}
			fm.Fields, fm.FieldOrder, fm.HasComments = parseFlatFields(idx, 2, ln-1, kind)
			return fm
		}
	}
	// No matching closer: not recognized as front matter at all.
	return FrontMatter{Kind: FrontMatterNone}
}

func isMalformedFrontMatterOpener(trimmed []byte) bool {
	s := string(trimmed)
	return s == "- --" || s == "-- -"
}

func scanJSONFrontMatter(idx *LineIndex, lines []LineInfo) FrontMatter {
	depth := 0
	for ln := 1; ln <= idx.Count(); ln++ {
		content := idx.Content(ln)
		for _, c := range content {
			switch c {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		if depth == 0 && ln >= 3 {
			fm := FrontMatter{Kind: FrontMatterJSON, StartLine: 1, EndLine: ln}
			for i := 0; i < ln && i < len(lines); i++ {
				lines[i].InFrontMatter = true
			}
			fm.Fields, fm.FieldOrder, fm.HasComments = parseFlatFields(idx, 1, ln, FrontMatterJSON)
			return fm
		}
		if depth == 0 && ln == 1 {
			// Single-line "{}" JSON front matter (degenerate but legal).
			break
		}
	}
	return FrontMatter{Kind: FrontMatterNone}
}

// parseFlatFields extracts top-level key/value pairs from a front-matter
// body using simple line-oriented heuristics shared across YAML, TOML and
// JSON: this is deliberately not a full parser, only enough to support
// MD072's key-sort check and front-matter field lookups.
func parseFlatFields(idx *LineIndex, from, to int, kind FrontMatterKind) (map[string]string, []string, bool) {
	fields := make(map[string]string)
	var order []string
	hasComments := false

	for ln := from; ln <= to; ln++ {
		raw := string(bytes.TrimRight(idx.Content(ln), "\r"))
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if isFrontMatterComment(trimmed, kind) {
			hasComments = true
			continue
		}
		// Only top-level (unindented) keys participate in sort checks.
		if raw != trimmed {
			continue
		}
		key, val, ok := splitFrontMatterKV(trimmed, kind)
		if !ok {
			continue
		}
		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = val
	}
	return fields, order, hasComments
}

func isFrontMatterComment(line string, kind FrontMatterKind) bool {
	switch kind {
	case FrontMatterYAML, FrontMatterTOML:
		return strings.HasPrefix(line, "#")
	case FrontMatterJSON:
		return strings.HasPrefix(line, "//")
	default:
		return false
	}
}

func splitFrontMatterKV(line string, kind FrontMatterKind) (key, val string, ok bool) {
	switch kind {
	case FrontMatterJSON:
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return "", "", false
		}
		key = strings.Trim(strings.TrimSpace(parts[0]), `"`)
		val = strings.TrimSpace(parts[1])
		return key, val, key != ""
	default: // YAML / TOML
		sep := "="
		if kind == FrontMatterYAML {
			sep = ":"
		}
		parts := strings.SplitN(line, sep, 2)
		if len(parts) != 2 {
			return "", "", false
		}
		key = strings.TrimSpace(parts[0])
		val = strings.TrimSpace(parts[1])
		return key, val, key != ""
	}
}

// --- Step 2: HTML comments -------------------------------------------------

func scanHTMLComments(idx *LineIndex, lines []LineInfo) {
	content := idx.content
	start := 0
	for {
		openRel := bytes.Index(content[start:], []byte("<!--"))
		if openRel < 0 {
			return
		}
		open := start + openRel
		closeIdx := bytes.Index(content[open+4:], []byte("-->"))
		var end int
		if closeIdx < 0 {
			end = len(content)
		} else {
			end = open + 4 + closeIdx + 3
		}
		startLine, _ := idx.ByteToLineCol(open)
		endLine, _ := idx.ByteToLineCol(max0(end-1, open))
		for ln := startLine; ln <= endLine && ln <= len(lines); ln++ {
			if ln >= 1 {
				lines[ln-1].InHTMLComment = true
			}
		}
		if closeIdx < 0 {
			return
		}
		start = end
	}
}

func max0(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// --- Step 3/4: code blocks -------------------------------------------------

func scanCodeBlocks(idx *LineIndex, lines []LineInfo) []CodeBlock {
	var blocks []CodeBlock
	n := idx.Count()

	// Fenced blocks first; they take priority over indented detection.
	ln := 1
	for ln <= n {
		if skipLine(lines, ln) {
			ln++
			continue
		}
		content := idx.Content(ln)
		if ch, length, ok := fenceOpener(content); ok {
			lines[ln-1].IsFenceLine = true
			lang := fenceLanguage(content, ch, length)
			closeLine := -1
			for j := ln + 1; j <= n; j++ {
				if skipLine(lines, j) {
					continue
				}
				cContent := idx.Content(j)
				if isFenceCloser(cContent, ch, length) {
					closeLine = j
					break
				}
			}
			cb := CodeBlock{StartLine: ln, Type: Fenced, FenceChar: ch, FenceLength: length, Language: lang}
			if closeLine < 0 {
				cb.EndLine = n
				cb.Unclosed = true
				for j := ln + 1; j <= n; j++ {
					lines[j-1].InCodeBlock = true
				}
				blocks = append(blocks, cb)
				break
			}
			cb.EndLine = closeLine
			lines[closeLine-1].IsFenceLine = true
			for j := ln + 1; j < closeLine; j++ {
				lines[j-1].InCodeBlock = true
			}
			blocks = append(blocks, cb)
			ln = closeLine + 1
			continue
		}
		ln++
	}

	// Indented blocks: runs of lines indented >=4 spaces, not already
	// inside a fenced block, not blank, not interrupted by non-indented
	// non-blank lines, and not a list continuation (approximated: a line
	// immediately following a list item marker is not treated as the
	// start of an indented code block).
	ln = 1
	for ln <= n {
		li := &lines[ln-1]
		if li.InCodeBlock || li.IsFenceLine || li.InFrontMatter || li.IsBlank() {
			ln++
			continue
		}
		if li.Indent() < 4 {
			ln++
			continue
		}
		if ln > 1 && startsListMarker(bytes.TrimLeft(idx.Content(ln-1), " \t")) {
			ln++
			continue
		}
		start := ln
		end := ln
		j := ln + 1
		for j <= n {
			jLi := &lines[j-1]
			if jLi.InCodeBlock || jLi.IsFenceLine || jLi.InFrontMatter {
				break
			}
			if jLi.IsBlank() {
				// Blank lines are allowed inside the run as long as a
				// further indented line follows.
				k := j
				for k <= n && lines[k-1].IsBlank() {
					k++
				}
				if k > n || lines[k-1].Indent() < 4 || lines[k-1].InCodeBlock {
					break
				}
				end = k
				j = k + 1
				continue
			}
			if jLi.Indent() < 4 {
				break
			}
			end = j
			j++
		}
		for k := start; k <= end; k++ {
			if !lines[k-1].IsBlank() {
				lines[k-1].InCodeBlock = true
			}
		}
		blocks = append(blocks, CodeBlock{StartLine: start, EndLine: end, Type: Indented})
		ln = end + 1
	}

	return blocks
}

func skipLine(lines []LineInfo, ln int) bool {
	if ln < 1 || ln > len(lines) {
		return true
	}
	li := lines[ln-1]
	return li.InFrontMatter || li.InCodeBlock
}

func fenceOpener(content []byte) (byte, int, bool) {
	trimmed := bytes.TrimLeft(content, " \t")
	indent := len(content) - len(trimmed)
	if indent > 3 {
		return 0, 0, false
	}
	if len(trimmed) < 3 {
		return 0, 0, false
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	length := 0
	for length < len(trimmed) && trimmed[length] == ch {
		length++
	}
	if length < 3 {
		return 0, 0, false
	}
	if ch == '`' && bytes.IndexByte(trimmed[length:], '`') >= 0 {
		// Backtick fences cannot have a backtick in the info string.
		return 0, 0, false
	}
	return ch, length, true
}

func isFenceCloser(content []byte, ch byte, minLength int) bool {
	trimmed := bytes.TrimLeft(content, " \t")
	indent := len(content) - len(trimmed)
	if indent > 3 {
		return false
	}
	trimmed = bytes.TrimRight(trimmed, " \t")
	if len(trimmed) < minLength {
		return false
	}
	for _, c := range trimmed {
		if c != ch {
			return false
		}
	}
	return true
}

func fenceLanguage(content []byte, ch byte, length int) string {
	trimmed := bytes.TrimLeft(content, " \t")
	rest := trimmed[length:]
	rest = bytes.TrimSpace(rest)
	if len(rest) == 0 {
		return ""
	}
	fields := bytes.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(string(fields[0]))
}

// --- Step 5: HTML blocks ---------------------------------------------------

func scanHTMLBlocks(idx *LineIndex, lines []LineInfo) {
	n := idx.Count()
	for ln := 1; ln <= n; ln++ {
		li := &lines[ln-1]
		if li.InFrontMatter || li.InCodeBlock || li.IsFenceLine || li.InHTMLComment || li.IsBlank() {
			continue
		}
		content := bytes.TrimLeft(idx.Content(ln), " \t")
		indent := len(idx.Content(ln)) - len(content)
		if indent > 3 || len(content) == 0 || content[0] != '<' {
			continue
		}
		tag := tagNameFromOpen(content)
		if tag == "" || !htmlBlockTags[tag] {
			continue
		}
		li.InHTMLBlock = true
		allowBlank := noBlankInterrupt[tag]
		closing := "</" + tag
		end := ln
		if bytes.Contains(content, []byte(closing)) {
			continue
		}
		for j := ln + 1; j <= n; j++ {
			jLi := &lines[j-1]
			if jLi.InFrontMatter || jLi.InCodeBlock {
				break
			}
			jContent := idx.Content(j)
			if jLi.IsBlank() {
				if !allowBlank {
					break
				}
				jLi.InHTMLBlock = true
				end = j
				continue
			}
			jLi.InHTMLBlock = true
			end = j
			if bytes.Contains(jContent, []byte(closing)) {
				break
			}
		}
		_ = end
	}
}

func tagNameFromOpen(content []byte) string {
	if len(content) < 2 || content[0] != '<' {
		return ""
	}
	i := 1
	if i < len(content) && content[i] == '/' {
		i++
	}
	start := i
	for i < len(content) && isTagNameByte(content[i]) {
		i++
	}
	if i == start {
		return ""
	}
	return strings.ToLower(string(content[start:i]))
}

func isTagNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
}

// --- Step 6: blockquotes ----------------------------------------------------

func scanBlockquotes(idx *LineIndex, lines []LineInfo) {
	for ln := 1; ln <= idx.Count(); ln++ {
		li := &lines[ln-1]
		if li.InFrontMatter || li.InCodeBlock || li.InHTMLBlock || li.IsFenceLine || li.InHTMLComment {
			continue
		}
		content := idx.Content(ln)
		trimmed := bytes.TrimLeft(content, " ")
		indent := len(content) - len(trimmed)
		if indent > 3 || len(trimmed) == 0 || trimmed[0] != '>' {
			continue
		}

		nesting := 0
		i := 0
		noSpace := false
		multiSpace := false
		for i < len(trimmed) && trimmed[i] == '>' {
			nesting++
			i++
			spaces := 0
			for i < len(trimmed) && trimmed[i] == ' ' {
				spaces++
				i++
			}
			if i < len(trimmed) && trimmed[i] == '>' {
				if spaces == 0 {
					noSpace = true
				} else if spaces > 1 {
					multiSpace = true
				}
				continue
			}
			if spaces == 0 && i < len(trimmed) {
				noSpace = true
			} else if spaces > 1 {
				multiSpace = true
			}
		}
		bqContent := string(trimmed[i:])
		bq := &BlockquoteInfo{
			NestingLevel:                 nesting,
			Indent:                       indent,
			MarkerColumn:                 indent + 1,
			Prefix:                       string(content[:indent+i]),
			Content:                      bqContent,
			HasNoSpaceAfterMarker:        noSpace,
			HasMultipleSpacesAfterMarker: multiSpace,
			NeedsMD028Fix:                strings.TrimSpace(bqContent) == "",
		}
		if strings.TrimSpace(bqContent) == "" {
			li.IsHorizontalRule = false
		} else if isThematicBreak(bqContent) {
			li.IsHorizontalRule = true
		}
		li.Blockquote = bq
	}
}

// --- Step 7: headings --------------------------------------------------------

func scanHeadings(idx *LineIndex, lines []LineInfo) {
	n := idx.Count()
	for ln := 1; ln <= n; ln++ {
		li := &lines[ln-1]
		if li.InFrontMatter || li.InCodeBlock || li.InHTMLBlock || li.IsFenceLine ||
			li.InHTMLComment || li.IsBlank() {
			continue
		}

		content := string(idx.Content(ln))
		blockquotePrefix := ""
		text := content
		if li.Blockquote != nil {
			blockquotePrefix = li.Blockquote.Prefix
			text = li.Blockquote.Content
		}

		if hi, ok := parseATXHeading(text); ok {
			hi.MarkerColumn = len(blockquotePrefix) + strings.Index(text, hi.Marker) + 1
			hi.ContentColumn = hi.MarkerColumn + len(hi.Marker)
			hi.EndLine = ln
			hi.RawText = content
			li.Heading = hi
			continue
		}

		// Setext: current line is non-blank text, next line is a run of
		// "=" or "-" with compatible indent, and the current line isn't
		// itself something that looks like a list item, blockquote, code
		// fence, HTML block start, or thematic break.
		if ln < n && li.Blockquote == nil {
			next := &lines[ln]
			if !next.InFrontMatter && !next.InCodeBlock && !next.IsFenceLine &&
				!next.InHTMLBlock && !next.InHTMLComment && !next.IsBlank() {
				nextContent := string(idx.Content(ln + 1))
				if style, marker, ok := setextUnderline(nextContent); ok &&
					!looksLikeListOrBreakOrFence(text) {
					level := 1
					if style == StyleSetext2 {
						level = 2
					}
					hi := &HeadingInfo{
						Level:         level,
						Style:         style,
						Marker:        marker,
						MarkerColumn:  1,
						ContentColumn: li.Indent() + 1,
						Text:          strings.TrimSpace(text),
						RawText:       content,
						IsValid:       true,
						EndLine:       ln + 1,
					}
					li.Heading = hi
				}
			}
		}
	}
}

func parseATXHeading(text string) (*HeadingInfo, bool) {
	trimmed := strings.TrimLeft(text, " ")
	leadSpaces := len(text) - len(trimmed)
	if leadSpaces > 3 || len(trimmed) == 0 || trimmed[0] != '#' {
		return nil, false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return nil, false
	}
	rest := trimmed[level:]
	isValid := true
	if len(rest) > 0 && rest[0] != ' ' && rest[0] != '\t' {
		isValid = false
	}
	body := strings.TrimLeft(rest, " \t")

	hasClosing := false
	closing := ""
	trimmedBody := strings.TrimRight(body, " \t")
	if strings.HasSuffix(trimmedBody, "#") {
		// Find the run of trailing #'s preceded by whitespace (or the
		// entire body, for "## #").
		i := len(trimmedBody)
		for i > 0 && trimmedBody[i-1] == '#' {
			i--
		}
		if i == 0 || trimmedBody[i-1] == ' ' || trimmedBody[i-1] == '\t' {
			hasClosing = true
			closing = trimmedBody[i:]
			trimmedBody = strings.TrimRight(trimmedBody[:i], " \t")
		}
	}

	customID := ""
	if idx := strings.LastIndex(trimmedBody, "{#"); idx >= 0 && strings.HasSuffix(trimmedBody, "}") {
		customID = trimmedBody[idx+2 : len(trimmedBody)-1]
		trimmedBody = strings.TrimRight(trimmedBody[:idx], " \t")
	}

	return &HeadingInfo{
		Level:              level,
		Style:              atxStyleFor(hasClosing),
		Marker:             strings.Repeat("#", level),
		Text:               trimmedBody,
		CustomID:           customID,
		HasClosingSequence: hasClosing,
		ClosingSequence:    closing,
		IsValid:            isValid,
	}, true
}

func atxStyleFor(closed bool) HeadingStyle {
	if closed {
		return StyleATXClosed
	}
	return StyleATX
}

func setextUnderline(content string) (HeadingStyle, string, bool) {
	trimmed := strings.TrimLeft(content, " ")
	if len(trimmed) == 0 || len(content)-len(trimmed) > 3 {
		return 0, "", false
	}
	trimmed = strings.TrimRight(trimmed, " \t")
	if len(trimmed) == 0 {
		return 0, "", false
	}
	if allRune(trimmed, '=') {
		return StyleSetext1, trimmed, true
	}
	if allRune(trimmed, '-') && len(trimmed) >= 1 {
		return StyleSetext2, trimmed, true
	}
	return 0, "", false
}

func allRune(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

func looksLikeListOrBreakOrFence(text string) bool {
	trimmed := strings.TrimLeft(text, " ")
	if startsListMarker([]byte(trimmed)) {
		return true
	}
	if isThematicBreak(trimmed) {
		return true
	}
	if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
		return true
	}
	if strings.HasPrefix(trimmed, "<") {
		return true
	}
	if strings.HasPrefix(trimmed, ">") {
		return true
	}
	return false
}

// --- Step 8: list items ------------------------------------------------------

func scanLists(idx *LineIndex, lines []LineInfo) {
	for ln := 1; ln <= idx.Count(); ln++ {
		li := &lines[ln-1]
		if li.InFrontMatter || li.InCodeBlock || li.InHTMLBlock || li.IsFenceLine ||
			li.InHTMLComment || li.IsBlank() || li.Heading != nil {
			continue
		}
		content := idx.Content(ln)
		text := content
		baseIndent := 0
		if li.Blockquote != nil {
			text = []byte(li.Blockquote.Content)
			baseIndent = len(li.Blockquote.Prefix)
		}
		info, ok := parseListMarker(text)
		if !ok {
			continue
		}
		info.Indent += baseIndent
		li.List = info
	}
}

func parseListMarker(content []byte) (*ListInfo, bool) {
	trimmed := bytes.TrimLeft(content, " ")
	indent := len(content) - len(trimmed)
	if indent > 3 || len(trimmed) == 0 {
		return nil, false
	}

	switch trimmed[0] {
	case '*', '+', '-':
		// Reject thematic breaks masquerading as bullets.
		if isThematicBreak(string(trimmed)) {
			return nil, false
		}
		rest := trimmed[1:]
		if len(rest) > 0 && rest[0] != ' ' && rest[0] != '\t' {
			return nil, false
		}
		spaces := countLeadingSpaces(rest)
		mt := MarkerAsterisk
		switch trimmed[0] {
		case '+':
			mt = MarkerPlus
		case '-':
			mt = MarkerMinus
		}
		return &ListInfo{
			MarkerType:        mt,
			Marker:            string(trimmed[0]),
			Indent:            indent,
			SpacesAfterMarker: spaces,
			ContentOffset:     indent + 1 + spaces,
			OrderedIndex:      -1,
		}, true
	default:
		if trimmed[0] < '0' || trimmed[0] > '9' {
			return nil, false
		}
		i := 0
		for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
			i++
		}
		if i == 0 || i >= len(trimmed) {
			return nil, false
		}
		delim := trimmed[i]
		if delim != '.' && delim != ')' {
			return nil, false
		}
		rest := trimmed[i+1:]
		if len(rest) > 0 && rest[0] != ' ' && rest[0] != '\t' {
			return nil, false
		}
		spaces := countLeadingSpaces(rest)
		num, _ := strconv.Atoi(string(trimmed[:i]))
		return &ListInfo{
			MarkerType:        MarkerOrdered,
			Marker:            string(trimmed[:i+1]),
			Indent:            indent,
			SpacesAfterMarker: spaces,
			ContentOffset:     indent + i + 1 + spaces,
			OrderedIndex:      num,
			Delimiter:         string(delim),
		}, true
	}
}

func startsListMarker(content []byte) bool {
	_, ok := parseListMarker(content)
	return ok
}

func countLeadingSpaces(b []byte) int {
	n := 0
	for n < len(b) && (b[n] == ' ' || b[n] == '\t') {
		n++
	}
	return n
}

// --- Step 9: horizontal rules ------------------------------------------------

func scanHorizontalRules(idx *LineIndex, lines []LineInfo) {
	for ln := 1; ln <= idx.Count(); ln++ {
		li := &lines[ln-1]
		if li.InFrontMatter || li.InCodeBlock || li.InHTMLBlock || li.IsFenceLine ||
			li.InHTMLComment || li.IsBlank() || li.Heading != nil {
			continue
		}
		text := string(idx.Content(ln))
		if li.Blockquote != nil {
			text = li.Blockquote.Content
		}
		if isThematicBreak(text) {
			li.IsHorizontalRule = true
		}
	}
}

// isThematicBreak reports whether trimmed matches a thematic break: at
// least three of '-', '*', or '_' (all the same character), optionally
// separated by spaces, nothing else on the line.
func isThematicBreak(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return false
	}
	var marker byte
	count := 0
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c != '-' && c != '*' && c != '_' {
			return false
		}
		if marker == 0 {
			marker = c
		} else if c != marker {
			return false
		}
		count++
	}
	return count >= 3
}
