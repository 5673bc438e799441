package edgar

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	numericishRe = regexp.MustCompile(`^\s*\(?\s*-?\s*\$?\s*\d[\d,]*(\.\d+)?\s*\)?\s*$`)
	bareYearRe   = regexp.MustCompile(`^(19|20)\d{2}$`)
	yearRe       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	headerWordRe = regexp.MustCompile(`(?i)\b(months|years)\s+ended\b|\bas\s+of\b|\bended\b`)

	cssRuleRe = regexp.MustCompile(`(?is)\.([A-Za-z0-9_-]+)\s*\{[^}]*?(padding-left|margin-left|text-indent)\s*:\s*([0-9.]+)\s*(px|pt|em|rem)\s*;?[^}]*\}`)
	styleRe   = regexp.MustCompile(`(?i)(padding-left|margin-left|text-indent)\s*:\s*([0-9.]+)\s*(px|pt|em|rem)`)
	classLvlRe = regexp.MustCompile(`(?i)^(?:pl|padl|indent|lvl|level)[-_]?(\d+)$`)

	ixConceptRe = regexp.MustCompile(`(?i)^(ix:)?(nonfraction|nonnumeric)$`)
)

// isNumericish reports whether a cell's text looks like a financial value:
// plain or comma-grouped digits, optionally signed, dollar-prefixed, or
// parenthesized for a loss, or one of the dash glyphs EDGAR uses for zero.
func isNumericish(s string) bool {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	if s == "" {
		return false
	}
	switch s {
	case "—", "-", "–":
		return true
	}
	// A bare four-digit year is a column header, not a value.
	if bareYearRe.MatchString(s) {
		return false
	}
	return numericishRe.MatchString(s)
}

// rowHasHeaderHint reports whether a row's text plausibly names a reporting
// period ("Year Ended December 31,", "As of", a bare four-digit year).
func rowHasHeaderHint(row []string) bool {
	blob := strings.TrimSpace(strings.ReplaceAll(strings.Join(row, " "), " ", " "))
	if blob == "" {
		return false
	}
	return yearRe.MatchString(blob) || headerWordRe.MatchString(blob)
}

// toPx converts a CSS length to pixels using the same fixed ratios browsers
// use for print units: 96 CSS px per 72 pt, and a 16px root font size for
// em/rem.
func toPx(val float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "px":
		return val
	case "pt":
		return val * (96.0 / 72.0)
	case "em", "rem":
		return val * 16.0
	default:
		return val
	}
}

// buildCSSIndentMap scans every <style> element in the document for class
// rules that set padding-left/margin-left/text-indent, keeping the largest
// pixel value seen per class (a class may be defined more than once across
// stylesheets with differing specificity).
func buildCSSIndentMap(doc *html.Node) map[string]float64 {
	m := make(map[string]float64)
	walkElements(doc, "style", func(n *html.Node) {
		css := textContent(n)
		for _, match := range cssRuleRe.FindAllStringSubmatch(css, -1) {
			cls, num, unit := match[1], match[3], match[4]
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				continue
			}
			px := toPx(v, unit)
			if prev, ok := m[cls]; !ok || px > prev {
				m[cls] = px
			}
		}
	})
	return m
}

// extractIndentPx combines the four independent indentation signals
// additively by maximum: no signal short-circuits another. Inline style and
// CSS class rules are both expressed in pixels directly; the class-name
// convention and NBSP count are each converted to an equivalent pixel
// value (12px/level, 4px/NBSP) before comparison.
func extractIndentPx(cell *html.Node, cssMap map[string]float64) int {
	best := 0.0

	for _, attr := range cell.Attr {
		if attr.Key == "style" {
			best = maxStyleIndent(best, attr.Val)
		}
	}
	walkElements(cell, "", func(n *html.Node) {
		for _, attr := range n.Attr {
			if attr.Key == "style" {
				best = maxStyleIndent(best, attr.Val)
			}
		}
	})

	classes := cellClasses(cell)
	for _, cls := range classes {
		if px, ok := cssMap[cls]; ok && px > best {
			best = px
		}
	}
	for _, cls := range classes {
		if m := classLvlRe.FindStringSubmatch(cls); m != nil {
			lvl, _ := strconv.Atoi(m[1])
			if px := float64(lvl) * 12.0; px > best {
				best = px
			}
		}
	}

	nbsp := leadingNBSPCount(cell)
	if px := float64(nbsp) * 4.0; px > best {
		best = px
	}

	return int(best + 0.5)
}

func maxStyleIndent(best float64, style string) float64 {
	for _, m := range styleRe.FindAllStringSubmatch(style, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if px := toPx(v, m[3]); px > best {
			best = px
		}
	}
	return best
}

func cellClasses(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

// leadingNBSPCount counts leading non-breaking spaces in a cell's raw text,
// before any whitespace normalization. EDGAR's renderer frequently encodes
// indentation this way when no CSS class is present.
func leadingNBSPCount(cell *html.Node) int {
	raw := rawTextContent(cell)
	count := 0
	for _, r := range raw {
		if r == ' ' {
			count++
			continue
		}
		if r == ' ' {
			continue
		}
		break
	}
	return count
}

// extractConcepts collects the XBRL concept names tagged on a cell's
// inline-XBRL descendants (ix:nonFraction / ix:nonNumeric), in document
// order, de-duplicated.
func extractConcepts(cell *html.Node) []string {
	var out []string
	seen := make(map[string]bool)
	walkElements(cell, "", func(n *html.Node) {
		if !ixConceptRe.MatchString(n.Data) {
			return
		}
		name := getHTMLAttr(n, "name")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	})
	return out
}

// RowMeta carries per-row data that rides alongside the cell grid but isn't
// itself tabular: the XBRL concepts a row's label was tagged with, and
// whether scaffolding filtering flagged the row as structural.
type RowMeta struct {
	Concepts []string `json:"concepts"`
	Scaffold bool     `json:"scaffold"`
}

// extractTableRows walks one <table> and produces a rectangular grid of
// cell text, a parallel per-row indent-in-pixels vector, and per-row
// metadata. Column/row spans are expanded by draining a span map keyed by
// column index as each row is read.
func extractTableRows(table *html.Node, cssMap map[string]float64) ([][]string, []int, []RowMeta) {
	type spanEntry struct {
		remaining int
		text      string
	}
	spanMap := make(map[int]spanEntry)

	var rows [][]string
	var indentPx []int
	var metas []RowMeta

	for _, tr := range findChildren(table, "tr") {
		cells := findCells(tr)
		if len(cells) == 0 && len(spanMap) == 0 {
			continue
		}

		var row []string
		col := 0
		drain := func() {
			for {
				e, ok := spanMap[col]
				if !ok {
					return
				}
				row = append(row, e.text)
				if e.remaining <= 1 {
					delete(spanMap, col)
				} else {
					spanMap[col] = spanEntry{remaining: e.remaining - 1, text: e.text}
				}
				col++
			}
		}

		drain()

		var rowIndent int
		var rowConcepts []string
		if len(cells) > 0 {
			rowIndent = extractIndentPx(cells[0], cssMap)
			rowConcepts = extractConcepts(cells[0])
		}

		for _, cell := range cells {
			drain()
			txt := strings.TrimSpace(strings.ReplaceAll(textContentSpaced(cell), " ", " "))

			colspan := parseSpanAttr(cell, "colspan")
			rowspan := parseSpanAttr(cell, "rowspan")

			for i := 0; i < colspan; i++ {
				row = append(row, txt)
				if rowspan > 1 {
					spanMap[col] = spanEntry{remaining: rowspan - 1, text: txt}
				}
				col++
			}
		}

		drain()

		if anyNonEmpty(row) {
			rows = append(rows, row)
			indentPx = append(indentPx, rowIndent)
			metas = append(metas, RowMeta{Concepts: rowConcepts})
		}
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		if len(r) < width {
			rows[i] = append(r, make([]string, width-len(r))...)
		}
	}
	return rows, indentPx, metas
}

func parseSpanAttr(cell *html.Node, name string) int {
	v := getHTMLAttr(cell, name)
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func anyNonEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// --- DOM helpers ---
//
// These walk golang.org/x/net/html trees with the same recursive-closure
// idiom throughout: a local `f` function that checks the current node and
// then recurses over FirstChild/NextSibling.

func getHTMLAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// walkElements calls fn for every element node in n's subtree whose tag
// matches data (or every element, if data is empty), including n itself.
func walkElements(n *html.Node, data string, fn func(*html.Node)) {
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && (data == "" || n.Data == data) {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
}

// findAllTablesInOrder returns every <table> element in document order.
func findAllTablesInOrder(n *html.Node) []*html.Node {
	var tables []*html.Node
	walkElements(n, "table", func(n *html.Node) {
		tables = append(tables, n)
	})
	return tables
}

// findChildren returns the descendants of n matching tag, in document
// order, but does not recurse into nested tables (a <tr> inside a nested
// table belongs to that table, not n).
func findChildren(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var f func(*html.Node, bool)
	f = func(n *html.Node, topTable bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			if c.Type == html.ElementNode && c.Data == "table" && !topTable {
				continue
			}
			f(c, false)
		}
	}
	f(n, true)
	return out
}

func findCells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			out = append(out, c)
		}
	}
	return out
}

// rawTextContent concatenates text nodes with no separator, preserving
// leading NBSP runs exactly as authored.
func rawTextContent(n *html.Node) string {
	var b strings.Builder
	walkText(n, func(s string) { b.WriteString(s) })
	return b.String()
}

// textContentSpaced concatenates text nodes with a separating space so that
// text split across inline elements doesn't run together.
func textContentSpaced(n *html.Node) string {
	var b strings.Builder
	first := true
	walkText(n, func(s string) {
		if !first {
			b.WriteString(" ")
		}
		b.WriteString(s)
		first = false
	})
	return b.String()
}

// textContent concatenates text nodes with no separator; used for <style>
// blocks where whitespace inside the CSS is irrelevant to the regex scan.
func textContent(n *html.Node) string {
	var b strings.Builder
	walkText(n, func(s string) { b.WriteString(s) })
	return b.String()
}

func walkText(n *html.Node, fn func(string)) {
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			fn(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
}
