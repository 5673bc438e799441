package edgar

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// TestIsNumericish pins the recognizer's accept/reject sets: values in all
// the shapes EDGAR renders (comma-grouped, dollar-prefixed, parenthesized
// losses, dash glyphs), but never labels or bare years.
func TestIsNumericish(t *testing.T) {
	accept := []string{"34940", "34,940", "$34,940", "$ 34,940", "(4,774)", "($ 4,774)", "-123", "—", "-", "–"}
	for _, s := range accept {
		if !isNumericish(s) {
			t.Errorf("isNumericish(%q) = false, want true", s)
		}
	}
	reject := []string{"Assets", "", "2024"}
	for _, s := range reject {
		if isNumericish(s) {
			t.Errorf("isNumericish(%q) = true, want false", s)
		}
	}
}

func parseFragment(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return doc
}

func firstTable(t *testing.T, doc *html.Node) *html.Node {
	t.Helper()
	tables := findAllTablesInOrder(doc)
	if len(tables) == 0 {
		t.Fatal("no table found in fragment")
	}
	return tables[0]
}

// TestExtractTableRows_ColspanRowspan verifies that a rowspan="2" label
// cell is repeated into the next row, and a colspan cell expands to N
// identical cells.
func TestExtractTableRows_ColspanRowspan(t *testing.T) {
	const fragment = `
	<table>
	  <tr><td rowspan="2">Total assets</td><td>100</td><td>200</td></tr>
	  <tr><td>50</td></tr>
	  <tr><td colspan="2">Header span</td></tr>
	</table>`

	doc := parseFragment(t, fragment)
	rows, _, _ := extractTableRows(firstTable(t, doc), nil)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Total assets" || rows[0][1] != "100" || rows[0][2] != "200" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "Total assets" || rows[1][1] != "50" {
		t.Errorf("row 1 (rowspan continuation) = %v", rows[1])
	}
	if rows[2][0] != "Header span" || rows[2][1] != "Header span" {
		t.Errorf("row 2 (colspan expansion) = %v", rows[2])
	}
}

func TestExtractTableRows_SkipsAllEmptyRows(t *testing.T) {
	const fragment = `
	<table>
	  <tr><td>Revenue</td><td>100</td></tr>
	  <tr><td></td><td></td></tr>
	  <tr><td>Expenses</td><td>50</td></tr>
	</table>`

	doc := parseFragment(t, fragment)
	rows, _, _ := extractTableRows(firstTable(t, doc), nil)
	if len(rows) != 2 {
		t.Fatalf("expected the blank row skipped, got %d rows: %v", len(rows), rows)
	}
}

// TestExtractIndentPx_ClassAndInlineAgree: rows carrying a "pl2" class
// resolve to 24px (2 * 12), matching an explicit inline padding-left of
// 24px on another row.
func TestExtractIndentPx_ClassAndInlineAgree(t *testing.T) {
	const fragment = `
	<style>.pl2 { padding-left: 24px; }</style>
	<table>
	  <tr><td>Header</td><td>2024</td></tr>
	  <tr><td class="pl2">Cash</td><td>1</td></tr>
	  <tr><td class="pl2">Equivalents</td><td>2</td></tr>
	  <tr><td class="pl2">Restricted cash</td><td>3</td></tr>
	  <tr><td style="padding-left:24px">Total cash</td><td>4</td></tr>
	</table>`

	doc := parseFragment(t, fragment)
	cssMap := buildCSSIndentMap(doc)
	rows, indentPx, _ := extractTableRows(firstTable(t, doc), cssMap)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	want := []int{0, 24, 24, 24, 24}
	for i, w := range want {
		if indentPx[i] != w {
			t.Errorf("row %d indentPx = %d, want %d", i, indentPx[i], w)
		}
	}
}

func TestExtractConcepts_DeduplicatedInDocumentOrder(t *testing.T) {
	const fragment = `
	<table>
	  <tr><td><ix:nonFraction name="us-gaap:Assets">100</ix:nonFraction><ix:nonFraction name="us-gaap:Assets">100</ix:nonFraction></td><td>100</td></tr>
	</table>`
	doc := parseFragment(t, fragment)
	_, _, meta := extractTableRows(firstTable(t, doc), nil)
	if len(meta) != 1 {
		t.Fatalf("expected 1 row, got %d", len(meta))
	}
	if len(meta[0].Concepts) != 1 || meta[0].Concepts[0] != "us-gaap:Assets" {
		t.Errorf("Concepts = %v, want deduplicated [us-gaap:Assets]", meta[0].Concepts)
	}
}
