package edgar

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// tableProfile summarizes a rectangular grid for scoring: the widest row,
// how many cells look numeric, how many mention a year, and how many are
// non-blank at all.
func tableProfile(rows [][]string) (colCount, numeric, years, nonempty int) {
	if len(rows) == 0 {
		return 0, 0, 0, 0
	}
	for _, r := range rows {
		if len(r) > colCount {
			colCount = len(r)
		}
	}
	for _, r := range rows {
		for _, c := range r {
			t := strings.TrimSpace(strings.ReplaceAll(c, " ", " "))
			if t == "" {
				continue
			}
			nonempty++
			if isNumericish(t) {
				numeric++
			}
			if yearRe.MatchString(t) {
				years++
			}
		}
	}
	return colCount, numeric, years, nonempty
}

type tableCandidate struct {
	docIndex int
	rows     [][]string
	indentPx []int
	meta     []RowMeta
	colCount int
	numeric  int
	score    int
}

// SelectAndStitchTables scores every table on the page, picks the
// highest-scoring one as the statement's primary table, and appends up to
// three document-order continuation tables whose shape matches closely
// enough to be the same statement split across page boundaries. The result
// is then passed through the header merger.
func SelectAndStitchTables(doc *html.Node) ([][]string, []int, []RowMeta) {
	cssMap := buildCSSIndentMap(doc)
	tables := findAllTablesInOrder(doc)
	if len(tables) == 0 {
		return nil, nil, nil
	}

	var candidates []tableCandidate
	for idx, tbl := range tables {
		rows, indentPx, meta := extractTableRows(tbl, cssMap)
		if len(rows) == 0 {
			continue
		}
		colCount, numeric, years, nonempty := tableProfile(rows)
		score := numeric*3 + years*2 + minInt(len(rows), 220)
		if colCount < 2 || nonempty < 12 {
			score -= 500
		}
		candidates = append(candidates, tableCandidate{
			docIndex: idx, rows: rows, indentPx: indentPx, meta: meta,
			colCount: colCount, numeric: numeric, score: score,
		})
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	byDoc := make([]tableCandidate, len(candidates))
	copy(byDoc, candidates)
	sort.SliceStable(byDoc, func(i, j int) bool { return byDoc[i].docIndex < byDoc[j].docIndex })

	startPos := 0
	for i, c := range byDoc {
		if c.docIndex == best.docIndex {
			startPos = i
			break
		}
	}

	combinedRows := append([][]string(nil), best.rows...)
	combinedIndent := append([]int(nil), best.indentPx...)
	combinedMeta := append([]RowMeta(nil), best.meta...)

	headSig := ""
	if len(combinedRows) > 0 {
		headSig = normRow(combinedRows[0])
	}

	end := startPos + 4
	if end > len(byDoc) {
		end = len(byDoc)
	}
	for k := startPos + 1; k < end; k++ {
		cand := byDoc[k]
		if !looksLikeContinuation(cand, best.colCount, best.numeric) {
			break
		}

		drop := 0
		limit := minInt(3, len(cand.rows))
		for t := 0; t < limit; t++ {
			if normRow(cand.rows[t]) == headSig {
				drop = t + 1
			}
		}
		combinedRows = append(combinedRows, cand.rows[drop:]...)
		combinedIndent = append(combinedIndent, cand.indentPx[drop:]...)
		combinedMeta = append(combinedMeta, cand.meta[drop:]...)
	}

	return mergeMultilineHeaders(combinedRows, combinedIndent, combinedMeta)
}

func looksLikeContinuation(c tableCandidate, baseCols, baseNumeric int) bool {
	colCount, numeric, _, nonempty := tableProfile(c.rows)
	if colCount != baseCols {
		return false
	}
	if nonempty < 8 {
		return false
	}
	threshold := baseNumeric * 12 / 100
	if threshold < 6 {
		threshold = 6
	}
	return numeric >= threshold
}

func normRow(row []string) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(c, " ", " ")))
	}
	return strings.Join(parts, " | ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mergeMultilineHeaders collapses the leading run of header rows (up to the
// first 10) into a single row: a row joins the run while it has at least
// one non-blank value cell, no value cell looks numeric, and it carries a
// year or a period-hint phrase. The run's value columns are concatenated
// space-separated per column; the label column keeps the first row's text.
func mergeMultilineHeaders(rows [][]string, indentPx []int, meta []RowMeta) ([][]string, []int, []RowMeta) {
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

	limit := minInt(10, len(rows))
	var headerBlock [][]string
	for i := 0; i < limit; i++ {
		r := rows[i]
		hasValue := false
		for _, v := range r[1:] {
			if strings.TrimSpace(v) != "" {
				hasValue = true
				break
			}
		}
		if !hasValue {
			break
		}
		numeric := false
		for _, v := range r[1:] {
			if strings.TrimSpace(v) != "" && isNumericish(v) {
				numeric = true
				break
			}
		}
		if numeric {
			break
		}
		if !rowHasHeaderHint(r) {
			break
		}
		headerBlock = append(headerBlock, r)
	}

	if len(headerBlock) < 2 {
		return rows, indentPx, meta
	}

	colCount := width - 1
	cols := make([]string, colCount)
	for _, hr := range headerBlock {
		for j := 0; j < colCount; j++ {
			part := strings.TrimSpace(hr[j+1])
			if part == "" {
				continue
			}
			if cols[j] == "" {
				cols[j] = part
			} else {
				cols[j] = cols[j] + " " + part
			}
		}
	}

	merged := append([]string{headerBlock[0][0]}, cols...)
	n := len(headerBlock)
	newRows := append([][]string{merged}, rows[n:]...)

	firstIndent := 0
	if len(indentPx) > 0 {
		firstIndent = indentPx[0]
	}
	newIndent := append([]int{firstIndent}, indentPx[n:]...)

	firstMeta := RowMeta{}
	if len(meta) > 0 {
		firstMeta = meta[0]
	}
	newMeta := append([]RowMeta{firstMeta}, meta[n:]...)

	return newRows, newIndent, newMeta
}
