package edgar

import (
	"regexp"
	"strings"
)

var scaffoldLabelRe = regexp.MustCompile(`(?i)\[(?:abstract|line items|table|axis|member)\]\s*$`)

// valuesBlank reports whether every value column (everything but the label
// in column 0) is blank.
func valuesBlank(row []string) bool {
	for _, c := range row[1:] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isScaffoldRow(label string, concepts []string) bool {
	if scaffoldLabelRe.MatchString(label) {
		return true
	}
	for _, c := range concepts {
		if strings.HasSuffix(strings.ToLower(c), "abstract") {
			return true
		}
	}
	return false
}

// FilterScaffolding drops XBRL structural rows ([Abstract], [Axis],
// [Member], [Table], [Line Items]) that carry no data, and tags the
// remaining rows with whether they were scaffolding at all. A scaffold row
// with any non-blank value is kept regardless of keepAbstract: it isn't
// pure scaffolding if EDGAR put a number on it. Rows whose label cell is
// blank are always dropped, whatever keepAbstract says.
func FilterScaffolding(rows [][]string, indentPx []int, meta []RowMeta, keepAbstract bool) ([][]string, []int, []RowMeta) {
	var outRows [][]string
	var outIndent []int
	var outMeta []RowMeta

	for i, r := range rows {
		label := strings.TrimSpace(r[0])
		if label == "" {
			continue
		}

		concepts := meta[i].Concepts
		scaffold := isScaffoldRow(label, concepts)

		if !keepAbstract && scaffold && valuesBlank(r) {
			continue
		}

		outRows = append(outRows, r)
		outIndent = append(outIndent, indentPx[i])
		m := meta[i]
		m.Scaffold = scaffold
		outMeta = append(outMeta, m)
	}

	return outRows, outIndent, outMeta
}
