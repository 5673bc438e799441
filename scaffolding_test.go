package edgar

import "testing"

// TestFilterScaffolding_DropsBlankAbstractRows: a row labeled
// "Assets [Abstract]" and a row tagged with a concept ending in "Abstract",
// both blank-valued, are dropped when scaffold-keeping is disabled.
func TestFilterScaffolding_DropsBlankAbstractRows(t *testing.T) {
	rows := [][]string{
		{"Header", "2024"},
		{"Assets [Abstract]", ""},
		{"Current assets abstract row", ""},
		{"Cash", "100"},
	}
	indentPx := []int{0, 0, 0, 0}
	meta := []RowMeta{
		{},
		{},
		{Concepts: []string{"us-gaap:AssetsAbstract"}},
		{},
	}

	outRows, _, outMeta := FilterScaffolding(rows, indentPx, meta, false)
	if len(outRows) != 2 {
		t.Fatalf("expected both scaffold rows dropped, got %d rows: %v", len(outRows), outRows)
	}
	if outRows[0][0] != "Header" || outRows[1][0] != "Cash" {
		t.Errorf("expected only Header and Cash to survive, got %v", outRows)
	}
	if outMeta[1].Scaffold {
		t.Errorf("expected the surviving Cash row not flagged as scaffold")
	}
}

func TestFilterScaffolding_KeepAbstractRetainsRowsButFlagsThem(t *testing.T) {
	rows := [][]string{
		{"Header", "2024"},
		{"Assets [Abstract]", ""},
	}
	indentPx := []int{0, 0}
	meta := []RowMeta{{}, {}}

	outRows, _, outMeta := FilterScaffolding(rows, indentPx, meta, true)
	if len(outRows) != 2 {
		t.Fatalf("expected scaffold rows kept when keepAbstract is set, got %d", len(outRows))
	}
	if !outMeta[1].Scaffold {
		t.Error("expected the [Abstract] row to be flagged scaffold even when kept")
	}
}

func TestFilterScaffolding_ScaffoldLabelWithDataIsKeptUnconditionally(t *testing.T) {
	rows := [][]string{
		{"Header", "2024"},
		{"Assets [Abstract]", "100"},
	}
	indentPx := []int{0, 0}
	meta := []RowMeta{{}, {}}

	outRows, _, outMeta := FilterScaffolding(rows, indentPx, meta, false)
	if len(outRows) != 2 {
		t.Fatalf("expected a scaffold-labeled row with a value kept, got %d rows", len(outRows))
	}
	if !outMeta[1].Scaffold {
		t.Error("expected the row still flagged scaffold even though it carried a value")
	}
}
