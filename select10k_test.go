package edgar

import "testing"

// TestSelect10Ks_FiltersAndOrders: a submission history with two 10-Ks and
// one 10-Q returns only the 10-Ks, newest filing date first.
func TestSelect10Ks_FiltersAndOrders(t *testing.T) {
	filings := []Filing{
		{AccessionNumber: "0000000000-23-000001", Form: "10-K", FilingDate: "2023-02-01"},
		{AccessionNumber: "0000000000-23-000002", Form: "10-Q", FilingDate: "2023-05-01"},
		{AccessionNumber: "0000000000-24-000001", Form: "10-K", FilingDate: "2024-02-01"},
	}

	got := Select10Ks(filings, 5, 5, false)
	if len(got) != 2 {
		t.Fatalf("expected 2 10-Ks, got %d", len(got))
	}
	if got[0].AccessionNumber != "0000000000-24-000001" || got[1].AccessionNumber != "0000000000-23-000001" {
		t.Errorf("expected newest filing first, got %v", got)
	}
}

func TestSelect10Ks_IncludeAmends(t *testing.T) {
	filings := []Filing{
		{AccessionNumber: "a1", Form: "10-K/A", FilingDate: "2024-01-01"},
		{AccessionNumber: "a2", Form: "10-K", FilingDate: "2023-01-01"},
	}

	withoutAmends := Select10Ks(filings, 10, 5, false)
	if len(withoutAmends) != 1 || withoutAmends[0].AccessionNumber != "a2" {
		t.Errorf("expected only a2 without amends, got %v", withoutAmends)
	}

	withAmends := Select10Ks(filings, 10, 5, true)
	if len(withAmends) != 2 {
		t.Errorf("expected both filings with amends included, got %v", withAmends)
	}
}

// TestSelect10Ks_DedupAndLimit: the result never exceeds limit and
// accession numbers are unique.
func TestSelect10Ks_DedupAndLimit(t *testing.T) {
	filings := []Filing{
		{AccessionNumber: "dup", Form: "10-K", FilingDate: "2024-01-01"},
		{AccessionNumber: "dup", Form: "10-K", FilingDate: "2024-01-01"},
		{AccessionNumber: "other", Form: "10-K", FilingDate: "2023-06-01"},
	}

	got := Select10Ks(filings, 10, 1, false)
	if len(got) != 1 {
		t.Fatalf("expected limit to cap results at 1, got %d", len(got))
	}
	if got[0].AccessionNumber != "dup" {
		t.Errorf("expected the deduplicated 'dup' filing first, got %s", got[0].AccessionNumber)
	}
}

func TestSelect10Ks_EmptyAccessionDropped(t *testing.T) {
	filings := []Filing{
		{AccessionNumber: "", Form: "10-K", FilingDate: "2024-01-01"},
		{AccessionNumber: "keep", Form: "10-K", FilingDate: "2024-01-01"},
	}
	got := Select10Ks(filings, 10, 5, false)
	if len(got) != 1 || got[0].AccessionNumber != "keep" {
		t.Errorf("expected the blank-accession filing dropped, got %v", got)
	}
}

func TestSelect10Ks_OutsideWindowExcluded(t *testing.T) {
	filings := []Filing{
		{AccessionNumber: "old", Form: "10-K", FilingDate: "2000-01-01"},
	}
	got := Select10Ks(filings, 1, 5, false)
	if len(got) != 0 {
		t.Errorf("expected filing older than the lookback window excluded, got %v", got)
	}
}
