package edgar

import "testing"

func TestParseReports(t *testing.T) {
	const xmlBody = `<?xml version="1.0"?>
<FilingSummary>
  <Reports>
    <Report>
      <ShortName>Balance Sheet</ShortName>
      <LongName>Consolidated Balance Sheets</LongName>
      <HtmlFileName>R2.htm</HtmlFileName>
      <ReportType>Sheet</ReportType>
    </Report>
    <Report>
      <ShortName>Cover Page</ShortName>
      <LongName>Document and Entity Information</LongName>
      <HtmlFileName></HtmlFileName>
      <ReportType>Sheet</ReportType>
    </Report>
  </Reports>
</FilingSummary>`

	reports, err := ParseReports(xmlBody)
	if err != nil {
		t.Fatalf("ParseReports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected the report with no HtmlFileName dropped, got %d reports", len(reports))
	}
	if reports[0].HTMLFile != "R2.htm" {
		t.Errorf("HTMLFile = %q, want R2.htm", reports[0].HTMLFile)
	}
}

// TestPickReport_ParentheticalPenalized: among a Balance Sheet, its
// Parenthetical, and a Statement of Operations, IS picks the operations
// statement and BS picks the plain balance sheet (parenthetical is
// penalized out).
func TestPickReport_ParentheticalPenalized(t *testing.T) {
	reports := []Report{
		{ShortName: "Balance Sheet", LongName: "Consolidated Balance Sheet", HTMLFile: "R2.htm", ReportType: "Sheet"},
		{ShortName: "Balance Sheet (Parenthetical)", LongName: "Consolidated Balance Sheet (Parenthetical)", HTMLFile: "R3.htm", ReportType: "Sheet"},
		{ShortName: "Consolidated Statements of Operations", LongName: "Consolidated Statements of Operations", HTMLFile: "R4.htm", ReportType: "Statement"},
	}

	is := PickReport(reports, IncomeStatement)
	if is == nil || is.ShortName != "Consolidated Statements of Operations" {
		t.Errorf("IS pick = %+v, want the statement of operations", is)
	}

	bs := PickReport(reports, BalanceSheet)
	if bs == nil || bs.ShortName != "Balance Sheet" {
		t.Errorf("BS pick = %+v, want the plain balance sheet", bs)
	}
}

func TestPickReport_NoCandidateAboveZero(t *testing.T) {
	reports := []Report{
		{ShortName: "Balance Sheet - Schedule of Investments", LongName: "Schedule of Investments", HTMLFile: "R9.htm"},
	}
	if got := PickReport(reports, CashFlow); got != nil {
		t.Errorf("expected no CFS pick when the best score is <= 0, got %+v", got)
	}
}

func TestPickReport_CashFlowAvoidsParenthetical(t *testing.T) {
	reports := []Report{
		{ShortName: "Statement of Cash Flows", LongName: "Consolidated Statement of Cash Flows", HTMLFile: "R5.htm", ReportType: "Statement"},
		{ShortName: "Statement of Cash Flows (Parenthetical)", LongName: "Statement of Cash Flows (Parenthetical)", HTMLFile: "R6.htm", ReportType: "Statement"},
	}
	got := PickReport(reports, CashFlow)
	if got == nil || got.ShortName != "Statement of Cash Flows" {
		t.Errorf("CFS pick = %+v, want the plain cash flow statement", got)
	}
}
