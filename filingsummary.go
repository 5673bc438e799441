package edgar

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// Report describes one subdocument of a filing, as listed in
// FilingSummary.xml.
type Report struct {
	ShortName  string
	LongName   string
	HTMLFile   string
	ReportType string
}

// filingSummaryXML mirrors the subset of FilingSummary.xml's schema this
// package reads; EDGAR's own schema carries many more fields we don't use.
type filingSummaryXML struct {
	XMLName xml.Name `xml:"FilingSummary"`
	Reports struct {
		Report []struct {
			ShortName    string `xml:"ShortName"`
			LongName     string `xml:"LongName"`
			HTMLFileName string `xml:"HtmlFileName"`
			ReportType   string `xml:"ReportType"`
		} `xml:"Report"`
	} `xml:"Reports"`
}

// FetchFilingSummary locates and returns the raw FilingSummary.xml body for
// a filing, plus the URL it was fetched from. EDGAR is inconsistent about
// the file's name casing across older filings, so this tries the two
// conventional spellings before falling back to scanning the filing
// directory's index.json.
func FetchFilingSummary(ctx context.Context, c *Client, baseDir string) (xmlBody string, sourceURL string, err error) {
	for _, name := range []string{"FilingSummary.xml", "filingsummary.xml"} {
		url := baseDir + "/" + name
		code, body, err := c.GetText(ctx, url)
		if err != nil {
			return "", "", err
		}
		if code == 200 && strings.Contains(body, "<FilingSummary") {
			return body, url, nil
		}
	}

	indexURL := baseDir + "/index.json"
	code, raw, err := c.GetBytes(ctx, indexURL)
	if err != nil {
		return "", "", err
	}
	if code != 200 {
		return "", "", eris.Errorf("FilingSummary.xml not found and index.json unavailable (HTTP %d) at %s", code, indexURL)
	}

	var idx struct {
		Directory struct {
			Item []struct {
				Name string `json:"name"`
			} `json:"item"`
		} `json:"directory"`
	}
	if err := json.Unmarshal(raw, &idx); err != nil {
		return "", "", eris.Wrap(err, "parsing index.json")
	}

	var candidate string
	for _, item := range idx.Directory.Item {
		if strings.EqualFold(item.Name, "FilingSummary.xml") {
			candidate = item.Name
			break
		}
	}
	if candidate == "" {
		return "", "", eris.Errorf("FilingSummary.xml not present in index.json listing for %s", baseDir)
	}

	url := baseDir + "/" + candidate
	code, body, err := c.GetText(ctx, url)
	if err != nil {
		return "", "", err
	}
	if code != 200 {
		return "", "", eris.Errorf("HTTP %d for %s", code, url)
	}
	return body, url, nil
}

// ParseReports parses FilingSummary.xml into its constituent reports.
// Reports with no HTML rendering are skipped; they carry nothing this
// package can extract.
func ParseReports(raw string) ([]Report, error) {
	var doc filingSummaryXML
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, eris.Wrap(err, "parsing FilingSummary.xml")
	}

	var reports []Report
	for _, r := range doc.Reports.Report {
		htmlFile := strings.TrimSpace(r.HTMLFileName)
		if htmlFile == "" {
			continue
		}
		reports = append(reports, Report{
			ShortName:  strings.TrimSpace(r.ShortName),
			LongName:   strings.TrimSpace(r.LongName),
			HTMLFile:   path.Base(htmlFile),
			ReportType: strings.TrimSpace(r.ReportType),
		})
	}
	return reports, nil
}

// StatementKind names one of the three primary financial statements this
// package extracts.
type StatementKind string

const (
	BalanceSheet    StatementKind = "BS"
	IncomeStatement StatementKind = "IS"
	CashFlow        StatementKind = "CFS"
)

var reportKeywords = map[StatementKind]struct{ must, avoid []string }{
	BalanceSheet: {
		must:  []string{"balance sheet", "financial position", "statement of financial position"},
		avoid: []string{"parenthetical", "changes in", "equity", "cash flows", "operations", "income", "earnings"},
	},
	IncomeStatement: {
		must: []string{
			"statement of operations", "statements of operations",
			"income statement", "statements of income",
			"statement of earnings", "statements of earnings",
			"results of operations",
		},
		avoid: []string{"comprehensive", "parenthetical", "balance sheet", "cash flows", "equity"},
	},
	CashFlow: {
		must:  []string{"cash flows", "cash flow"},
		avoid: []string{"parenthetical", "balance sheet", "operations", "income", "earnings", "equity"},
	},
}

// PickReport scores every candidate report against the must/avoid keyword
// lists for kind and returns the highest scorer, or nil if the best score
// is not strictly positive. Ties keep the first-seen report, matching the
// stable iteration over reports in document order.
func PickReport(reports []Report, kind StatementKind) *Report {
	kw, ok := reportKeywords[kind]
	if !ok {
		return nil
	}

	var best *Report
	bestScore := -1 << 30
	for i := range reports {
		r := &reports[i]
		score := scoreReport(r, kw.must, kw.avoid)
		if score > bestScore {
			bestScore = score
			best = r
		}
	}
	if best == nil || bestScore <= 0 {
		return nil
	}
	return best
}

func scoreReport(r *Report, must, avoid []string) int {
	text := strings.ToLower(r.ShortName + " " + r.LongName)
	score := 0
	for _, m := range must {
		if strings.Contains(text, m) {
			score += 10
		}
	}
	for _, a := range avoid {
		if strings.Contains(text, a) {
			score -= 8
		}
	}
	lowerFile := strings.ToLower(r.HTMLFile)
	if strings.HasSuffix(lowerFile, ".htm") || strings.HasSuffix(lowerFile, ".html") {
		score++
	}
	rt := strings.ToLower(r.ReportType)
	if rt == "sheet" || rt == "statement" {
		score++
	}
	return score
}
