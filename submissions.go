package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	secSubmissionsBase = "https://data.sec.gov/submissions"
	secArchivesBase    = "https://www.sec.gov/Archives/edgar/data"
)

var cikDigitsRe = regexp.MustCompile(`\D`)

// NormalizeCIK strips non-digit characters and left-pads the remainder to
// ten digits, the form SEC's submissions endpoint expects. It is
// idempotent: NormalizeCIK(NormalizeCIK(x)) == NormalizeCIK(x).
func NormalizeCIK(cik string) (string, error) {
	digits := cikDigitsRe.ReplaceAllString(strings.TrimSpace(cik), "")
	if digits == "" {
		return "", eris.New("CIK must be numeric")
	}
	return fmt.Sprintf("%010s", digits), nil
}

// cikInt drops the zero-padding SEC uses in submissions.json but not in the
// Archives/edgar/data/ URL path.
func cikInt(cik10 string) string {
	n, _ := strconv.Atoi(cik10)
	return strconv.Itoa(n)
}

// accessionNoDash strips the two hyphens from an accession number, the form
// used in filing directory paths.
func accessionNoDash(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// FilingBaseURL returns the Archives directory for a filing, the parent of
// its FilingSummary.xml and rendered reports.
func FilingBaseURL(cik10, accession string) string {
	return fmt.Sprintf("%s/%s/%s", secArchivesBase, cikInt(cik10), accessionNoDash(accession))
}

// Submissions represents the complete SEC submissions data for a CIK.
type Submissions struct {
	CIK            string      `json:"cik"`
	Name           string      `json:"name"`
	SIC            string      `json:"sic"`
	SICDescription string      `json:"sicDescription"`
	Tickers        []string    `json:"tickers"`
	Exchanges      []string    `json:"exchanges"`
	Filings        FilingsData `json:"filings"`
}

// FilingsData contains recent and paginated filings information.
type FilingsData struct {
	Recent FilingArrays `json:"recent"`
	Files  []FilingFile `json:"files"`
}

// FilingFile represents a paginated file containing older filings.
type FilingFile struct {
	Name string `json:"name"`
}

// FilingArrays contains parallel arrays of filing data, one entry per index.
type FilingArrays struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
}

// Filing represents a single filing with the metadata the selector needs.
type Filing struct {
	CIK             string
	AccessionNumber string
	Form            string
	FilingDate      string
	ReportDate      string
}

// GetFilings zips the parallel arrays into a flat slice, truncated to the
// shortest array so a malformed or absent column never causes an
// out-of-bounds read.
func (fa *FilingArrays) GetFilings(cik string) []Filing {
	n := len(fa.Form)
	for _, col := range [][]string{fa.FilingDate, fa.AccessionNumber} {
		if len(col) < n {
			n = len(col)
		}
	}
	filings := make([]Filing, 0, n)
	for i := 0; i < n; i++ {
		f := Filing{
			CIK:             cik,
			AccessionNumber: fa.AccessionNumber[i],
			FilingDate:      fa.FilingDate[i],
			Form:            fa.Form[i],
		}
		if i < len(fa.ReportDate) {
			f.ReportDate = fa.ReportDate[i]
		}
		filings = append(filings, f)
	}
	return filings
}

// FetchSubmissions fetches and parses the CIK submissions JSON from SEC.
func FetchSubmissions(ctx context.Context, c *Client, cik10 string) (*Submissions, error) {
	url := fmt.Sprintf("%s/CIK%s.json", secSubmissionsBase, cik10)
	var subs Submissions
	if err := c.GetJSON(ctx, url, &subs); err != nil {
		return nil, eris.Wrap(err, "fetching submissions")
	}
	return &subs, nil
}

// ParseSubmissions parses a submissions JSON from a reader, for tests and
// offline fixtures.
func ParseSubmissions(r io.Reader) (*Submissions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "reading submissions")
	}
	var subs Submissions
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, eris.Wrap(err, "parsing submissions JSON")
	}
	return &subs, nil
}

// fetchPaginatedFilings fetches and parses one paginated filings file.
func fetchPaginatedFilings(ctx context.Context, c *Client, filename string) (*FilingArrays, error) {
	url := fmt.Sprintf("%s/%s", secSubmissionsBase, filename)
	var fa FilingArrays
	if err := c.GetJSON(ctx, url, &fa); err != nil {
		return nil, eris.Wrapf(err, "fetching paginated filings %s", filename)
	}
	return &fa, nil
}

// GatherFilings returns every filing row for a CIK (the recent window plus
// every paginated history file SEC lists alongside it) together with the
// parsed submissions document, whose company identity fields the manifest
// records.
func GatherFilings(ctx context.Context, c *Client, cik10 string) (*Submissions, []Filing, error) {
	subs, err := FetchSubmissions(ctx, c, cik10)
	if err != nil {
		return nil, nil, err
	}
	all := subs.Filings.Recent.GetFilings(cik10)
	for _, page := range subs.Filings.Files {
		if page.Name == "" {
			continue
		}
		fa, err := fetchPaginatedFilings(ctx, c, page.Name)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, fa.GetFilings(cik10)...)
	}
	return subs, all, nil
}
