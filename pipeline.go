package edgar

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Options configures a full ingestion run for one company.
type Options struct {
	CIK            string
	Years          int
	Limit          int
	OutDir         string
	UserAgent      string
	IncludeAmends  bool
	KeepAbstract   bool
	TimeoutSecs    int
	MinIntervalSec float64
	MaxBytes       int64
}

var statementKinds = []StatementKind{BalanceSheet, IncomeStatement, CashFlow}

// nowFn is overridable in tests so manifest timestamps are deterministic.
var nowFn = func() time.Time { return time.Now().UTC() }

// Run executes the full pipeline for one CIK: gather filings, select
// 10-Ks, and for each one load FilingSummary.xml, pick a report per
// statement kind, fetch and reconstruct that report's table, and write the
// resulting artifacts. Filings and statements within a filing are
// processed in a fixed order (selector order, then
// FilingSummary -> BS -> IS -> CFS) so manifest entries are reproducible
// run to run even when some statements fail.
func Run(ctx context.Context, opts Options) (*CompanyManifest, error) {
	if opts.UserAgent == "" {
		return nil, eris.New("user agent is required")
	}
	cik10, err := NormalizeCIK(opts.CIK)
	if err != nil {
		return nil, eris.Wrap(err, "normalizing CIK")
	}

	years, limit := opts.Years, opts.Limit
	if years <= 0 {
		years = 5
	}
	if limit <= 0 {
		limit = 5
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "sec_statements_out"
	}

	client, err := NewClient(ClientOptions{
		UserAgent:   opts.UserAgent,
		TimeoutSecs: opts.TimeoutSecs,
		MinInterval: orDefault(opts.MinIntervalSec, DefaultMinInterval),
		MaxBytes:    orDefaultInt64(opts.MaxBytes, DefaultMaxBytes),
	})
	if err != nil {
		return nil, err
	}

	subs, rawFilings, err := GatherFilings(ctx, client, cik10)
	if err != nil {
		return nil, eris.Wrap(err, "gathering filings")
	}

	filings := Select10Ks(rawFilings, years, limit, opts.IncludeAmends)
	if len(filings) == 0 {
		return nil, eris.New("no matching 10-K filings found in the requested window")
	}

	outRoot := filepath.Join(outDir, cik10)

	manifest := &CompanyManifest{
		CIK:            cik10,
		Name:           subs.Name,
		SICDescription: subs.SICDescription,
		Tickers:        subs.Tickers,
		GeneratedAt:    nowFn().Format(time.RFC3339),
	}

	for _, f := range filings {
		entry := processFiling(ctx, client, cik10, outRoot, f, opts.KeepAbstract)
		manifest.Filings = append(manifest.Filings, entry)
	}

	if _, err := WriteManifest(outRoot, *manifest); err != nil {
		return nil, eris.Wrap(err, "writing manifest")
	}

	return manifest, nil
}

func processFiling(ctx context.Context, client *Client, cik10, outRoot string, f Filing, keepAbstract bool) FilingEntry {
	baseURL := FilingBaseURL(cik10, f.AccessionNumber)
	entry := FilingEntry{
		AccessionNumber: f.AccessionNumber,
		Form:            f.Form,
		FilingDate:      f.FilingDate,
		ReportDate:      f.ReportDate,
		BaseURL:         baseURL,
		ReportsPicked:   map[StatementKind]ReportRef{},
		Outputs:         map[StatementKind]OutputPaths{},
	}
	filingRel := f.AccessionNumber

	fsXML, fsURL, err := FetchFilingSummary(ctx, client, baseURL)
	if err != nil {
		entry.Errors = append(entry.Errors, eris.Wrap(err, "FilingSummary").Error())
		return entry
	}
	entry.FilingSummaryURL = fsURL
	if _, err := writeText(outRoot, filepath.Join(filingRel, "FilingSummary.xml"), fsXML); err != nil {
		entry.Errors = append(entry.Errors, err.Error())
	}

	reports, err := ParseReports(fsXML)
	if err != nil {
		entry.Errors = append(entry.Errors, eris.Wrap(err, "parsing FilingSummary.xml").Error())
		return entry
	}

	for _, kind := range statementKinds {
		rep := PickReport(reports, kind)
		if rep == nil {
			entry.Errors = append(entry.Errors, string(kind)+": report not found in FilingSummary.xml")
			continue
		}

		repURL := baseURL + "/" + rep.HTMLFile
		code, reportHTML, err := client.GetText(ctx, repURL)
		if err != nil {
			entry.Errors = append(entry.Errors, string(kind)+": "+err.Error())
			continue
		}
		if code != 200 {
			entry.Errors = append(entry.Errors, eris.Errorf("%s: HTTP %d for %s", kind, code, rep.HTMLFile).Error())
			continue
		}
		if _, err := writeText(outRoot, filepath.Join(filingRel, rep.HTMLFile), reportHTML); err != nil {
			entry.Errors = append(entry.Errors, err.Error())
		}

		doc, err := html.Parse(strings.NewReader(reportHTML))
		if err != nil {
			entry.Errors = append(entry.Errors, eris.Wrapf(err, "%s: parsing %s", kind, rep.HTMLFile).Error())
			continue
		}

		rows, indentPx, meta := SelectAndStitchTables(doc)
		if len(rows) == 0 {
			entry.Errors = append(entry.Errors, string(kind)+": could not parse statement tables from "+rep.HTMLFile)
			continue
		}

		rows, indentPx, meta = FilterScaffolding(rows, indentPx, meta, keepAbstract)
		indent, indentMode := ResolveIndent(rows, indentPx, kind)

		artifact := StatementArtifact{
			CIK:             cik10,
			AccessionNumber: f.AccessionNumber,
			Statement:       kind,
			SourceURL:       repURL,
			Report: ReportRef{
				Short: rep.ShortName,
				Long:  rep.LongName,
				File:  rep.HTMLFile,
				Type:  rep.ReportType,
			},
			IndentMode: indentMode,
			Indent:     indent,
			Rows:       rows,
			RowMeta:    meta,
		}

		outputs, err := WriteStatementArtifact(outRoot, filingRel, StatementStem(kind), artifact)
		if err != nil {
			entry.Errors = append(entry.Errors, err.Error())
			continue
		}

		entry.ReportsPicked[kind] = artifact.Report
		entry.Outputs[kind] = outputs
	}

	zap.L().Debug("processed filing",
		zap.String("accession", f.AccessionNumber),
		zap.Int("errors", len(entry.Errors)),
	)

	return entry
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultInt64(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
