package edgar

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// safeJoin resolves root/rel and refuses to return a path that escapes
// root, whether by ".." traversal or a symlink resolving outside it. Since
// rel's leaf components are typically being created for the first time,
// symlinks are only resolved along the longest already-existing prefix of
// the joined path; anything below that prefix is plain, not-yet-created
// directories and can't itself be a symlink.
func safeJoin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", eris.Wrap(err, "resolving output root")
	}
	realRoot, err := realOrSelf(absRoot)
	if err != nil {
		return "", eris.Wrap(err, "resolving output root")
	}

	joined := filepath.Join(absRoot, rel)
	realJoined, err := realExistingPrefix(joined)
	if err != nil {
		return "", eris.Wrap(err, "resolving output path")
	}

	if err := rejectEscape(realRoot, realJoined); err != nil {
		return "", eris.Wrapf(err, "refusing to write outside output directory: %s", rel)
	}
	return joined, nil
}

// realOrSelf resolves symlinks in path, falling back to the lexical path
// itself if it doesn't exist yet.
func realOrSelf(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", err
	}
	return real, nil
}

// realExistingPrefix resolves symlinks along the longest prefix of path
// that already exists on disk, then rejoins the remaining, not-yet-created
// components lexically.
func realExistingPrefix(path string) (string, error) {
	existing := path
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			// Reached the filesystem root without finding anything that
			// exists; nothing to resolve.
			return path, nil
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}
	real, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{real}, tail...)...), nil
}

// rejectEscape returns an error unless target is root itself or a
// descendant of it.
func rejectEscape(root, target string) error {
	if target == root {
		return nil
	}
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return eris.New("path escapes output root")
	}
	return nil
}

// writeText writes text to root/rel, creating parent directories as
// needed, after verifying the resolved path stays inside root.
func writeText(root, rel, text string) (string, error) {
	path, err := safeJoin(root, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrap(err, "creating output directory")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", eris.Wrap(err, "writing file")
	}
	return path, nil
}

// writeCSVFile writes rows as CSV to path, creating parent directories as
// needed.
func writeCSVFile(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "creating output directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "creating CSV file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrap(err, "writing CSV rows")
	}
	w.Flush()
	return w.Error()
}

// ReportRef is the compact report identity recorded in a statement
// artifact and in the manifest's per-filing picked-reports summary.
type ReportRef struct {
	Short string `json:"short"`
	Long  string `json:"long"`
	File  string `json:"html"`
	Type  string `json:"type"`
}

// StatementArtifact is the on-disk JSON shape for one extracted statement.
type StatementArtifact struct {
	CIK             string        `json:"cik"`
	AccessionNumber string        `json:"accessionNumber"`
	Statement       StatementKind `json:"statement"`
	SourceURL       string        `json:"sourceUrl"`
	Report          ReportRef     `json:"report"`
	IndentMode      string        `json:"indent_mode"`
	Indent          []int         `json:"indent"`
	Rows            [][]string    `json:"rows"`
	RowMeta         []RowMeta     `json:"row_meta"`
}

// OutputPaths records where a statement's CSV/JSON artifacts landed.
type OutputPaths struct {
	CSV  string `json:"csv"`
	JSON string `json:"json"`
}

// FilingEntry is one filing's row in the company manifest.
type FilingEntry struct {
	AccessionNumber  string                        `json:"accessionNumber"`
	Form             string                        `json:"form"`
	FilingDate       string                        `json:"filingDate"`
	ReportDate       string                        `json:"reportDate,omitempty"`
	BaseURL          string                        `json:"baseUrl"`
	FilingSummaryURL string                        `json:"filingSummaryUrl,omitempty"`
	ReportsPicked    map[StatementKind]ReportRef   `json:"reportsPicked"`
	Outputs          map[StatementKind]OutputPaths `json:"outputs"`
	Errors           []string                      `json:"errors"`
}

// CompanyManifest is the top-level artifact summarizing one run for one
// CIK. Name, SICDescription, and Tickers come along for free in the
// submissions JSON and are recorded best-effort so a viewer doesn't need a
// second fetch just to print who the company is.
type CompanyManifest struct {
	CIK            string        `json:"cik"`
	Name           string        `json:"name,omitempty"`
	SICDescription string        `json:"sicDescription,omitempty"`
	Tickers        []string      `json:"tickers,omitempty"`
	GeneratedAt    string        `json:"generatedAt"`
	Filings        []FilingEntry `json:"filings"`
}

// WriteStatementArtifact writes a statement's rows as CSV and its full
// payload as JSON under outRoot/filingRel, named after stem ("balance_sheet",
// "income_statement", "cash_flow").
func WriteStatementArtifact(outRoot, filingRel, stem string, artifact StatementArtifact) (OutputPaths, error) {
	csvRel := filepath.Join(filingRel, stem+".csv")
	jsonRel := filepath.Join(filingRel, stem+".json")

	csvPath, err := safeJoin(outRoot, csvRel)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := writeCSVFile(csvPath, artifact.Rows); err != nil {
		return OutputPaths{}, err
	}

	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return OutputPaths{}, eris.Wrap(err, "marshaling statement JSON")
	}
	jsonPath, err := writeText(outRoot, jsonRel, string(payload))
	if err != nil {
		return OutputPaths{}, err
	}

	return OutputPaths{CSV: csvPath, JSON: jsonPath}, nil
}

// WriteManifest writes the company manifest as pretty-printed JSON to
// <outRoot>/manifest.json.
func WriteManifest(outRoot string, manifest CompanyManifest) (string, error) {
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshaling manifest JSON")
	}
	return writeText(outRoot, "manifest.json", string(payload))
}

// StatementStem maps a statement kind to its output filename stem.
func StatementStem(kind StatementKind) string {
	switch kind {
	case BalanceSheet:
		return "balance_sheet"
	case IncomeStatement:
		return "income_statement"
	case CashFlow:
		return "cash_flow"
	default:
		return string(kind)
	}
}
