package edgar

import (
	"sort"
	"time"
)

// Select10Ks filters raw filing rows down to 10-Ks (and optionally 10-K/A)
// within the lookback window, deduplicates by accession number, and
// truncates to limit. Ties in filing date keep submission-index order: no
// secondary sort key is applied, matching the upstream JSON's own ordering.
func Select10Ks(filings []Filing, yearsLookback int, limit int, includeAmends bool) []Filing {
	cutoff := time.Now().AddDate(0, 0, -int(float64(yearsLookback)*365.25))

	okForms := map[string]bool{"10-K": true}
	if includeAmends {
		okForms["10-K/A"] = true
	}

	type dated struct {
		filing Filing
		date   time.Time
	}
	var candidates []dated
	for _, f := range filings {
		if !okForms[f.Form] {
			continue
		}
		if f.AccessionNumber == "" {
			continue
		}
		fd, err := time.Parse("2006-01-02", f.FilingDate)
		if err != nil || fd.Before(cutoff) {
			continue
		}
		candidates = append(candidates, dated{filing: f, date: fd})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].date.After(candidates[j].date)
	})

	seen := make(map[string]bool, len(candidates))
	out := make([]Filing, 0, limit)
	for _, c := range candidates {
		if seen[c.filing.AccessionNumber] {
			continue
		}
		seen[c.filing.AccessionNumber] = true
		out = append(out, c.filing)
		if len(out) >= limit {
			break
		}
	}
	return out
}
