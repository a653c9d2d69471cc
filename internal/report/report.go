package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"rentsurvey/internal/models"
	"rentsurvey/internal/stats"
)

// Printer renders the console summary of a survey run.
type Printer struct {
	out io.Writer
	now func() time.Time
}

// NewPrinter creates a printer writing to out. A nil clock uses time.Now.
func NewPrinter(out io.Writer, now func() time.Time) *Printer {
	if now == nil {
		now = time.Now
	}
	return &Printer{out: out, now: now}
}

// Print writes the full survey summary: pipeline stage counts, the numeric
// summaries over the deduplicated survivors, the category groupings, and
// optionally a supplementary view excluding brand-new units.
func (p *Printer) Print(result *models.SurveyResult, query *models.Query, outputPath string) {
	fmt.Fprintln(p.out, "=== Rent Survey Summary ===")
	fmt.Fprintf(p.out, "Generated at: %s\n", p.now().UTC().Format(time.RFC3339))
	if outputPath != "" {
		fmt.Fprintf(p.out, "Output file: %s\n", outputPath)
	}
	for _, site := range sortedKeys(result.SkippedSites) {
		fmt.Fprintf(p.out, "Skipped site %s: %s\n", site, result.SkippedSites[site])
	}

	p.printSiteCounts("Site counts (raw)", result.RawListings)
	p.printSiteCounts("Site counts (filtered)", result.FilteredListings)
	fmt.Fprintf(p.out, "Raw listings: %d\n", len(result.RawListings))
	fmt.Fprintf(p.out, "Filtered listings: %d\n", len(result.FilteredListings))
	fmt.Fprintf(p.out, "Deduplicated listings: %d\n", len(result.DeduplicatedListings))

	survivors := result.DeduplicatedListings
	fmt.Fprintln(p.out, stats.FormatSummary("Total rent", stats.SummarizeTotalRent(survivors)))
	fmt.Fprintln(p.out, stats.FormatSummary("Rent", stats.SummarizeRent(survivors)))
	fmt.Fprintln(p.out, stats.FormatSummary("Rent per sqm", stats.SummarizeAreaRent(survivors)))

	for _, group := range stats.GroupByAgeDifference(survivors, query.AgeDiff) {
		fmt.Fprintln(p.out, stats.FormatSummary("Age diff "+group.Label, group.Summary))
	}
	for _, group := range stats.GroupByAutoLock(survivors) {
		fmt.Fprintln(p.out, stats.FormatSummary("Auto lock "+group.Label, group.Summary))
	}
	for _, group := range stats.GroupByBath(survivors) {
		fmt.Fprintln(p.out, stats.FormatSummary("Bath "+group.Label, group.Summary))
	}

	aspectCounts := stats.GroupByAspect(survivors)
	for _, label := range sortedCountKeys(aspectCounts) {
		fmt.Fprintf(p.out, "Aspect %s: count=%d\n", label, aspectCounts[label])
	}

	if query.BrandNewSeparateStat {
		withoutNew := stats.ExcludeBrandNew(survivors)
		if len(withoutNew) > 0 {
			fmt.Fprintln(p.out, "-- Without brand-new units --")
			fmt.Fprintln(p.out, stats.FormatSummary("Total rent", stats.SummarizeTotalRent(withoutNew)))
			fmt.Fprintln(p.out, stats.FormatSummary("Rent", stats.SummarizeRent(withoutNew)))
		}
	}
}

func (p *Printer) printSiteCounts(label string, listings []*models.Listing) {
	counts := make(map[string]int)
	for _, l := range listings {
		counts[l.Site]++
	}
	for _, site := range sortedCountKeys(counts) {
		fmt.Fprintf(p.out, "%s %s: count=%d\n", label, site, counts[site])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
