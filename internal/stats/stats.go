package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"rentsurvey/internal/models"
)

// Summarize computes count/average/median/min/max over a numeric sequence.
// On empty input every field but Count is nil; no arithmetic is attempted.
func Summarize(values []float64) models.NumericSummary {
	summary := models.NumericSummary{Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	average := total / float64(len(sorted))
	median := medianOf(sorted)
	minimum := sorted[0]
	maximum := sorted[len(sorted)-1]

	summary.Average = &average
	summary.Median = &median
	summary.Minimum = &minimum
	summary.Maximum = &maximum
	return summary
}

// medianOf expects its input sorted.
func medianOf(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// SummarizeTotalRent summarizes total rent over listings where it is known.
func SummarizeTotalRent(listings []*models.Listing) models.NumericSummary {
	var values []float64
	for _, l := range listings {
		if l.TotalRent != nil {
			values = append(values, float64(*l.TotalRent))
		}
	}
	return Summarize(values)
}

// SummarizeRent summarizes base rent over listings where it is known.
func SummarizeRent(listings []*models.Listing) models.NumericSummary {
	var values []float64
	for _, l := range listings {
		if l.Rent != nil {
			values = append(values, float64(*l.Rent))
		}
	}
	return Summarize(values)
}

// SummarizeAreaRent summarizes rent per square meter, considering only
// listings with a non-zero total rent and a non-zero area.
func SummarizeAreaRent(listings []*models.Listing) models.NumericSummary {
	var values []float64
	for _, l := range listings {
		if l.TotalRent != nil && *l.TotalRent != 0 && l.Area != nil && *l.Area != 0 {
			values = append(values, float64(*l.TotalRent) / *l.Area)
		}
	}
	return Summarize(values)
}

// GroupByAutoLock buckets listings by auto-lock flag and summarizes total
// rent per bucket. Buckets with no listings are omitted.
func GroupByAutoLock(listings []*models.Listing) []models.GroupSummary {
	return groupByTriState(listings, "auto_lock", "no_auto_lock",
		func(l *models.Listing) models.TriState { return l.AutoLock })
}

// GroupByBath buckets listings by bath/toilet separation and summarizes
// total rent per bucket.
func GroupByBath(listings []*models.Listing) []models.GroupSummary {
	return groupByTriState(listings, "bath_toilet_separate", "unit_bath",
		func(l *models.Listing) models.TriState { return l.BathToiletSeparate })
}

func groupByTriState(listings []*models.Listing, yesLabel, noLabel string, flag func(*models.Listing) models.TriState) []models.GroupSummary {
	groups := map[string][]*models.Listing{}
	for _, l := range listings {
		var key string
		switch flag(l) {
		case models.TriYes:
			key = yesLabel
		case models.TriNo:
			key = noLabel
		default:
			key = "unknown"
		}
		groups[key] = append(groups[key], l)
	}

	summaries := make([]models.GroupSummary, 0, len(groups))
	for _, label := range []string{yesLabel, noLabel, "unknown"} {
		if members, ok := groups[label]; ok {
			summaries = append(summaries, models.GroupSummary{
				Label:   label,
				Summary: SummarizeTotalRent(members),
			})
		}
	}
	return summaries
}

// GroupByAspect counts listings per aspect text, with an "unknown" bucket
// for listings that never reported one.
func GroupByAspect(listings []*models.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		label := "unknown"
		if l.Aspect != nil {
			label = *l.Aspect
		}
		counts[label]++
	}
	return counts
}

// GroupByAgeDifference partitions listings into within/outside ±threshold
// buckets by their age difference from the subject property. Listings with
// no computable difference belong to neither bucket. A nil threshold yields
// no groups.
func GroupByAgeDifference(listings []*models.Listing, threshold *int) []models.GroupSummary {
	if threshold == nil {
		return nil
	}
	var within, outside []*models.Listing
	for _, l := range listings {
		if l.AgeDiffFromSubject == nil {
			continue
		}
		if math.Abs(*l.AgeDiffFromSubject) <= float64(*threshold) {
			within = append(within, l)
		} else {
			outside = append(outside, l)
		}
	}
	return []models.GroupSummary{
		{Label: fmt.Sprintf("within_±%d", *threshold), Summary: SummarizeTotalRent(within)},
		{Label: fmt.Sprintf("outside_±%d", *threshold), Summary: SummarizeTotalRent(outside)},
	}
}

// ExcludeBrandNew keeps listings whose building age is unknown or at least
// one year, for a supplementary view without very new units.
func ExcludeBrandNew(listings []*models.Listing) []*models.Listing {
	kept := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.BuiltAgeYears != nil && *l.BuiltAgeYears < 1 {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// FormatSummary renders one "label: field=value, ..." report line.
func FormatSummary(label string, s models.NumericSummary) string {
	parts := []string{
		fmt.Sprintf("count=%d", s.Count),
		"average=" + formatValue(s.Average),
		"median=" + formatValue(s.Median),
		"minimum=" + formatValue(s.Minimum),
		"maximum=" + formatValue(s.Maximum),
	}
	return label + ": " + strings.Join(parts, ", ")
}

func formatValue(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
