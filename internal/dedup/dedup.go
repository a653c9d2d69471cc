package dedup

import (
	"fmt"
	"strconv"
	"strings"

	"rentsurvey/internal/models"
)

// Fingerprint derives the composite key identifying likely duplicates of
// the same unit across sources. Unknown fields collapse to 0 or the empty
// string so that two sites omitting the same field still match.
func Fingerprint(l *models.Listing) string {
	area := 0.0
	if l.Area != nil {
		area = *l.Area
	}
	rent := 0
	if l.Rent != nil {
		rent = *l.Rent
	}
	fee := 0
	if l.ManagementFee != nil {
		fee = *l.ManagementFee
	}
	station := ""
	if l.Station != nil {
		station = *l.Station
	}
	minutes := 0
	if l.WalkMinutes != nil {
		minutes = *l.WalkMinutes
	}
	return strings.Join([]string{
		strings.TrimSpace(l.Title),
		fmt.Sprintf("%.1f", area),
		strconv.Itoa(rent),
		strconv.Itoa(fee),
		station,
		strconv.Itoa(minutes),
	}, "|")
}

// Deduplicate merges listings sharing a fingerprint. The first listing seen
// for a key is the canonical survivor: its sources reset to its own site and
// later duplicates only contribute their site name, never field values.
// Output preserves first-observation order, so the caller's site order
// decides which source wins.
func Deduplicate(listings []*models.Listing) []*models.Listing {
	seen := make(map[string]*models.Listing, len(listings))
	unique := make([]*models.Listing, 0, len(listings))
	for _, listing := range listings {
		key := Fingerprint(listing)
		if survivor, ok := seen[key]; ok {
			survivor.MergeSource(listing.Site)
			continue
		}
		listing.Sources = []string{listing.Site}
		seen[key] = listing
		unique = append(unique, listing)
	}
	return unique
}
