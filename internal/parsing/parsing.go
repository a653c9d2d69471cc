package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// yenRegexp captures a decimal amount followed by a yen unit marker
	yenRegexp = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(万円|万|円)`)
	// numberRegexp captures the first bare decimal number in a fragment
	numberRegexp = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`)
	// builtDateRegexp captures an explicit construction year/month
	builtDateRegexp = regexp.MustCompile(`(\d{4})年(\d{1,2})月`)
	// builtAgeRegexp captures a building age stated in whole years
	builtAgeRegexp = regexp.MustCompile(`築(\d+)年`)
	// stationWalkRegexp captures "<station> 徒歩 <minutes>"; the station name
	// is the non-whitespace run (half- or full-width) before the walk marker
	stationWalkRegexp = regexp.MustCompile(`([^\s　]+)\s*徒歩\s*(\d+)`)
)

const brandNewMarker = "新築"

// ParseYen converts a price fragment like "8.5万円" or "126,000円" into yen.
// Fragments with a number but no unit marker fall back to the bare number.
// Returns nil when nothing numeric is found.
func ParseYen(value string) *int {
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, ",", "")
	m := yenRegexp.FindStringSubmatch(value)
	if m == nil {
		d := numberRegexp.FindStringSubmatch(value)
		if d == nil {
			return nil
		}
		f, err := strconv.ParseFloat(d[1], 64)
		if err != nil {
			return nil
		}
		n := int(f)
		return &n
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	var n int
	if m[2] == "万円" || m[2] == "万" {
		n = int(f * 10000)
	} else {
		n = int(f)
	}
	return &n
}

// ParseArea extracts the first decimal number from an area fragment.
func ParseArea(value string) *float64 {
	if value == "" {
		return nil
	}
	m := numberRegexp.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}

// StationWalk is the parsed station access fragment. Both fields are nil
// when the fragment did not match.
type StationWalk struct {
	Station     *string
	WalkMinutes *int
}

// ParseStationWalk extracts the station name and walking minutes from a
// fragment like "渋谷 徒歩8分".
func ParseStationWalk(value string) StationWalk {
	var result StationWalk
	if value == "" {
		return result
	}
	m := stationWalkRegexp.FindStringSubmatch(value)
	if m == nil {
		return result
	}
	station := m[1]
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return result
	}
	result.Station = &station
	result.WalkMinutes = &minutes
	return result
}

// BuiltInfo is the parsed construction fragment: an exact first-of-month
// date when the site states one, plus the building age in fractional years.
type BuiltInfo struct {
	BuiltAt       *time.Time
	BuiltAgeYears *float64
}

// AgeCalculator derives building ages relative to an injected clock so that
// results are reproducible in tests.
type AgeCalculator struct {
	now func() time.Time
}

// NewAgeCalculator returns a calculator using the given clock; a nil clock
// falls back to time.Now.
func NewAgeCalculator(now func() time.Time) *AgeCalculator {
	if now == nil {
		now = time.Now
	}
	return &AgeCalculator{now: now}
}

// ParseBuiltInfo normalizes a construction fragment. Three mutually
// exclusive cases, checked in order: a brand-new marker (age 0, no date), an
// explicit "YYYY年MM月" date, and a "築N年" age. Anything else yields nils.
func (c *AgeCalculator) ParseBuiltInfo(value string) BuiltInfo {
	if value == "" {
		return BuiltInfo{}
	}
	if strings.Contains(value, brandNewMarker) {
		zero := 0.0
		return BuiltInfo{BuiltAgeYears: &zero}
	}
	if m := builtDateRegexp.FindStringSubmatch(value); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		builtAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		age := c.ageFrom(year, month)
		return BuiltInfo{BuiltAt: &builtAt, BuiltAgeYears: &age}
	}
	if m := builtAgeRegexp.FindStringSubmatch(value); m != nil {
		years, _ := strconv.Atoi(m[1])
		age := float64(years)
		return BuiltInfo{BuiltAgeYears: &age}
	}
	return BuiltInfo{}
}

// ageFrom computes the fractional age of a year/month as of the injected
// clock, floored at zero.
func (c *AgeCalculator) ageFrom(year, month int) float64 {
	today := c.now()
	age := float64(today.Year()-year) + float64(int(today.Month())-month)/12
	if age < 0 {
		return 0
	}
	return age
}

// AgeDifference computes how much newer a candidate listing is than the
// subject property, in fractional years (positive = candidate newer).
//
// With an exact candidate date the difference is taken between the two
// dates. With only a candidate age the subject's current age is computed
// and the candidate age subtracted from it. The two paths can disagree near
// month boundaries; that imprecision comes from the incompatible raw shapes
// the portals expose and both paths are kept as-is.
func (c *AgeCalculator) AgeDifference(subjectBuilt, candidateBuilt *time.Time, candidateAge *float64) *float64 {
	if subjectBuilt == nil {
		return nil
	}
	if candidateBuilt != nil {
		diff := float64(candidateBuilt.Year()-subjectBuilt.Year()) +
			float64(int(candidateBuilt.Month())-int(subjectBuilt.Month()))/12
		return &diff
	}
	if candidateAge != nil {
		subjectAge := c.ageFrom(subjectBuilt.Year(), int(subjectBuilt.Month()))
		diff := subjectAge - *candidateAge
		return &diff
	}
	return nil
}
