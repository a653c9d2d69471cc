package filter

import (
	"math"
	"strings"

	"rentsurvey/internal/models"
)

// Apply retains the listings satisfying every query predicate. Each
// predicate passes when its criterion is unset or the listing's field is
// unknown, so filtering never rejects a listing for missing data.
func Apply(listings []*models.Listing, query *models.Query) []*models.Listing {
	filtered := make([]*models.Listing, 0, len(listings))
	for _, listing := range listings {
		if Matches(listing, query) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// Matches reports whether a single listing passes the full predicate chain.
func Matches(l *models.Listing, q *models.Query) bool {
	return withinArea(l.Area, q.Area, q.AreaTolerance) &&
		withinMinutes(l.WalkMinutes, q.Minutes) &&
		containsSubstring(l.FloorPlan, q.FloorPlan) &&
		containsSubstring(l.BuildingType, q.BuildingType) &&
		matchesRequirement(l.AutoLock, q.AutoLock) &&
		matchesRequirement(l.BathToiletSeparate, q.BathToilet) &&
		matchesAspect(l.Aspect, q.Aspect)
}

func withinArea(area, target *float64, tolerance float64) bool {
	if area == nil || target == nil {
		return true
	}
	return math.Abs(*area-*target) <= tolerance
}

func withinMinutes(minutes, target *int) bool {
	if minutes == nil || target == nil {
		return true
	}
	return *minutes <= *target
}

func containsSubstring(field, want *string) bool {
	if want == nil || field == nil {
		return true
	}
	return strings.Contains(*field, *want)
}

// matchesRequirement applies the asymmetric tri-state policy: required only
// rejects an explicit no, forbidden only rejects an explicit yes. A listing
// whose flag is unknown always passes.
func matchesRequirement(flag models.TriState, req models.Requirement) bool {
	switch req {
	case models.ReqRequired:
		return flag != models.TriNo
	case models.ReqForbidden:
		return flag != models.TriYes
	default:
		return true
	}
}

func matchesAspect(aspect, want *string) bool {
	if want == nil || aspect == nil {
		return true
	}
	return strings.Contains(strings.ToLower(*aspect), strings.ToLower(*want))
}
