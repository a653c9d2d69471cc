package models

import "time"

// TriState represents an amenity flag that a portal may report as present,
// absent, or not at all.
type TriState int

const (
	TriUnknown TriState = iota
	TriYes
	TriNo
)

// String returns the export representation of the flag.
func (t TriState) String() string {
	switch t {
	case TriYes:
		return "true"
	case TriNo:
		return "false"
	default:
		return "unknown"
	}
}

// Requirement is the query-side counterpart of TriState: require the flag,
// forbid it, or ignore it.
type Requirement string

const (
	ReqAny       Requirement = "any"
	ReqRequired  Requirement = "required"
	ReqForbidden Requirement = "forbidden"
)

// ParseRequirement maps CLI/API input onto a Requirement, defaulting to any.
func ParseRequirement(s string) Requirement {
	switch Requirement(s) {
	case ReqRequired:
		return ReqRequired
	case ReqForbidden:
		return ReqForbidden
	default:
		return ReqAny
	}
}

// Listing is the canonical normalized rental listing shared across sites.
// Nullable fields are pointers; absence means the source did not expose the
// value, never an error.
type Listing struct {
	Title              string            `json:"title"`
	Site               string            `json:"site"`
	URL                string            `json:"url"`
	Rent               *int              `json:"rent"`
	ManagementFee      *int              `json:"management_fee"`
	TotalRent          *int              `json:"total_rent"`
	Deposit            *int              `json:"deposit"`
	KeyMoney           *int              `json:"key_money"`
	Area               *float64          `json:"area"`
	FloorPlan          *string           `json:"madori"`
	BuiltAt            *time.Time        `json:"built_at"`
	BuiltAtText        *string           `json:"built_at_text"`
	BuiltAgeYears      *float64          `json:"built_age_years"`
	AgeDiffFromSubject *float64          `json:"age_diff_from_subject"`
	Station            *string           `json:"station"`
	WalkMinutes        *int              `json:"walk_minutes"`
	BuildingType       *string           `json:"building_type"`
	AutoLock           TriState          `json:"auto_lock"`
	BathToiletSeparate TriState          `json:"bath_toilet_separate"`
	Aspect             *string           `json:"aspect"`
	CollectedAt        time.Time         `json:"collected_at"`
	Raw                map[string]string `json:"raw,omitempty"`
	Sources            []string          `json:"sources"`
}

// SetTotalRent derives total rent from rent plus management fee, treating a
// missing fee as zero. Total rent stays nil while rent itself is unknown.
func (l *Listing) SetTotalRent() {
	if l.Rent == nil {
		l.TotalRent = nil
		return
	}
	total := *l.Rent
	if l.ManagementFee != nil {
		total += *l.ManagementFee
	}
	l.TotalRent = &total
}

// MergeSource records another site offering the same unit, keeping each
// contributing site at most once.
func (l *Listing) MergeSource(site string) {
	for _, s := range l.Sources {
		if s == site {
			return
		}
	}
	l.Sources = append(l.Sources, site)
}

// Query holds the normalized search and filter criteria for one survey run.
type Query struct {
	Station              string      `json:"station"`
	Minutes              *int        `json:"minutes"`
	Area                 *float64    `json:"area"`
	AreaTolerance        float64     `json:"area_tolerance"`
	FloorPlan            *string     `json:"madori"`
	SubjectBuilt         *time.Time  `json:"subject_built"`
	AgeMax               *int        `json:"age_max"`
	AgeDiff              *int        `json:"age_diff"`
	BuildingType         *string     `json:"building_type"`
	AutoLock             Requirement `json:"auto_lock"`
	BathToilet           Requirement `json:"bath_toilet"`
	Aspect               *string     `json:"aspect"`
	MaxListings          int         `json:"max_listings"`
	Sites                []string    `json:"sites"`
	BrandNewSeparateStat bool        `json:"brand_new_separate_stats"`
}

// SurveyResult exposes the pipeline stages for diagnostics: everything the
// sites returned, the post-filter slice, and the deduplicated survivors.
type SurveyResult struct {
	RawListings          []*Listing        `json:"raw_listings"`
	FilteredListings     []*Listing        `json:"filtered_listings"`
	DeduplicatedListings []*Listing        `json:"deduplicated_listings"`
	SkippedSites         map[string]string `json:"skipped_sites"`
}

// NumericSummary describes a numeric sequence. Everything but Count is nil
// when the sequence was empty.
type NumericSummary struct {
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
	Median  *float64 `json:"median"`
	Minimum *float64 `json:"minimum"`
	Maximum *float64 `json:"maximum"`
}

// GroupSummary pairs a category bucket label with its numeric summary.
type GroupSummary struct {
	Label   string         `json:"label"`
	Summary NumericSummary `json:"summary"`
}
