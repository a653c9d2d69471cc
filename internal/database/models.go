package database

import (
	"encoding/json"
	"strings"
	"time"

	"rentsurvey/internal/models"
)

// SurveyRun is one persisted survey snapshot.
type SurveyRun struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Station       string    `gorm:"type:varchar(255);not null;index:idx_station" json:"station"`
	QueryJSON     string    `gorm:"type:text;not null" json:"-"`
	RawCount      int       `gorm:"type:int;not null" json:"raw_count"`
	FilteredCount int       `gorm:"type:int;not null" json:"filtered_count"`
	SurvivorCount int       `gorm:"type:int;not null" json:"survivor_count"`
	SkippedSites  string    `gorm:"type:text" json:"skipped_sites"`
	CreatedAt     time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`

	Listings []SurveyListing `gorm:"foreignKey:SurveyRunID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (SurveyRun) TableName() string {
	return "survey_runs"
}

// SurveyListing is a flattened surviving listing row. Multi-valued fields
// are serialized: sources comma-joined, raw payload as JSON text.
type SurveyListing struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyRunID        uint       `gorm:"not null;index:idx_survey_run" json:"survey_run_id"`
	Title              string     `gorm:"type:text;not null" json:"title"`
	Site               string     `gorm:"type:varchar(64);not null" json:"site"`
	Sources            string     `gorm:"type:text;not null" json:"sources"`
	URL                string     `gorm:"type:text;not null" json:"url"`
	Rent               *int       `gorm:"type:int" json:"rent"`
	ManagementFee      *int       `gorm:"type:int" json:"management_fee"`
	TotalRent          *int       `gorm:"type:int" json:"total_rent"`
	Deposit            *int       `gorm:"type:int" json:"deposit"`
	KeyMoney           *int       `gorm:"type:int" json:"key_money"`
	Area               *float64   `gorm:"type:decimal(10,2)" json:"area"`
	FloorPlan          *string    `gorm:"type:varchar(20)" json:"madori"`
	BuiltAt            *time.Time `gorm:"type:date" json:"built_at"`
	BuiltAtText        *string    `gorm:"type:text" json:"built_at_text"`
	BuiltAgeYears      *float64   `gorm:"type:decimal(10,2)" json:"built_age_years"`
	AgeDiffFromSubject *float64   `gorm:"type:decimal(10,2)" json:"age_diff_from_subject"`
	Station            *string    `gorm:"type:varchar(255)" json:"station"`
	WalkMinutes        *int       `gorm:"type:int" json:"walk_minutes"`
	BuildingType       *string    `gorm:"type:varchar(255)" json:"building_type"`
	AutoLock           string     `gorm:"type:varchar(10);not null" json:"auto_lock"`
	BathToiletSeparate string     `gorm:"type:varchar(10);not null" json:"bath_toilet_separate"`
	Aspect             *string    `gorm:"type:varchar(64)" json:"aspect"`
	CollectedAt        time.Time  `gorm:"type:datetime;not null" json:"collected_at"`
	RawJSON            string     `gorm:"type:text" json:"-"`
}

// TableName specifies the table name
func (SurveyListing) TableName() string {
	return "survey_listings"
}

// newSurveyListing flattens a canonical listing into a row.
func newSurveyListing(runID uint, l *models.Listing) SurveyListing {
	sources := l.Sources
	if len(sources) == 0 {
		sources = []string{l.Site}
	}
	rawJSON := ""
	if len(l.Raw) > 0 {
		if data, err := json.Marshal(l.Raw); err == nil {
			rawJSON = string(data)
		}
	}
	return SurveyListing{
		SurveyRunID:        runID,
		Title:              l.Title,
		Site:               l.Site,
		Sources:            strings.Join(sources, ","),
		URL:                l.URL,
		Rent:               l.Rent,
		ManagementFee:      l.ManagementFee,
		TotalRent:          l.TotalRent,
		Deposit:            l.Deposit,
		KeyMoney:           l.KeyMoney,
		Area:               l.Area,
		FloorPlan:          l.FloorPlan,
		BuiltAt:            l.BuiltAt,
		BuiltAtText:        l.BuiltAtText,
		BuiltAgeYears:      l.BuiltAgeYears,
		AgeDiffFromSubject: l.AgeDiffFromSubject,
		Station:            l.Station,
		WalkMinutes:        l.WalkMinutes,
		BuildingType:       l.BuildingType,
		AutoLock:           l.AutoLock.String(),
		BathToiletSeparate: l.BathToiletSeparate.String(),
		Aspect:             l.Aspect,
		CollectedAt:        l.CollectedAt,
		RawJSON:            rawJSON,
	}
}

// ToListing restores the canonical form of a stored row.
func (s *SurveyListing) ToListing() *models.Listing {
	var raw map[string]string
	if s.RawJSON != "" {
		_ = json.Unmarshal([]byte(s.RawJSON), &raw)
	}
	var sources []string
	if s.Sources != "" {
		sources = strings.Split(s.Sources, ",")
	}
	return &models.Listing{
		Title:              s.Title,
		Site:               s.Site,
		URL:                s.URL,
		Rent:               s.Rent,
		ManagementFee:      s.ManagementFee,
		TotalRent:          s.TotalRent,
		Deposit:            s.Deposit,
		KeyMoney:           s.KeyMoney,
		Area:               s.Area,
		FloorPlan:          s.FloorPlan,
		BuiltAt:            s.BuiltAt,
		BuiltAtText:        s.BuiltAtText,
		BuiltAgeYears:      s.BuiltAgeYears,
		AgeDiffFromSubject: s.AgeDiffFromSubject,
		Station:            s.Station,
		WalkMinutes:        s.WalkMinutes,
		BuildingType:       s.BuildingType,
		AutoLock:           triStateOf(s.AutoLock),
		BathToiletSeparate: triStateOf(s.BathToiletSeparate),
		Aspect:             s.Aspect,
		CollectedAt:        s.CollectedAt,
		Raw:                raw,
		Sources:            sources,
	}
}

func triStateOf(s string) models.TriState {
	switch s {
	case "true":
		return models.TriYes
	case "false":
		return models.TriNo
	default:
		return models.TriUnknown
	}
}
