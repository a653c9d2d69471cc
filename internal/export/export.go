package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rentsurvey/internal/models"
)

// ListingWriter is the interface any export backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// recordFields is the column order of the structured export, one record per
// surviving listing.
var recordFields = []string{
	"title", "site", "sources", "url", "rent", "management_fee", "total_rent",
	"deposit", "key_money", "area", "madori", "built_at", "built_age_years",
	"age_diff_from_subject", "station", "walk_minutes", "building_type",
	"auto_lock", "bath_toilet_separate", "aspect", "collected_at", "raw",
}

// recordOf flattens a listing into export values keyed by column name.
// BuiltAt falls back to the raw construction text when no exact date was
// parsed.
func recordOf(l *models.Listing) map[string]interface{} {
	sources := l.Sources
	if len(sources) == 0 {
		sources = []string{l.Site}
	}
	var builtAt interface{}
	switch {
	case l.BuiltAt != nil:
		builtAt = l.BuiltAt.Format("2006-01-02")
	case l.BuiltAtText != nil:
		builtAt = *l.BuiltAtText
	}
	return map[string]interface{}{
		"title":                 l.Title,
		"site":                  l.Site,
		"sources":               sources,
		"url":                   l.URL,
		"rent":                  intValue(l.Rent),
		"management_fee":        intValue(l.ManagementFee),
		"total_rent":            intValue(l.TotalRent),
		"deposit":               intValue(l.Deposit),
		"key_money":             intValue(l.KeyMoney),
		"area":                  floatValue(l.Area),
		"madori":                stringValue(l.FloorPlan),
		"built_at":              builtAt,
		"built_age_years":       floatValue(l.BuiltAgeYears),
		"age_diff_from_subject": floatValue(l.AgeDiffFromSubject),
		"station":               stringValue(l.Station),
		"walk_minutes":          intValue(l.WalkMinutes),
		"building_type":         stringValue(l.BuildingType),
		"auto_lock":             l.AutoLock.String(),
		"bath_toilet_separate":  l.BathToiletSeparate.String(),
		"aspect":                stringValue(l.Aspect),
		"collected_at":          l.CollectedAt.UTC().Format(time.RFC3339),
		"raw":                   l.Raw,
	}
}

func intValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// cellString renders one export value as CSV cell text.
func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case []string:
		return strings.Join(value, ";")
	case map[string]string:
		parts := make([]string, 0, len(value))
		for k, val := range value {
			parts = append(parts, k+"="+val)
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprintf("%v", value)
	}
}

// DefaultPath returns a timestamped output file path under dir when no
// explicit path was given. Intermediate directories are created.
func DefaultPath(explicit, dir, format string, now func() time.Time) (string, error) {
	if explicit != "" {
		if err := os.MkdirAll(filepath.Dir(explicit), 0755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
		return explicit, nil
	}
	if now == nil {
		now = time.Now
	}
	if dir == "" {
		dir = "outputs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	suffix := ".jsonl"
	if format == "csv" {
		suffix = ".csv"
	}
	name := fmt.Sprintf("rent-survey-%s%s", now().UTC().Format("20060102-150405"), suffix)
	return filepath.Join(dir, name), nil
}

// NewWriter opens the writer for the requested format ("csv" or "jsonl").
func NewWriter(path, format string) (ListingWriter, error) {
	switch format {
	case "csv":
		return NewCSVWriter(path)
	case "jsonl":
		return NewJSONLWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
