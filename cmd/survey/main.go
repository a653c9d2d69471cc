package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rentsurvey/config"
	"rentsurvey/internal/database"
	"rentsurvey/internal/export"
	"rentsurvey/internal/models"
	"rentsurvey/internal/report"
	"rentsurvey/internal/sites"
	"rentsurvey/internal/survey"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	// Optional .env for fetch settings
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	settings, err := config.LoadSettings(filepath.Join("config", "settings.yml"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings file")
	}
	defaults := settings.Data()

	station := flag.String("station", "", "Primary station name keyword (required)")
	minutes := flag.Int("minutes", -1, "Maximum walking minutes from station")
	area := flag.Float64("area", -1, "Target floor area in square meters")
	areaTolerance := flag.Float64("area-tolerance", defaults.Survey.AreaTolerance, "± tolerance for area filtering")
	madori := flag.String("madori", "", "Desired floor plan (e.g., 1K)")
	subjectBuilt := flag.String("subject-built", "", "Subject property built YYYY-MM")
	ageMax := flag.Int("age-max", -1, "Maximum building age to search on site")
	ageDiff := flag.Int("age-diff", -1, "Allowed difference in years for grouping")
	buildingType := flag.String("building-type", "", "Building type keyword per site")
	autoLock := flag.String("auto-lock", "any", "Auto-lock requirement (required/forbidden/any)")
	bathToilet := flag.String("bath-toilet", "any", "Bath/toilet separation requirement (required/forbidden/any)")
	aspect := flag.String("aspect", "", "Main aspect (e.g., south)")
	maxListings := flag.Int("max-listings", defaults.Survey.MaxListings, "Per-site listing limit")
	sitesFlag := flag.String("sites", strings.Join(defaults.Survey.Sites, ","),
		"Comma separated site names (supported: "+strings.Join(sites.Supported(), ",")+")")
	outputFormat := flag.String("output-format", defaults.Output.Format, "Output file format (csv/jsonl)")
	outputPath := flag.String("output-path", "", "Explicit output file path")
	brandNewStats := flag.Bool("brand-new-separate-stats", false, "Print additional stats excluding brand-new listings")
	persist := flag.Bool("persist", false, "Store the survey snapshot in the SQLite database")
	flag.Parse()

	if *station == "" {
		fmt.Fprintln(os.Stderr, "-station is required")
		flag.Usage()
		os.Exit(2)
	}

	query, err := buildQuery(*station, *minutes, *area, *areaTolerance, *madori, *subjectBuilt,
		*ageMax, *ageDiff, *buildingType, *autoLock, *bathToilet, *aspect, *maxListings,
		*sitesFlag, *brandNewStats)
	if err != nil {
		logger.WithError(err).Fatal("Invalid query arguments")
	}

	runner := survey.NewRunner(survey.Options{
		UserAgent:       cfg.HTTP.UserAgent,
		RequestInterval: cfg.HTTP.RequestInterval,
		RequestTimeout:  cfg.HTTP.RequestTimeout,
	}, logger)

	result, err := runner.Run(context.Background(), query)
	if err != nil {
		logger.WithError(err).Fatal("Survey run failed")
	}

	path, err := export.DefaultPath(*outputPath, defaults.Output.Dir, *outputFormat, nil)
	if err != nil {
		logger.WithError(err).Fatal("Failed to prepare output path")
	}
	writer, err := export.NewWriter(path, *outputFormat)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open output writer")
	}
	if err := writer.Write(result.DeduplicatedListings); err != nil {
		logger.WithError(err).Fatal("Failed to write output")
	}
	if err := writer.Close(); err != nil {
		logger.WithError(err).Fatal("Failed to close output writer")
	}

	if *persist {
		db, err := database.NewDatabase(cfg.Storage.DBPath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open database")
		}
		defer db.Close()
		if _, err := db.SaveSurvey(query, result); err != nil {
			logger.WithError(err).Error("Failed to persist survey snapshot")
		}
	}

	report.NewPrinter(os.Stdout, nil).Print(result, query, path)
}

func buildQuery(station string, minutes int, area, areaTolerance float64, madori, subjectBuilt string,
	ageMax, ageDiff int, buildingType, autoLock, bathToilet, aspect string, maxListings int,
	sitesFlag string, brandNewStats bool) (*models.Query, error) {

	query := &models.Query{
		Station:              station,
		AreaTolerance:        areaTolerance,
		AutoLock:             models.ParseRequirement(autoLock),
		BathToilet:           models.ParseRequirement(bathToilet),
		MaxListings:          maxListings,
		Sites:                splitSites(sitesFlag),
		BrandNewSeparateStat: brandNewStats,
	}
	if minutes >= 0 {
		query.Minutes = &minutes
	}
	if area >= 0 {
		query.Area = &area
	}
	if madori != "" {
		query.FloorPlan = &madori
	}
	if subjectBuilt != "" {
		built, err := time.Parse("2006-01", subjectBuilt)
		if err != nil {
			return nil, fmt.Errorf("invalid -subject-built %q: %w", subjectBuilt, err)
		}
		query.SubjectBuilt = &built
	}
	if ageMax >= 0 {
		query.AgeMax = &ageMax
	}
	if ageDiff >= 0 {
		query.AgeDiff = &ageDiff
	}
	if buildingType != "" {
		query.BuildingType = &buildingType
	}
	if aspect != "" {
		query.Aspect = &aspect
	}
	if len(query.Sites) == 0 {
		return nil, fmt.Errorf("no sites requested")
	}
	return query, nil
}

func splitSites(raw string) []string {
	var sites []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sites = append(sites, part)
		}
	}
	return sites
}
