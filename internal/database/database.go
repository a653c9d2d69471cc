package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentsurvey/internal/models"
)

const (
	saveMaxRetries = 3
	saveRetryDelay = 2 * time.Second
)

// Database persists survey snapshots in SQLite.
type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDatabase opens (or creates) the SQLite database at dbPath and runs
// schema migrations.
func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&SurveyRun{}, &SurveyListing{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Database{db: db, logger: logger}, nil
}

// SaveSurvey stores one survey snapshot: the run metadata plus one row per
// surviving listing, in a single transaction with retry on failure.
func (d *Database) SaveSurvey(query *models.Query, result *models.SurveyResult) (uint, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal query: %w", err)
	}
	skippedJSON, err := json.Marshal(result.SkippedSites)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal skipped sites: %w", err)
	}

	run := SurveyRun{
		Station:       query.Station,
		QueryJSON:     string(queryJSON),
		RawCount:      len(result.RawListings),
		FilteredCount: len(result.FilteredListings),
		SurvivorCount: len(result.DeduplicatedListings),
		SkippedSites:  string(skippedJSON),
	}

	for attempt := 0; attempt <= saveMaxRetries; attempt++ {
		if attempt > 0 {
			d.logger.Infof("Retrying survey save, attempt %d of %d", attempt, saveMaxRetries)
			time.Sleep(saveRetryDelay)
		}

		err = d.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&run).Error; err != nil {
				return fmt.Errorf("failed to insert survey run: %w", err)
			}
			for _, listing := range result.DeduplicatedListings {
				row := newSurveyListing(run.ID, listing)
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to insert listing: %w", err)
				}
			}
			return nil
		})
		if err == nil {
			d.logger.WithFields(logrus.Fields{
				"survey_id": run.ID,
				"listings":  len(result.DeduplicatedListings),
			}).Info("Saved survey snapshot")
			return run.ID, nil
		}
		d.logger.WithError(err).Error("Survey save failed")
	}
	return 0, fmt.Errorf("failed to save survey after %d attempts: %w", saveMaxRetries, err)
}

// GetSurveys returns stored survey runs, newest first.
func (d *Database) GetSurveys() ([]SurveyRun, error) {
	var runs []SurveyRun
	if err := d.db.Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	return runs, nil
}

// GetSurvey returns one survey run by id.
func (d *Database) GetSurvey(id uint) (*SurveyRun, error) {
	var run SurveyRun
	if err := d.db.First(&run, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load survey %d: %w", id, err)
	}
	return &run, nil
}

// GetListings returns the surviving listings of a survey in canonical form.
func (d *Database) GetListings(surveyID uint) ([]*models.Listing, error) {
	var rows []SurveyListing
	if err := d.db.Where("survey_run_id = ?", surveyID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	listings := make([]*models.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].ToListing()
	}
	return listings, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
