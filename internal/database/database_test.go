package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsurvey/internal/models"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storedListing() *models.Listing {
	rent := 80000
	fee := 5000
	area := 25.0
	station := "Shibuya"
	walk := 8
	aspect := "south"
	l := &models.Listing{
		Title:         "Sunrise Court 101",
		Site:          "homes",
		URL:           "https://homes.example/101",
		Rent:          &rent,
		ManagementFee: &fee,
		Area:          &area,
		Station:       &station,
		WalkMinutes:   &walk,
		Aspect:        &aspect,
		AutoLock:      models.TriYes,
		CollectedAt:   time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		Raw:           map[string]string{"source": "homes"},
		Sources:       []string{"homes", "suumo"},
	}
	l.SetTotalRent()
	return l
}

func TestSaveSurveyRoundTrip(t *testing.T) {
	db := testDatabase(t)

	query := &models.Query{
		Station:    "渋谷",
		AutoLock:   models.ReqAny,
		BathToilet: models.ReqAny,
		Sites:      []string{"homes", "suumo"},
	}
	listing := storedListing()
	result := &models.SurveyResult{
		RawListings:          []*models.Listing{listing, listing},
		FilteredListings:     []*models.Listing{listing, listing},
		DeduplicatedListings: []*models.Listing{listing},
		SkippedSites:         map[string]string{},
	}

	id, err := db.SaveSurvey(query, result)
	require.NoError(t, err)
	require.NotZero(t, id)

	run, err := db.GetSurvey(id)
	require.NoError(t, err)
	assert.Equal(t, "渋谷", run.Station)
	assert.Equal(t, 2, run.RawCount)
	assert.Equal(t, 2, run.FilteredCount)
	assert.Equal(t, 1, run.SurvivorCount)

	listings, err := db.GetListings(id)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	got := listings[0]
	assert.Equal(t, "Sunrise Court 101", got.Title)
	assert.Equal(t, []string{"homes", "suumo"}, got.Sources)
	require.NotNil(t, got.TotalRent)
	assert.Equal(t, 85000, *got.TotalRent)
	assert.Nil(t, got.Deposit)
	assert.Equal(t, models.TriYes, got.AutoLock)
	assert.Equal(t, models.TriUnknown, got.BathToiletSeparate)
	require.NotNil(t, got.Aspect)
	assert.Equal(t, "south", *got.Aspect)
	assert.Equal(t, map[string]string{"source": "homes"}, got.Raw)
}

func TestGetSurveysNewestFirst(t *testing.T) {
	db := testDatabase(t)

	query := &models.Query{Station: "恵比寿", AutoLock: models.ReqAny, BathToilet: models.ReqAny}
	empty := &models.SurveyResult{SkippedSites: map[string]string{}}

	first, err := db.SaveSurvey(query, empty)
	require.NoError(t, err)
	second, err := db.SaveSurvey(query, empty)
	require.NoError(t, err)

	runs, err := db.GetSurveys()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Contains(t, []uint{first, second}, runs[0].ID)
}

func TestGetSurveyMissing(t *testing.T) {
	db := testDatabase(t)
	_, err := db.GetSurvey(999)
	assert.Error(t, err)
}
