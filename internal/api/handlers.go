package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rentsurvey/internal/database"
	"rentsurvey/internal/models"
	"rentsurvey/internal/stats"
)

// Handler serves stored survey snapshots.
type Handler struct {
	db     *database.Database
	logger *logrus.Logger
}

// NewHandler creates an API handler over the snapshot store.
func NewHandler(db *database.Database, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Handler{db: db, logger: logger}
}

// GetSurveys returns all stored survey runs, newest first.
func (h *Handler) GetSurveys(c *gin.Context) {
	runs, err := h.db.GetSurveys()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list surveys")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list surveys"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetSurveyListings returns the surviving listings of one survey.
func (h *Handler) GetSurveyListings(c *gin.Context) {
	listings, ok := h.loadListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, listings)
}

// SurveyStats is the recomputed statistics view of a stored survey.
type SurveyStats struct {
	TotalRent  models.NumericSummary `json:"total_rent"`
	Rent       models.NumericSummary `json:"rent"`
	RentPerSqm models.NumericSummary `json:"rent_per_sqm"`
	AutoLock   []models.GroupSummary `json:"auto_lock"`
	BathToilet []models.GroupSummary `json:"bath_toilet"`
	Aspects    map[string]int        `json:"aspects"`
	AgeDiff    []models.GroupSummary `json:"age_diff,omitempty"`
}

// GetSurveyStats recomputes the numeric summaries and groupings over a
// stored survey's listings. An age_diff query parameter adds the
// within/outside grouping.
func (h *Handler) GetSurveyStats(c *gin.Context) {
	listings, ok := h.loadListings(c)
	if !ok {
		return
	}

	var ageDiff *int
	if raw := c.Query("age_diff"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid age_diff"})
			return
		}
		ageDiff = &n
	}

	c.JSON(http.StatusOK, SurveyStats{
		TotalRent:  stats.SummarizeTotalRent(listings),
		Rent:       stats.SummarizeRent(listings),
		RentPerSqm: stats.SummarizeAreaRent(listings),
		AutoLock:   stats.GroupByAutoLock(listings),
		BathToilet: stats.GroupByBath(listings),
		Aspects:    stats.GroupByAspect(listings),
		AgeDiff:    stats.GroupByAgeDifference(listings, ageDiff),
	})
}

func (h *Handler) loadListings(c *gin.Context) ([]*models.Listing, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid survey id"})
		return nil, false
	}
	if _, err := h.db.GetSurvey(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return nil, false
	}
	listings, err := h.db.GetListings(uint(id))
	if err != nil {
		h.logger.WithError(err).WithField("survey_id", id).Error("Failed to load listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load listings"})
		return nil, false
	}
	return listings, true
}
