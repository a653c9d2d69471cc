package survey

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsurvey/internal/models"
)

func TestRunSkipsUnsupportedSites(t *testing.T) {
	logger := logrus.New()
	runner := NewRunner(Options{
		UserAgent:       "test-agent",
		RequestInterval: time.Second,
		RequestTimeout:  time.Second,
		Now:             func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) },
	}, logger)

	query := &models.Query{
		Station:     "渋谷",
		Sites:       []string{"athome", "realtor"},
		MaxListings: 10,
		AutoLock:    models.ReqAny,
		BathToilet:  models.ReqAny,
	}

	result, err := runner.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, result.RawListings)
	assert.Empty(t, result.FilteredListings)
	assert.Empty(t, result.DeduplicatedListings)
	assert.Equal(t, map[string]string{
		"athome":  "unsupported_site",
		"realtor": "unsupported_site",
	}, result.SkippedSites)
}

func TestNewRunnerDefaults(t *testing.T) {
	runner := NewRunner(Options{}, nil)
	require.NotNil(t, runner)
	assert.NotNil(t, runner.logger)
	assert.NotNil(t, runner.opts.Now)
}
