package survey

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"rentsurvey/internal/dedup"
	"rentsurvey/internal/fetch"
	"rentsurvey/internal/filter"
	"rentsurvey/internal/models"
	"rentsurvey/internal/parsing"
	"rentsurvey/internal/sites"
)

// Options carries the fetch-layer settings for a survey run.
type Options struct {
	UserAgent       string
	RequestInterval time.Duration
	RequestTimeout  time.Duration

	// Now is the clock used for collection timestamps and age computation.
	// Defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Runner executes one survey: per-site collection in the caller-given site
// order, then filtering and deduplication. Site order matters because the
// first observation of a fingerprint wins during deduplication.
type Runner struct {
	opts   Options
	logger *logrus.Logger
}

// NewRunner creates a survey runner.
func NewRunner(opts Options, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts, logger: logger}
}

// Run collects listings for the query from each requested site. A failing
// site is recorded in SkippedSites with its reason and never aborts the
// run; it just contributes no listings.
func (r *Runner) Run(ctx context.Context, query *models.Query) (*models.SurveyResult, error) {
	ages := parsing.NewAgeCalculator(r.opts.Now)

	var listings []*models.Listing
	skipped := make(map[string]string)
	for _, siteName := range query.Sites {
		httpClient := fetch.NewClient(r.opts.UserAgent, r.opts.RequestInterval, r.opts.RequestTimeout, r.logger)
		client, err := sites.New(siteName, sites.Deps{
			HTTP:   httpClient,
			Ages:   ages,
			Now:    r.opts.Now,
			Logger: r.logger,
		})
		if err != nil {
			skipped[siteName] = "unsupported_site"
			r.logger.WithField("site", siteName).Warn("Unsupported site requested")
			continue
		}

		siteListings, err := client.Search(ctx, query, query.MaxListings)
		if err != nil {
			skipped[siteName] = err.Error()
			r.logger.WithError(err).WithField("site", siteName).Warn("Failed to fetch from site")
			continue
		}
		r.logger.WithFields(logrus.Fields{
			"site":  siteName,
			"count": len(siteListings),
		}).Info("Collected listings")
		listings = append(listings, siteListings...)
	}

	filtered := filter.Apply(listings, query)
	deduplicated := dedup.Deduplicate(filtered)

	r.logger.WithFields(logrus.Fields{
		"raw":          len(listings),
		"filtered":     len(filtered),
		"deduplicated": len(deduplicated),
	}).Info("Survey pipeline complete")

	return &models.SurveyResult{
		RawListings:          listings,
		FilteredListings:     filtered,
		DeduplicatedListings: deduplicated,
		SkippedSites:         skipped,
	}, nil
}
