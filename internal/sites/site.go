package sites

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"rentsurvey/internal/fetch"
	"rentsurvey/internal/models"
	"rentsurvey/internal/parsing"
)

// ErrUnsupportedSite is returned when no client is registered for a site
// name requested by the query.
var ErrUnsupportedSite = errors.New("unsupported site")

// ErrNoListings is returned when a page fetched fine but no listing could
// be extracted from it, which usually means blocking or a markup change.
var ErrNoListings = errors.New("no listings parsed")

// Client searches one rental portal and returns normalized listings.
type Client interface {
	Name() string
	Search(ctx context.Context, query *models.Query, limit int) ([]*models.Listing, error)
}

// Deps bundles what every site client needs: the paced fetcher, the age
// calculator carrying the injected clock, and the same clock for listing
// timestamps.
type Deps struct {
	HTTP   *fetch.Client
	Ages   *parsing.AgeCalculator
	Now    func() time.Time
	Logger *logrus.Logger
}

type constructor func(Deps) Client

var registry = map[string]constructor{
	"suumo": newSuumoClient,
	"homes": newHomesClient,
}

// New returns the client registered under the given site name.
func New(name string, deps Deps) (Client, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, name)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return build(deps), nil
}

// Supported lists the registered site names in stable order.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseDocument builds a goquery document from fetched HTML.
func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// detectBlocking looks for the usual bot-wall markers in a page that
// yielded no listings.
func detectBlocking(html string) string {
	lowered := strings.ToLower(html)
	for _, marker := range []string{"captcha", "access denied", "アクセスが集中"} {
		if strings.Contains(lowered, marker) {
			return "blocked: " + marker
		}
	}
	return ""
}

func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return nil
	}
	return &text
}
