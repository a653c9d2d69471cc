package sites

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rentsurvey/internal/models"
	"rentsurvey/internal/parsing"
)

const suumoBaseURL = "https://suumo.jp/chintai/"

// suumoClient extracts listings from SUUMO search result pages. Each
// building "cassette" carries shared fields (title, station access,
// building type) and a table of per-unit rows.
type suumoClient struct {
	deps Deps
}

func newSuumoClient(deps Deps) Client {
	return &suumoClient{deps: deps}
}

func (c *suumoClient) Name() string { return "suumo" }

func (c *suumoClient) Search(ctx context.Context, query *models.Query, limit int) ([]*models.Listing, error) {
	html, err := c.deps.HTTP.Get(ctx, suumoBaseURL, c.buildQueryParams(query))
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var listings []*models.Listing
	doc.Find("div.cassetteitem").EachWithBreak(func(_ int, cassette *goquery.Selection) bool {
		listings = append(listings, c.parseCassette(cassette, query)...)
		return len(listings) < limit
	})

	if len(listings) == 0 {
		if reason := detectBlocking(html); reason != "" {
			c.deps.Logger.WithField("site", c.Name()).Warnf("Skipped: %s", reason)
			return nil, fmt.Errorf("%s: %s", c.Name(), reason)
		}
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNoListings)
	}
	if len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

func (c *suumoClient) buildQueryParams(query *models.Query) url.Values {
	params := url.Values{}
	params.Set("sc", query.Station)
	params.Set("fw", query.Station)
	if query.FloorPlan != nil {
		params.Set("md", *query.FloorPlan)
	}
	if query.Minutes != nil {
		params.Set("et", strconv.Itoa(*query.Minutes))
	}
	if query.Area != nil {
		minArea := *query.Area - query.AreaTolerance
		if minArea < 0 {
			minArea = 0
		}
		params.Set("ma", strconv.FormatFloat(minArea, 'f', -1, 64))
		params.Set("ta", strconv.FormatFloat(*query.Area+query.AreaTolerance, 'f', -1, 64))
	}
	if query.AgeMax != nil {
		params.Set("cb", "0")
		params.Set("ct", strconv.Itoa(*query.AgeMax))
	}
	return params
}

func (c *suumoClient) parseCassette(cassette *goquery.Selection, query *models.Query) []*models.Listing {
	title := strings.TrimSpace(cassette.Find("div.cassetteitem_content-title").Text())
	stationInfo := parsing.ParseStationWalk(strings.TrimSpace(cassette.Find("div.cassetteitem_detail-text").First().Text()))
	buildingType := optionalText(cassette.Find("div.cassetteitem_content-label").First())

	var listings []*models.Listing
	cassette.Find("table.cassetteitem_other tbody tr").Each(func(_ int, row *goquery.Selection) {
		builtText := optionalText(row.Find("td.cassetteitem_col4").First())
		var builtInfo parsing.BuiltInfo
		if builtText != nil {
			builtInfo = c.deps.Ages.ParseBuiltInfo(*builtText)
		}

		listing := &models.Listing{
			Title:              title,
			Site:               c.Name(),
			URL:                c.absoluteURL(row.Find("a").First()),
			Rent:               parsing.ParseYen(row.Find("td.cassetteitem_price--rent").Text()),
			ManagementFee:      parsing.ParseYen(row.Find("td.cassetteitem_price--administration").Text()),
			Deposit:            parsing.ParseYen(row.Find("td.cassetteitem_price--deposit").Text()),
			KeyMoney:           parsing.ParseYen(row.Find("td.cassetteitem_price--gratuity").Text()),
			Area:               parsing.ParseArea(row.Find("td.cassetteitem_menseki").Text()),
			FloorPlan:          optionalText(row.Find("td.cassetteitem_madori").First()),
			BuiltAt:            builtInfo.BuiltAt,
			BuiltAtText:        builtText,
			BuiltAgeYears:      builtInfo.BuiltAgeYears,
			AgeDiffFromSubject: c.deps.Ages.AgeDifference(query.SubjectBuilt, builtInfo.BuiltAt, builtInfo.BuiltAgeYears),
			Station:            stationInfo.Station,
			WalkMinutes:        stationInfo.WalkMinutes,
			BuildingType:       buildingType,
			AutoLock:           models.TriUnknown,
			BathToiletSeparate: models.TriUnknown,
			CollectedAt:        c.deps.Now(),
			Raw:                map[string]string{"source": c.Name()},
		}
		listing.SetTotalRent()
		listings = append(listings, listing)
	})
	return listings
}

func (c *suumoClient) absoluteURL(link *goquery.Selection) string {
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return suumoBaseURL
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://suumo.jp" + href
}
