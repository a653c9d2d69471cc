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

const homesBaseURL = "https://www.homes.co.jp/chintai/list/"

// homesClient extracts listings from LIFULL HOME'S search result cards.
// Unlike SUUMO, one card is one unit, and equipment filters are applied by
// the site itself, so a required amenity comes back as an explicit yes.
type homesClient struct {
	deps Deps
}

func newHomesClient(deps Deps) Client {
	return &homesClient{deps: deps}
}

func (c *homesClient) Name() string { return "homes" }

func (c *homesClient) Search(ctx context.Context, query *models.Query, limit int) ([]*models.Listing, error) {
	html, err := c.deps.HTTP.Get(ctx, homesBaseURL, c.buildQueryParams(query))
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var listings []*models.Listing
	doc.Find("div.mod-property-list div.property").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		listings = append(listings, c.parseCard(card, query))
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

func (c *homesClient) buildQueryParams(query *models.Query) url.Values {
	params := url.Values{}
	params.Set("keyword", query.Station)
	if query.BuildingType != nil {
		params.Set("bukken_type", *query.BuildingType)
	}
	if query.FloorPlan != nil {
		params.Set("madori", *query.FloorPlan)
	}
	if query.Minutes != nil {
		params.Set("minutes", strconv.Itoa(*query.Minutes))
	}
	if query.Area != nil {
		minArea := *query.Area - query.AreaTolerance
		if minArea < 0 {
			minArea = 0
		}
		params.Set("area_min", strconv.FormatFloat(minArea, 'f', -1, 64))
		params.Set("area_max", strconv.FormatFloat(*query.Area+query.AreaTolerance, 'f', -1, 64))
	}
	if query.AgeMax != nil {
		params.Set("age", strconv.Itoa(*query.AgeMax))
	}
	if query.AutoLock == models.ReqRequired {
		params.Set("equipment", "autolock")
	}
	if query.BathToilet == models.ReqRequired {
		params.Set("bath_toilet", "separate")
	}
	return params
}

func (c *homesClient) parseCard(card *goquery.Selection, query *models.Query) *models.Listing {
	titleLink := card.Find("h2.property-title a").First()
	title := strings.TrimSpace(titleLink.Text())

	builtText := optionalText(card.Find("span.chikunen").First())
	var builtInfo parsing.BuiltInfo
	if builtText != nil {
		builtInfo = c.deps.Ages.ParseBuiltInfo(*builtText)
	}
	stationInfo := parsing.ParseStationWalk(strings.TrimSpace(card.Find("div.property-point p").First().Text()))

	autoLock := models.TriUnknown
	if query.AutoLock == models.ReqRequired {
		autoLock = models.TriYes
	}
	bathToilet := models.TriUnknown
	if query.BathToilet == models.ReqRequired {
		bathToilet = models.TriYes
	}

	listing := &models.Listing{
		Title:              title,
		Site:               c.Name(),
		URL:                c.absoluteURL(titleLink),
		Rent:               parsing.ParseYen(card.Find("span.price strong").Text()),
		ManagementFee:      parsing.ParseYen(card.Find("span.price span.property-data").Text()),
		Deposit:            parsing.ParseYen(card.Find("span.shikikin").Text()),
		KeyMoney:           parsing.ParseYen(card.Find("span.reikin").Text()),
		Area:               parsing.ParseArea(card.Find("span.menseki").Text()),
		FloorPlan:          optionalText(card.Find("span.madori").First()),
		BuiltAt:            builtInfo.BuiltAt,
		BuiltAtText:        builtText,
		BuiltAgeYears:      builtInfo.BuiltAgeYears,
		AgeDiffFromSubject: c.deps.Ages.AgeDifference(query.SubjectBuilt, builtInfo.BuiltAt, builtInfo.BuiltAgeYears),
		Station:            stationInfo.Station,
		WalkMinutes:        stationInfo.WalkMinutes,
		BuildingType:       query.BuildingType,
		AutoLock:           autoLock,
		BathToiletSeparate: bathToilet,
		CollectedAt:        c.deps.Now(),
		Raw:                map[string]string{"source": c.Name()},
	}
	listing.SetTotalRent()
	return listing
}

func (c *homesClient) absoluteURL(link *goquery.Selection) string {
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return homesBaseURL
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.homes.co.jp" + href
}
