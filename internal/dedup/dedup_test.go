package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsurvey/internal/models"
)

func sampleListing(site string) *models.Listing {
	area := 25.0
	rent := 80000
	fee := 5000
	station := "Shibuya"
	walk := 8
	l := &models.Listing{
		Title:         "Sunrise Court 101",
		Site:          site,
		URL:           "https://" + site + ".example/101",
		Rent:          &rent,
		ManagementFee: &fee,
		Area:          &area,
		Station:       &station,
		WalkMinutes:   &walk,
	}
	l.SetTotalRent()
	return l
}

func TestDeduplicateMergesSources(t *testing.T) {
	homes := sampleListing("homes")
	suumo := sampleListing("suumo")

	unique := Deduplicate([]*models.Listing{homes, suumo})

	require.Len(t, unique, 1)
	assert.Equal(t, "homes", unique[0].Site)
	assert.Equal(t, []string{"homes", "suumo"}, unique[0].Sources)
}

func TestDeduplicateSurvivorKeepsOwnFields(t *testing.T) {
	first := sampleListing("homes")
	second := sampleListing("suumo")
	aspect := "south"
	second.Aspect = &aspect

	unique := Deduplicate([]*models.Listing{first, second})

	require.Len(t, unique, 1)
	// Duplicate field values never overwrite the survivor.
	assert.Nil(t, unique[0].Aspect)
	assert.Equal(t, "https://homes.example/101", unique[0].URL)
}

func TestDeduplicateSourcesContainEachSiteOnce(t *testing.T) {
	unique := Deduplicate([]*models.Listing{
		sampleListing("homes"),
		sampleListing("suumo"),
		sampleListing("suumo"),
	})

	require.Len(t, unique, 1)
	assert.Equal(t, []string{"homes", "suumo"}, unique[0].Sources)
}

func TestDeduplicateIsOrderDependent(t *testing.T) {
	forward := Deduplicate([]*models.Listing{sampleListing("homes"), sampleListing("suumo")})
	reverse := Deduplicate([]*models.Listing{sampleListing("suumo"), sampleListing("homes")})

	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)
	assert.Equal(t, "homes", forward[0].Site)
	assert.Equal(t, "suumo", reverse[0].Site)
	// Same fingerprint either way, different survivor.
	assert.Equal(t, Fingerprint(forward[0]), Fingerprint(reverse[0]))
}

func TestDeduplicateIdempotent(t *testing.T) {
	rentA := 80000
	rentB := 93000
	listings := []*models.Listing{
		sampleListing("homes"),
		sampleListing("suumo"),
		{Title: "Hill Top 202", Site: "suumo", Rent: &rentA},
		{Title: "Hill Top 202", Site: "suumo", Rent: &rentB},
	}

	once := Deduplicate(listings)
	twice := Deduplicate(once)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Same(t, once[i], twice[i])
		assert.Equal(t, Fingerprint(once[i]), Fingerprint(twice[i]))
	}
}

func TestFingerprintNilFieldsCollapse(t *testing.T) {
	l := &models.Listing{Title: "  Bare Listing  ", Site: "homes"}
	assert.Equal(t, "Bare Listing|0.0|0|0||0", Fingerprint(l))
}

func TestFingerprintRoundsAreaToOneDecimal(t *testing.T) {
	a := sampleListing("homes")
	b := sampleListing("suumo")
	areaA := 25.04
	areaB := 25.01
	a.Area = &areaA
	b.Area = &areaB

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}
