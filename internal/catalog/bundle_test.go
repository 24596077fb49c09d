package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/catalog"
)

func validBundle() *catalog.Bundle {
	return &catalog.Bundle{
		Merchant: catalog.Merchant{ID: "demo", TaxRate: 0.20},
		Locations: []catalog.Location{
			{ID: "salzburg", OpenTime: "08:00", CloseTime: "18:00"},
		},
		Durations: []catalog.Duration{
			{ID: "4h", Hours: 4},
			{ID: "1w", Days: 7},
		},
		Categories: []catalog.Category{
			{ID: "bikes"},
			{ID: "internal", Hidden: true},
		},
		Products: []catalog.Product{
			{
				ID: "city-bike", Title: "City Bike", DailyPrice: 2500, CategoryID: "bikes",
				Variants: []catalog.Variant{
					{ID: "city-m-salzburg", LocationID: "salzburg", Size: "M"},
					{ID: "city-l-salzburg", LocationID: "salzburg", Size: "L"},
				},
			},
		},
	}
}

func TestValidateAndLookups(t *testing.T) {
	b := validBundle()
	require.NoError(t, b.Validate())

	loc, ok := b.LocationByID("salzburg")
	require.True(t, ok)
	require.Equal(t, "08:00", loc.OpenTime)

	d, ok := b.DurationByID("1w")
	require.True(t, ok)
	require.Equal(t, 168, d.TotalHours())

	p, v, ok := b.VariantProduct("city-l-salzburg")
	require.True(t, ok)
	require.Equal(t, "city-bike", p.ID)
	require.Equal(t, "L", v.Size)

	_, _, ok = b.VariantProduct("ghost")
	require.False(t, ok)

	require.ElementsMatch(t, []string{"city-m-salzburg", "city-l-salzburg"}, b.VariantIDsAt("salzburg"))
	require.Empty(t, b.VariantIDsAt("vienna"))

	cats := b.VisibleCategories()
	require.Len(t, cats, 1)
	require.Equal(t, "bikes", cats[0].ID)
}

func TestValidateRejectsMissingMerchant(t *testing.T) {
	b := validBundle()
	b.Merchant.ID = "  "
	require.Error(t, b.Validate())
}

func TestValidateRejectsNegativeTaxRate(t *testing.T) {
	b := validBundle()
	b.Merchant.TaxRate = -0.1
	require.Error(t, b.Validate())
}

func TestValidateRejectsInvertedHours(t *testing.T) {
	b := validBundle()
	b.Locations[0].OpenTime = "18:00"
	b.Locations[0].CloseTime = "08:00"
	require.Error(t, b.Validate())

	b = validBundle()
	b.Locations[0].OpenTime = "late"
	require.Error(t, b.Validate())
}

func TestValidateRejectsZeroLengthDuration(t *testing.T) {
	b := validBundle()
	b.Durations = append(b.Durations, catalog.Duration{ID: "0h"})
	require.Error(t, b.Validate())
}

func TestValidateRejectsDuplicateVariants(t *testing.T) {
	b := validBundle()
	b.Products = append(b.Products, catalog.Product{
		ID: "other", DailyPrice: 100,
		Variants: []catalog.Variant{{ID: "city-m-salzburg", LocationID: "salzburg"}},
	})
	require.Error(t, b.Validate())
}

func TestValidateRejectsNegativePrice(t *testing.T) {
	b := validBundle()
	b.Products[0].DailyPrice = -1
	require.Error(t, b.Validate())
}
