// Package pricing resolves unit prices for rental lines. Explicit override
// rows win over the derived daily-rate curve; all results are integer minor
// currency units and every function here is pure.
package pricing

import (
	"math"

	"github.com/alpenride/booking-api/internal/catalog"
)

// Index holds the merchant's price exception tables. Loc is keyed
// "locationID:productID:durationID" and takes precedence over Any, keyed
// "productID:durationID".
type Index struct {
	Loc map[string]int64
	Any map[string]int64
}

// BuildIndex routes override rows into the two lookup tables by presence of a
// location id.
func BuildIndex(rows []catalog.PriceOverrideRow) Index {
	idx := Index{
		Loc: make(map[string]int64),
		Any: make(map[string]int64),
	}
	for _, r := range rows {
		key := r.ProductID + ":" + r.DurationID
		if r.LocationID != "" {
			idx.Loc[r.LocationID+":"+key] = r.PriceCents
		} else {
			idx.Any[key] = r.PriceCents
		}
	}
	return idx
}

// lookup resolves an indexed price, location-scoped first.
func (idx Index) lookup(productID, durationID, locationID string) (int64, bool) {
	key := productID + ":" + durationID
	if locationID != "" {
		if price, ok := idx.Loc[locationID+":"+key]; ok {
			return price, true
		}
	}
	price, ok := idx.Any[key]
	return price, ok
}

// dayFactor is one point of the duration discount curve: the rental length in
// days multiplied by the per-day rate for that length.
type dayFactor struct {
	days float64
	rate float64
}

// Longer rentals earn a better per-day rate; sub-day durations are priced as
// fractions of the daily rate.
var discountCurve = map[string]dayFactor{
	"4h":  {1, 0.60},
	"6h":  {1, 0.75},
	"1d":  {1, 1.00},
	"2d":  {2, 0.95},
	"3d":  {3, 0.92},
	"4d":  {4, 0.90},
	"5d":  {5, 0.88},
	"6d":  {6, 0.86},
	"1w":  {7, 0.80},
	"8d":  {8, 0.80},
	"9d":  {9, 0.80},
	"10d": {10, 0.80},
	"2w":  {14, 0.75},
}

// DerivedPrice applies the discount curve to a base daily price. Unknown
// duration ids fall back to the plain daily rate. Rounding is half away from
// zero.
func DerivedPrice(dailyCents int64, durationID string) int64 {
	f, ok := discountCurve[durationID]
	if !ok {
		return dailyCents
	}
	return int64(math.Round(float64(dailyCents) * f.days * f.rate))
}

// UnitPrice resolves the price of one unit of product for the given duration
// and location: location-scoped override, then any-location override, then the
// derived curve. A zero dailyCents simply yields zero.
func UnitPrice(productID, durationID, locationID string, idx Index, dailyCents int64) int64 {
	if price, ok := idx.lookup(productID, durationID, locationID); ok {
		return price
	}
	return DerivedPrice(dailyCents, durationID)
}
