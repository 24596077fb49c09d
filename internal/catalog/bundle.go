package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrVariantUnknown indicates a variant id that resolves to no product.
var ErrVariantUnknown = errors.New("catalog: unknown variant")

// Bundle is the immutable result of a one-shot bootstrap load. It is built
// once per session lifetime and never mutated afterwards.
type Bundle struct {
	Merchant  Merchant           `json:"merchant"`
	Locations []Location         `json:"locations"`
	Durations []Duration         `json:"durations"`
	Categories []Category        `json:"categories"`
	Products  []Product          `json:"products"`
	Overrides []PriceOverrideRow `json:"priceOverrides"`

	locationsByID map[string]Location
	durationsByID map[string]Duration
	productsByID  map[string]Product
	variantOwner  map[string]string
}

// Validate checks the structural invariants of the loaded data and builds the
// internal lookup tables. It must be called before any lookup helper.
func (b *Bundle) Validate() error {
	if b == nil {
		return errors.New("catalog: nil bundle")
	}
	if strings.TrimSpace(b.Merchant.ID) == "" {
		return errors.New("catalog: merchant id is required")
	}
	if b.Merchant.TaxRate < 0 {
		return fmt.Errorf("catalog: merchant tax rate must be non-negative, got %v", b.Merchant.TaxRate)
	}
	b.locationsByID = make(map[string]Location, len(b.Locations))
	for _, loc := range b.Locations {
		open, err := parseTimeOfDay(loc.OpenTime)
		if err != nil {
			return fmt.Errorf("catalog: location %s: %w", loc.ID, err)
		}
		closeAt, err := parseTimeOfDay(loc.CloseTime)
		if err != nil {
			return fmt.Errorf("catalog: location %s: %w", loc.ID, err)
		}
		if open >= closeAt {
			return fmt.Errorf("catalog: location %s: opening time %s must precede closing time %s", loc.ID, loc.OpenTime, loc.CloseTime)
		}
		b.locationsByID[loc.ID] = loc
	}
	b.durationsByID = make(map[string]Duration, len(b.Durations))
	for _, d := range b.Durations {
		if d.TotalHours() <= 0 {
			return fmt.Errorf("catalog: duration %s has no length", d.ID)
		}
		b.durationsByID[d.ID] = d
	}
	b.productsByID = make(map[string]Product, len(b.Products))
	b.variantOwner = make(map[string]string)
	for _, p := range b.Products {
		if p.DailyPrice < 0 {
			return fmt.Errorf("catalog: product %s has negative daily price", p.ID)
		}
		b.productsByID[p.ID] = p
		for _, v := range p.Variants {
			if _, dup := b.variantOwner[v.ID]; dup {
				return fmt.Errorf("catalog: variant %s appears on more than one product", v.ID)
			}
			b.variantOwner[v.ID] = p.ID
		}
	}
	return nil
}

// LocationByID returns the location and whether it exists.
func (b *Bundle) LocationByID(id string) (Location, bool) {
	loc, ok := b.locationsByID[id]
	return loc, ok
}

// DurationByID returns the duration and whether it exists.
func (b *Bundle) DurationByID(id string) (Duration, bool) {
	d, ok := b.durationsByID[id]
	return d, ok
}

// ProductByID returns the product and whether it exists.
func (b *Bundle) ProductByID(id string) (Product, bool) {
	p, ok := b.productsByID[id]
	return p, ok
}

// VariantProduct resolves a variant id to its owning product and the variant
// itself. Missing variants report ok=false, never an error value.
func (b *Bundle) VariantProduct(variantID string) (Product, Variant, bool) {
	productID, ok := b.variantOwner[variantID]
	if !ok {
		return Product{}, Variant{}, false
	}
	product := b.productsByID[productID]
	for _, v := range product.Variants {
		if v.ID == variantID {
			return product, v, true
		}
	}
	return Product{}, Variant{}, false
}

// VariantIDsAt lists every variant id stocked at the given location.
func (b *Bundle) VariantIDsAt(locationID string) []string {
	var ids []string
	for _, p := range b.Products {
		for _, v := range p.Variants {
			if v.LocationID == locationID {
				ids = append(ids, v.ID)
			}
		}
	}
	return ids
}

// VisibleCategories filters out hidden categories.
func (b *Bundle) VisibleCategories() []Category {
	out := make([]Category, 0, len(b.Categories))
	for _, c := range b.Categories {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// parseTimeOfDay accepts "HH:MM" or "HH:MM:SS" and returns minutes from midnight.
func parseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return h*60 + m, nil
}
