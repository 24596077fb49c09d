package pricing

import (
	"sort"

	"github.com/alpenride/booking-api/internal/catalog"
	"github.com/alpenride/booking-api/internal/tax"
)

// Line is one priced basket entry.
type Line struct {
	VariantID string `json:"variantId"`
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPriceCents"`
	Subtotal  int64  `json:"subtotalCents"`
}

// Quote aggregates priced lines with the merchant tax breakdown.
type Quote struct {
	Lines    []Line `json:"lines"`
	Subtotal int64  `json:"subtotalCents"`
	Tax      int64  `json:"taxCents"`
	TaxLabel string `json:"taxLabel"`
	Total    int64  `json:"totalCents"`
}

// QuoteBasket prices every basket entry against the catalog and folds the sum
// through the tax calculator. Entries whose variant cannot be resolved
// contribute nothing; they are not an error. Recomputed fresh on every call so
// quotes always reflect the current duration and location.
func QuoteBasket(basket map[string]int, bundle *catalog.Bundle, durationID, locationID string, idx Index) Quote {
	taxCfg := tax.Config{}
	if bundle != nil {
		taxCfg = tax.Config{
			Rate:     bundle.Merchant.TaxRate,
			Included: bundle.Merchant.TaxIncluded,
			Label:    bundle.Merchant.TaxLabel,
		}
	}
	q := Quote{TaxLabel: tax.DisplayLabel(taxCfg)}
	if bundle == nil || len(basket) == 0 {
		b := tax.Calculate(taxCfg, 0)
		q.Subtotal, q.Tax, q.Total = b.Subtotal, b.Tax, b.Total
		return q
	}

	var raw int64
	for variantID, qty := range basket {
		if qty <= 0 {
			continue
		}
		product, variant, ok := bundle.VariantProduct(variantID)
		if !ok {
			continue
		}
		unit := UnitPrice(product.ID, durationID, locationID, idx, product.DailyPrice)
		line := Line{
			VariantID: variantID,
			ProductID: product.ID,
			Title:     product.Title,
			Size:      variant.Size,
			Qty:       qty,
			UnitPrice: unit,
			Subtotal:  unit * int64(qty),
		}
		raw += line.Subtotal
		q.Lines = append(q.Lines, line)
	}
	sort.Slice(q.Lines, func(i, j int) bool { return q.Lines[i].VariantID < q.Lines[j].VariantID })
	b := tax.Calculate(taxCfg, raw)
	q.Subtotal, q.Tax, q.Total = b.Subtotal, b.Tax, b.Total
	return q
}
