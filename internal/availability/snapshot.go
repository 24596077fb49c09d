// Package availability reconciles basket quantities against per-variant stock
// for the active rental window. A snapshot only carries variants the upstream
// source reported on; a variant absent from the snapshot is unknown, not sold
// out, and must never be clamped.
package availability

import "github.com/alpenride/booking-api/internal/obs"

// Snapshot maps variant ids to available stock for one (location, window,
// filter) tuple.
type Snapshot map[string]int

// Row is one upstream stock record.
type Row struct {
	VariantID      string `json:"variantId"`
	AvailableStock int    `json:"availableStock"`
}

// SummaryRow is aggregate per-product availability, used for calendar shading.
type SummaryRow struct {
	ProductID      string `json:"productId"`
	TotalAvailable int    `json:"totalAvailable"`
}

// SnapshotFromRows folds upstream rows into a snapshot. Duplicate variant ids
// keep the last value; negative counts are floored at zero.
func SnapshotFromRows(rows []Row) Snapshot {
	snap := make(Snapshot, len(rows))
	for _, r := range rows {
		stock := r.AvailableStock
		if stock < 0 {
			stock = 0
		}
		snap[r.VariantID] = stock
	}
	return snap
}

// Clamp reduces basket entries to the stock the snapshot reports. Only keys
// present in the snapshot are touched. Entries clamped to zero or below are
// removed. The input basket is never mutated; the returned map is fresh and
// the bool reports whether anything changed.
func Clamp(basket map[string]int, snap Snapshot) (map[string]int, bool) {
	out := make(map[string]int, len(basket))
	changed := false
	for variantID, qty := range basket {
		stock, known := snap[variantID]
		if !known || qty <= stock {
			out[variantID] = qty
			continue
		}
		changed = true
		if obs.BasketClampTotal != nil {
			obs.BasketClampTotal.Inc()
		}
		if stock > 0 {
			out[variantID] = stock
		}
	}
	return out, changed
}
