package catalog

import (
	"net/http"

	"github.com/alpenride/booking-api/internal/common"
)

// Handler exposes read-only catalog endpoints backed by the loaded bundle.
type Handler struct {
	Bundle *Bundle
}

// Merchant handles GET /api/v1/catalog/merchant.
func (h *Handler) Merchant(w http.ResponseWriter, _ *http.Request) {
	if h.Bundle == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Bundle.Merchant})
}

// Locations handles GET /api/v1/catalog/locations.
func (h *Handler) Locations(w http.ResponseWriter, _ *http.Request) {
	if h.Bundle == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Bundle.Locations})
}

// Durations handles GET /api/v1/catalog/durations.
func (h *Handler) Durations(w http.ResponseWriter, _ *http.Request) {
	if h.Bundle == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Bundle.Durations})
}

// Categories handles GET /api/v1/catalog/categories. Hidden categories are omitted.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	if h.Bundle == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Bundle.VisibleCategories()})
}

// Products handles GET /api/v1/catalog/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Bundle == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	locationID := r.URL.Query().Get("location")
	categoryID := r.URL.Query().Get("category")
	out := make([]Product, 0, len(h.Bundle.Products))
	for _, p := range h.Bundle.Products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if locationID != "" && !stockedAt(p, locationID) {
			continue
		}
		out = append(out, p)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func stockedAt(p Product, locationID string) bool {
	for _, v := range p.Variants {
		if v.LocationID == locationID {
			return true
		}
	}
	return false
}
