package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource queries the merchant platform's inventory endpoints. It performs
// single attempts; retry and staleness handling belong to the Fetcher.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// AvailableStock implements StockSource.
func (s HTTPSource) AvailableStock(ctx context.Context, q Query) ([]Row, error) {
	params := url.Values{}
	params.Set("variantIds", strings.Join(q.VariantIDs, ","))
	params.Set("start", q.Start.UTC().Format(time.RFC3339))
	params.Set("end", q.End.UTC().Format(time.RFC3339))

	var payload struct {
		Data []Row `json:"data"`
	}
	if err := s.getJSON(ctx, "/stock", params, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Summary implements StockSource.
func (s HTTPSource) Summary(ctx context.Context, q SummaryQuery) ([]SummaryRow, error) {
	params := url.Values{}
	params.Set("locationId", q.LocationID)
	params.Set("start", q.Start.UTC().Format(time.RFC3339))
	params.Set("end", q.End.UTC().Format(time.RFC3339))
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Size != "" {
		params.Set("size", q.Size)
	}

	var payload struct {
		Data []SummaryRow `json:"data"`
	}
	if err := s.getJSON(ctx, "/stock/summary", params, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (s HTTPSource) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := strings.TrimRight(s.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("availability: build request: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("availability: fetch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("availability: fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("availability: decode %s: %w", path, err)
	}
	return nil
}
