package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrLoadFailed wraps any bootstrap load failure. Load failures are fatal for
// the wizard; the caller surfaces them instead of retrying silently.
var ErrLoadFailed = errors.New("catalog: bootstrap load failed")

// Source loads the complete bootstrap bundle for a merchant.
type Source interface {
	Load(ctx context.Context, merchantID string) (*Bundle, error)
}

// FileSource reads the bundle from a JSON document on disk. Used for local
// development and tests.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(_ context.Context, merchantID string) (*Bundle, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoadFailed, s.Path, err)
	}
	return decodeBundle(data, merchantID)
}

// HTTPSource fetches the bundle from the merchant platform.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Cache   *Cache
	TTL     time.Duration
}

// Load implements Source. Successful responses are cached per merchant.
func (s HTTPSource) Load(ctx context.Context, merchantID string) (*Bundle, error) {
	merchantID = strings.TrimSpace(merchantID)
	if merchantID == "" {
		return nil, fmt.Errorf("%w: merchant id is required", ErrLoadFailed)
	}
	cacheKey := "catalog:bundle:" + merchantID
	if s.Cache != nil {
		var cached Bundle
		if ok, err := s.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			if err := cached.Validate(); err == nil {
				return &cached, nil
			}
		}
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/bootstrap?merchant=" + url.QueryEscape(merchantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLoadFailed, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	bundle, err := decodeBundle(data, merchantID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, cacheKey, bundle)
	}
	return bundle, nil
}

func decodeBundle(data []byte, merchantID string) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoadFailed, err)
	}
	if merchantID != "" && bundle.Merchant.ID != "" && bundle.Merchant.ID != merchantID {
		return nil, fmt.Errorf("%w: bundle belongs to merchant %s", ErrLoadFailed, bundle.Merchant.ID)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return &bundle, nil
}
