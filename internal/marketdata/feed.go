package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FeedSecurity is one listed instrument as reported by the external feed.
type FeedSecurity struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// FeedTrade is the most recent trade for a symbol. LastTradedPrice arrives as
// a display string and may contain thousands separators (e.g. "3,500.00").
type FeedTrade struct {
	LastTradedPrice string `json:"ltp"`
}

// Feed abstracts the external GSE market-data collaborator.
type Feed interface {
	ListSecurities(ctx context.Context) ([]FeedSecurity, error)
	// GetRecentTrade returns (nil, nil) when the feed has no trade for symbol.
	GetRecentTrade(ctx context.Context, symbol string) (*FeedTrade, error)
}

// HTTPFeed implements Feed over the feed's JSON endpoints.
type HTTPFeed struct {
	BaseURL string
	Client  *http.Client
}

func (f *HTTPFeed) httpClient() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (f *HTTPFeed) ListSecurities(ctx context.Context) ([]FeedSecurity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/securities", nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed securities: unexpected status %d", resp.StatusCode)
	}
	var securities []FeedSecurity
	if err := json.NewDecoder(resp.Body).Decode(&securities); err != nil {
		return nil, fmt.Errorf("feed securities: decode: %w", err)
	}
	return securities, nil
}

func (f *HTTPFeed) GetRecentTrade(ctx context.Context, symbol string) (*FeedTrade, error) {
	endpoint := f.BaseURL + "/securities/" + url.PathEscape(symbol) + "/trades/recent"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed trade %s: unexpected status %d", symbol, resp.StatusCode)
	}
	var trade FeedTrade
	if err := json.NewDecoder(resp.Body).Decode(&trade); err != nil {
		return nil, fmt.Errorf("feed trade %s: decode: %w", symbol, err)
	}
	return &trade, nil
}
