package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/securities", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"symbol":"BTI","name":"Banks Trust"},{"symbol":"DIH","name":"Banks DIH"}]`))
	})
	mux.HandleFunc("/securities/DIH/trades/recent", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ltp":"3,500.00"}`))
	})
	mux.HandleFunc("/securities/BTI/trades/recent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFeed_ListSecurities(t *testing.T) {
	srv := newFeedServer(t)
	feed := &HTTPFeed{BaseURL: srv.URL}

	securities, err := feed.ListSecurities(context.Background())
	require.NoError(t, err)
	require.Len(t, securities, 2)
	assert.Equal(t, "BTI", securities[0].Symbol)
	assert.Equal(t, "Banks DIH", securities[1].Name)
}

func TestHTTPFeed_GetRecentTrade(t *testing.T) {
	srv := newFeedServer(t)
	feed := &HTTPFeed{BaseURL: srv.URL}

	trade, err := feed.GetRecentTrade(context.Background(), "DIH")
	require.NoError(t, err)
	require.NotNil(t, trade)
	assert.Equal(t, "3,500.00", trade.LastTradedPrice)
}

func TestHTTPFeed_GetRecentTrade_NoneIsNil(t *testing.T) {
	srv := newFeedServer(t)
	feed := &HTTPFeed{BaseURL: srv.URL}

	trade, err := feed.GetRecentTrade(context.Background(), "BTI")
	require.NoError(t, err)
	assert.Nil(t, trade)
}

func TestHTTPFeed_ServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	feed := &HTTPFeed{BaseURL: srv.URL}

	_, err := feed.ListSecurities(context.Background())
	assert.Error(t, err)
	_, err = feed.GetRecentTrade(context.Background(), "BTI")
	assert.Error(t, err)
}
