package fxfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(config.ExchangeConfig{
		FeedURL:     url,
		FeedTimeout: 2 * time.Second,
	})
}

func TestClientFetchReferenceRate(t *testing.T) {
	ctx := context.Background()

	t.Run("string rate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"usd": "36.50"}`))
		}))
		defer server.Close()

		rate, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromFloat(36.5)))
	})

	t.Run("numeric rate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"usd": 37.25}`))
		}))
		defer server.Close()

		rate, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromFloat(37.25)))
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		assert.ErrorContains(t, err, "502")
	})

	t.Run("zero rate is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"usd": "0"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		assert.ErrorContains(t, err, "non-positive")
	})

	t.Run("missing usd field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rate": "36.50"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		assert.ErrorContains(t, err, "missing usd")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchReferenceRate(ctx)
		assert.Error(t, err)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := newTestClient("").FetchReferenceRate(ctx)
		assert.ErrorContains(t, err, "no rate feed URL")
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newTestClient(server.URL).FetchReferenceRate(cancelled)
		assert.Error(t, err)
	})
}
