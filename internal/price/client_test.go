package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BatchedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":65000.0},"ethereum":{"usd":3200.5}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	prices, err := c.FetchPrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000.0, "ethereum": 3200.5}, prices)
}

func TestClient_MissingIDsAreNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upstream silently drops ids it does not know.
		w.Write([]byte(`{"bitcoin":{"usd":65000.0}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	prices, err := c.FetchPrices(context.Background(), []string{"bitcoin", "not-a-coin"})
	require.NoError(t, err)
	assert.Len(t, prices, 1)
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.FetchPrices(context.Background(), []string{"bitcoin"})
	assert.Error(t, err)
}

func TestClient_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.FetchPrices(context.Background(), []string{"bitcoin"})
	assert.Error(t, err)
}

func TestClient_EmptyInput(t *testing.T) {
	c := NewClient()
	prices, err := c.FetchPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}
