package price

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3/simple/price"
	fetchTimeout   = 8 * time.Second
	quoteCurrency  = "usd"
)

// Client fetches spot prices from the CoinGecko simple-price endpoint.
// One call covers any number of assets via a comma-joined id list.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL points the client at a different endpoint, used by
// tests against a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// FetchPrices returns the current USD price for each asset id the upstream
// knows about. Ids missing from the result are unknown this round, not an
// error. A returned error means no data at all (timeout, rate limit,
// malformed payload); callers fall back to cached values.
func (c *Client) FetchPrices(ctx context.Context, assetIDs []string) (map[string]float64, error) {
	if len(assetIDs) == 0 {
		return map[string]float64{}, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(assetIDs, ","))
	query.Set("vs_currencies", quoteCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build price request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchErrors.Inc()
		return nil, errors.Wrap(err, "price request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		fetchErrors.Inc()
		return nil, errors.New("price source rate limited the request")
	}
	if resp.StatusCode != http.StatusOK {
		fetchErrors.Inc()
		return nil, errors.Errorf("price source returned status %d", resp.StatusCode)
	}

	// Payload shape: {"bitcoin": {"usd": 65000.0}, ...}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fetchErrors.Inc()
		return nil, errors.Wrap(err, "could not parse price payload")
	}

	prices := make(map[string]float64, len(payload))
	for id, quotes := range payload {
		if p, ok := quotes[quoteCurrency]; ok {
			prices[id] = p
		}
	}

	log.Debugf("fetched %d/%d prices", len(prices), len(assetIDs))
	return prices, nil
}
