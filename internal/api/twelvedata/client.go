// Package twelvedata fetches weekly price history from the Twelve Data API.
// It is the screener's only network-facing collaborator; everything past it
// works on pre-fetched candles.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/Alias1177/Screener/internal/platform/http"
	"github.com/Alias1177/Screener/models"
)

// Client is the Twelve Data API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *platformhttp.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	APIKey          string
	RequestTimeout  time.Duration
	RequestInterval time.Duration
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Twelve Data API client
func NewClient(options ClientOptions) *Client {
	return &Client{
		apiKey:  options.APIKey,
		baseURL: "https://api.twelvedata.com",
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestInterval: options.RequestInterval,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "twelvedata_client").Logger(),
	}
}

// timeSeriesResponse mirrors the /time_series payload
type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   int64   `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// WeeklyCandles fetches the weekly price history for a symbol, oldest bar
// first. exchange narrows the listing (e.g. "NSE"); empty means the
// provider default. years controls how far back the history reaches.
func (c *Client) WeeklyCandles(ctx context.Context, symbol, exchange string, years int) ([]models.Candle, error) {
	if years < 1 {
		years = 2
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1week")
	params.Set("outputsize", fmt.Sprintf("%d", years*52+8))
	params.Set("apikey", c.apiKey)
	if exchange != "" {
		params.Set("exchange", exchange)
	}
	reqURL := fmt.Sprintf("%s/time_series?%s", c.baseURL, params.Encode())

	c.logger.Debug().Str("symbol", symbol).Int("years", years).Msg("Fetching weekly candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Warn().Str("symbol", symbol).Str("response", string(body)).Msg("Provider error")
		return nil, fmt.Errorf("provider error for %s", symbol)
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing response for %s: %w", symbol, err)
	}
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrNoData)
	}

	candles := make([]models.Candle, 0, len(data.Values))
	for _, v := range data.Values {
		ts, err := parseDatetime(v.Datetime)
		if err != nil {
			c.logger.Warn().Str("symbol", symbol).Str("datetime", v.Datetime).Msg("Skipping bar with bad timestamp")
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      v.Open,
			High:      v.High,
			Low:       v.Low,
			Close:     v.Close,
			Volume:    v.Volume,
		})
	}

	// Provider returns newest first; calculations need oldest first
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	c.logger.Debug().Str("symbol", symbol).Int("count", len(candles)).Msg("Fetched weekly candles")
	return candles, nil
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
