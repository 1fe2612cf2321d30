package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the public ExchangeRate-API endpoint.
	DefaultBaseURL = "https://api.exchangerate-api.com"

	// pivotCurrency is the stable base used for cross-rate fallback; the API
	// publishes its widest rate table against USD.
	pivotCurrency = "USD"
)

// Ensure Client implements Converter
var _ Converter = (*Client)(nil)

// Client converts currencies using ExchangeRate-API rate tables.
//
// Strategy per conversion:
//  1. equal currencies short-circuit;
//  2. try a direct lookup with base = from;
//  3. fall back to a USD-pivot cross rate: amount * (rateTo / rateFrom).
//
// Rate tables are cached per base currency for a TTL so that a burst of
// expense edits does not hammer the API.
type Client struct {
	baseURL string
	httpc   *http.Client
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]cachedRates
}

type cachedRates struct {
	rates     map[string]float64
	fetchedAt time.Time
}

type ratesResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithCacheTTL overrides how long fetched rate tables are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// NewClient creates a rate client with a 10 second request timeout and a
// 10 minute rate cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		ttl:     10 * time.Minute,
		cache:   make(map[string]cachedRates),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns amount expressed in the "to" currency.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	// Direct: rates with base = from
	if rates, err := c.rates(ctx, from); err == nil {
		if rate, ok := rates[to]; ok {
			return amount * rate, nil
		}
	}

	// Fallback: USD-pivot cross rate
	rates, err := c.rates(ctx, pivotCurrency)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pivot rates: %w", err)
	}
	rateFrom, ok := rates[from]
	if !ok {
		return 0, fmt.Errorf("%w for %s (pivot lookup)", ErrRateUnavailable, from)
	}
	rateTo, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("%w for %s (pivot lookup)", ErrRateUnavailable, to)
	}

	// Pivot tables read "1 USD = rates[X] units of X", so the from->to
	// multiplier is rateTo / rateFrom.
	return amount * (rateTo / rateFrom), nil
}

// Currencies returns the available currency codes, sorted.
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	rates, err := c.rates(ctx, pivotCurrency)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rates)+1)
	for code := range rates {
		codes = append(codes, code)
	}
	if _, ok := rates[pivotCurrency]; !ok {
		codes = append(codes, pivotCurrency)
	}
	sort.Strings(codes)
	return codes, nil
}

func (c *Client) rates(ctx context.Context, base string) (map[string]float64, error) {
	c.mu.Lock()
	if cached, ok := c.cache[base]; ok && time.Since(cached.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return cached.rates, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v4/latest/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates for %s: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rates request for %s returned %d", ErrRateUnavailable, base, resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table for %s", ErrRateUnavailable, base)
	}

	c.mu.Lock()
	c.cache[base] = cachedRates{rates: parsed.Rates, fetchedAt: time.Now()}
	c.mu.Unlock()

	return parsed.Rates, nil
}
