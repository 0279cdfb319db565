// Package explorer looks up on-chain BTC address balances through the
// public Blockchair dashboard API.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/pkg/retrier"
)

const (
	defaultBaseURL = "https://api.blockchair.com/bitcoin/dashboards/address"
	requestTimeout = 15 * time.Second
)

var satoshisPerBTC = decimal.NewFromInt(100_000_000)

// Blockchair is an address-balance client. Lookups have a bounded timeout
// and retry transient failures with backoff; a final failure is reported to
// the caller and retried on the next polling cycle.
type Blockchair struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// Option configures the Blockchair client.
type Option func(*Blockchair)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(b *Blockchair) {
		b.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Blockchair) {
		b.httpClient = client
	}
}

// New creates a Blockchair client.
func New(opts ...Option) *Blockchair {
	b := &Blockchair{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		retrier:    retrier.New(retrier.WithMaxRetries(2), retrier.WithInitialInterval(time.Second)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type dashboardResponse struct {
	Data map[string]struct {
		Address struct {
			Balance int64 `json:"balance"`
		} `json:"address"`
	} `json:"data"`
}

// AddressBalance returns the confirmed balance of the address in BTC.
func (b *Blockchair) AddressBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	return retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return b.fetchBalance(ctx, address)
	})
}

func (b *Blockchair) fetchBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", b.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "failed to build blockchair request")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "blockchair request for %s failed", address)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Decimal{}, errors.Errorf("blockchair returned %d for %s: %s", resp.StatusCode, address, body)
	}

	var dashboard dashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&dashboard); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "failed to decode blockchair response")
	}

	entry, ok := dashboard.Data[address]
	if !ok {
		return decimal.Decimal{}, errors.Errorf("blockchair response has no entry for %s", address)
	}

	return decimal.NewFromInt(entry.Address.Balance).Div(satoshisPerBTC), nil
}
