// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reference

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/polygon/message"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.polygon.io"

// Client for the reference data endpoints. Its configuration is immutable, and
// it is safe for concurrent use to the extent its Transport is.
type Client struct {
	baseURL    string       // the base URL of the server
	apiKey     string       // your very own secret key
	httpClient *http.Client // connection pool owned by the client
	transport  Transport
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the server URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets the HTTP client whose connection pool the Client owns
// and releases in Close. Timeouts are configured here.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// New creates a blocking client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.Reason("API key is required")
	}
	c := &Client{baseURL: URL, apiKey: apiKey}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.transport == nil {
		c.transport = &HTTPTransport{Client: c.httpClient}
	}
	return c, nil
}

// Using creates a client, passes it to f and closes it when f returns or
// panics.
func Using(apiKey string, f func(c *Client) error, opts ...Option) error {
	c, err := New(apiKey, opts...)
	if err != nil {
		return err
	}
	defer c.Close()
	return f(c)
}

// Close releases the pooled connections. The client remains usable and will
// open new connections as needed. It is safe to call Close more than once.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// BaseURL of the server the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) header() http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+c.apiKey)
	h.Set("Accept", "application/json")
	return h
}

// Mode is the output shape of a call.
type Mode int

// Values of Mode.
const (
	ModeDefault Mode = iota // as set by the endpoint
	ModeDecoded             // Result.Value is set
	ModeRaw                 // Result.Response is set
)

// CallOption customizes a single call.
type CallOption func(*callOptions)

type callOptions struct {
	mode Mode
}

// Raw requests the unread transport response.
func Raw() CallOption {
	return func(o *callOptions) { o.mode = ModeRaw }
}

// Decoded requests the decoded JSON body.
func Decoded() CallOption {
	return func(o *callOptions) { o.mode = ModeDecoded }
}

// raw resolves the output shape of a call given the endpoint default.
func raw(rawByDefault bool, opts []CallOption) bool {
	var o callOptions
	for _, f := range opts {
		f(&o)
	}
	switch o.mode {
	case ModeRaw:
		return true
	case ModeDecoded:
		return false
	}
	return rawByDefault
}

// queryString formats the query with sorted keys, for logging.
func queryString(q url.Values) string {
	keys := maps.Keys(q)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strings.Join(q[k], ",")
	}
	return strings.Join(parts, " ")
}

// get sends the request and shapes the result. Transport and decoding errors
// are returned as is.
func (c *Client) get(ctx context.Context, uri string, query url.Values, rawResult bool) (*Result, error) {
	resp, err := c.transport.Get(ctx, uri, query, c.header())
	if err != nil {
		return nil, err
	}
	if rawResult {
		return &Result{Response: resp}, nil
	}
	v, err := decodeBody(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodedResult(v), nil
}

// Do calls the endpoint with the given params: nil, or a pointer to the
// endpoint's params struct. Removed endpoints return a *RemovedError without
// issuing a request.
func (c *Client) Do(ctx context.Context, e *Endpoint, params message.Message, opts ...CallOption) (*Result, error) {
	if e.Removed() {
		logging.Warningf(ctx, "endpoint %s has been removed; please use %s instead",
			e.Name, e.Replacement)
		return nil, &RemovedError{Endpoint: e.Name, Replacement: e.Replacement}
	}
	path, query, err := e.Build(params)
	if err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "polygon %s: GET %s [%s]", e.Name, path, queryString(query))
	return c.get(ctx, c.baseURL+path, query, raw(e.RawByDefault, opts))
}

// Get issues a GET for an arbitrary path relative to the base URL. Unlike the
// endpoint methods, it returns the raw response unless Decoded() is given.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...CallOption) (*Result, error) {
	logging.Debugf(ctx, "polygon: GET %s [%s]", path, queryString(query))
	return c.get(ctx, c.baseURL+path, query, raw(true, opts))
}

// Tickers lists ticker symbols across stocks, crypto and forex.
func (c *Client) Tickers(ctx context.Context, p *TickersParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointTickers, p, opts...)
}

// TickerTypes lists the ticker types and their descriptions.
func (c *Client) TickerTypes(ctx context.Context, p *TickerTypesParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointTickerTypes, p, opts...)
}

// TickerTypesV2 has been removed in favor of TickerTypes.
func (c *Client) TickerTypesV2(ctx context.Context) (*Result, error) {
	return c.Do(ctx, EndpointTickerTypesV2, nil)
}

// TickerDetails returns the company overview for the symbol.
func (c *Client) TickerDetails(ctx context.Context, symbol string, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointTickerDetails, &SymbolParams{Symbol: symbol}, opts...)
}

// TickerDetailsVX returns the ticker details from the experimental endpoint.
func (c *Client) TickerDetailsVX(ctx context.Context, p *TickerDetailsVXParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointTickerDetailsVX, p, opts...)
}

// OptionContracts lists options contracts.
func (c *Client) OptionContracts(ctx context.Context, p *OptionContractsParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointOptionContracts, p, opts...)
}

// TickerNews lists news articles about tickers.
func (c *Client) TickerNews(ctx context.Context, p *TickerNewsParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointTickerNews, p, opts...)
}

// StockDividends lists historical dividends of the symbol.
func (c *Client) StockDividends(ctx context.Context, symbol string, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointStockDividends, &SymbolParams{Symbol: symbol}, opts...)
}

// StockFinancials lists historical financials of a stock.
func (c *Client) StockFinancials(ctx context.Context, p *StockFinancialsParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointStockFinancials, p, opts...)
}

// StockFinancialsVX lists financials from the experimental XBRL endpoint.
func (c *Client) StockFinancialsVX(ctx context.Context, p *StockFinancialsVXParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointStockFinancialsVX, p, opts...)
}

// StockSplits lists historical splits of the symbol.
func (c *Client) StockSplits(ctx context.Context, symbol string, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointStockSplits, &SymbolParams{Symbol: symbol}, opts...)
}

// MarketHolidays lists upcoming market holidays.
func (c *Client) MarketHolidays(ctx context.Context, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointMarketHolidays, nil, opts...)
}

// MarketStatus returns the current trading status of the markets.
func (c *Client) MarketStatus(ctx context.Context, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointMarketStatus, nil, opts...)
}

// ConditionMappings maps condition codes for trades or quotes.
func (c *Client) ConditionMappings(ctx context.Context, p *ConditionMappingsParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointConditionMappings, p, opts...)
}

// Conditions lists trade and quote conditions.
func (c *Client) Conditions(ctx context.Context, p *ConditionsParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointConditions, p, opts...)
}

// Exchanges lists the known exchanges.
func (c *Client) Exchanges(ctx context.Context, p *ExchangesParams, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointExchanges, p, opts...)
}

// StockExchanges has been removed in favor of Exchanges.
func (c *Client) StockExchanges(ctx context.Context) (*Result, error) {
	return c.Do(ctx, EndpointStockExchanges, nil)
}

// CryptoExchanges has been removed in favor of Exchanges.
func (c *Client) CryptoExchanges(ctx context.Context) (*Result, error) {
	return c.Do(ctx, EndpointCryptoExchanges, nil)
}

// Locales lists the supported locales.
func (c *Client) Locales(ctx context.Context, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointLocales, nil, opts...)
}

// Markets lists the supported market types.
func (c *Client) Markets(ctx context.Context, opts ...CallOption) (*Result, error) {
	return c.Do(ctx, EndpointMarkets, nil, opts...)
}
