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
	"net/url"
	"sync"

	"github.com/stockparfait/polygon/message"
)

// Future is the pending value of an asynchronous call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed when the value is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the value is available or ctx is done. Cancelling ctx
// abandons the wait but not the call, which is cancelled only through the
// context it was started with.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AsyncClient issues the same requests as Client without blocking the caller.
// Each call runs in its own goroutine and returns a Future.
type AsyncClient struct {
	client *Client
	wg     sync.WaitGroup
}

// NewAsync creates an asynchronous client with the same options as New.
func NewAsync(apiKey string, opts ...Option) (*AsyncClient, error) {
	c, err := New(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{client: c}, nil
}

// Client returns the underlying blocking client.
func (a *AsyncClient) Client() *Client {
	return a.client
}

// Close waits for the calls in flight and releases the pooled connections.
func (a *AsyncClient) Close() error {
	a.wg.Wait()
	return a.client.Close()
}

func async[T any](a *AsyncClient, f func() (T, error)) *Future[T] {
	fut := newFuture[T]()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fut.resolve(f())
	}()
	return fut
}

// Do is the asynchronous Client.Do.
func (a *AsyncClient) Do(ctx context.Context, e *Endpoint, params message.Message, opts ...CallOption) *Future[*Result] {
	return async(a, func() (*Result, error) {
		return a.client.Do(ctx, e, params, opts...)
	})
}

// Get is the asynchronous Client.Get.
func (a *AsyncClient) Get(ctx context.Context, path string, query url.Values, opts ...CallOption) *Future[*Result] {
	return async(a, func() (*Result, error) {
		return a.client.Get(ctx, path, query, opts...)
	})
}

// NextPage is the asynchronous Client.NextPage.
func (a *AsyncClient) NextPage(ctx context.Context, prev *Result, opts ...CallOption) *Future[Page] {
	return async(a, func() (Page, error) {
		return a.client.nextPage(ctx, prev, opts)
	})
}

// Tickers lists ticker symbols across stocks, crypto and forex.
func (a *AsyncClient) Tickers(ctx context.Context, p *TickersParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointTickers, p, opts...)
}

// TickerTypes lists the ticker types.
func (a *AsyncClient) TickerTypes(ctx context.Context, p *TickerTypesParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointTickerTypes, p, opts...)
}

// TickerTypesV2 fails with a *RemovedError; use TickerTypes.
func (a *AsyncClient) TickerTypesV2(ctx context.Context) *Future[*Result] {
	return a.Do(ctx, EndpointTickerTypesV2, nil)
}

// TickerDetails fetches the company overview for the symbol.
func (a *AsyncClient) TickerDetails(ctx context.Context, symbol string, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointTickerDetails, &SymbolParams{Symbol: symbol}, opts...)
}

// TickerDetailsVX fetches the experimental ticker details.
func (a *AsyncClient) TickerDetailsVX(ctx context.Context, p *TickerDetailsVXParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointTickerDetailsVX, p, opts...)
}

// OptionContracts lists options contracts.
func (a *AsyncClient) OptionContracts(ctx context.Context, p *OptionContractsParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointOptionContracts, p, opts...)
}

// TickerNews lists news articles about tickers.
func (a *AsyncClient) TickerNews(ctx context.Context, p *TickerNewsParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointTickerNews, p, opts...)
}

// StockDividends lists historical dividends of the symbol.
func (a *AsyncClient) StockDividends(ctx context.Context, symbol string, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointStockDividends, &SymbolParams{Symbol: symbol}, opts...)
}

// StockFinancials lists historical financials of a stock.
func (a *AsyncClient) StockFinancials(ctx context.Context, p *StockFinancialsParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointStockFinancials, p, opts...)
}

// StockFinancialsVX lists financials from the experimental XBRL endpoint.
func (a *AsyncClient) StockFinancialsVX(ctx context.Context, p *StockFinancialsVXParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointStockFinancialsVX, p, opts...)
}

// StockSplits lists historical splits of the symbol.
func (a *AsyncClient) StockSplits(ctx context.Context, symbol string, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointStockSplits, &SymbolParams{Symbol: symbol}, opts...)
}

// MarketHolidays lists upcoming market holidays.
func (a *AsyncClient) MarketHolidays(ctx context.Context, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointMarketHolidays, nil, opts...)
}

// MarketStatus fetches the current trading status of the markets.
func (a *AsyncClient) MarketStatus(ctx context.Context, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointMarketStatus, nil, opts...)
}

// ConditionMappings maps condition codes for trades or quotes.
func (a *AsyncClient) ConditionMappings(ctx context.Context, p *ConditionMappingsParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointConditionMappings, p, opts...)
}

// Conditions lists trade and quote conditions.
func (a *AsyncClient) Conditions(ctx context.Context, p *ConditionsParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointConditions, p, opts...)
}

// Exchanges lists the known exchanges.
func (a *AsyncClient) Exchanges(ctx context.Context, p *ExchangesParams, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointExchanges, p, opts...)
}

// StockExchanges fails with a *RemovedError; use Exchanges.
func (a *AsyncClient) StockExchanges(ctx context.Context) *Future[*Result] {
	return a.Do(ctx, EndpointStockExchanges, nil)
}

// CryptoExchanges fails with a *RemovedError; use Exchanges.
func (a *AsyncClient) CryptoExchanges(ctx context.Context) *Future[*Result] {
	return a.Do(ctx, EndpointCryptoExchanges, nil)
}

// Locales lists the supported locales.
func (a *AsyncClient) Locales(ctx context.Context, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointLocales, nil, opts...)
}

// Markets lists the supported market types.
func (a *AsyncClient) Markets(ctx context.Context, opts ...CallOption) *Future[*Result] {
	return a.Do(ctx, EndpointMarkets, nil, opts...)
}
