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
	"github.com/stockparfait/polygon/message"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Bool returns a pointer to b, for the optional boolean parameters.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n, for the optional integer parameters where zero is
// a valid value.
func Int(n int) *int {
	return &n
}

// TickersParams for the tickers endpoint. Type is the ticker type, e.g. "CS"
// for common stock; Market is one of stocks, crypto, fx.
type TickersParams struct {
	Ticker    string `json:"ticker"`
	TickerLt  string `json:"ticker.lt"`
	TickerLte string `json:"ticker.lte"`
	TickerGt  string `json:"ticker.gt"`
	TickerGte string `json:"ticker.gte"`
	Type      string `json:"type"`
	Market    string `json:"market"`
	Exchange  string `json:"exchange"` // ISO MIC of the primary exchange
	CUSIP     string `json:"cusip"`
	CIK       string `json:"cik"`
	Date      Date   `json:"date"` // tickers available on that date
	Search    string `json:"search"`
	Active    *bool  `json:"active" default:"true"`
	Sort      string `json:"sort" default:"ticker"`
	Order     string `json:"order" default:"asc" choices:",asc,desc"`
	Limit     int    `json:"limit" default:"100"`
}

func (p *TickersParams) InitMessage(js any) error { return message.Init(p, js) }

// TickerTypesParams for the ticker types endpoint.
type TickerTypesParams struct {
	AssetClass string `json:"asset_class"`
	Locale     string `json:"locale"`
}

func (p *TickerTypesParams) InitMessage(js any) error { return message.Init(p, js) }

// SymbolParams for endpoints addressed only by a ticker symbol. The symbol is
// upper-cased in the path.
type SymbolParams struct {
	Symbol string `json:"symbol" path:"symbol,upper" required:"true"`
}

func (p *SymbolParams) InitMessage(js any) error { return message.Init(p, js) }

// TickerDetailsVXParams for the experimental ticker details endpoint.
type TickerDetailsVXParams struct {
	Symbol string `json:"symbol" path:"symbol,upper" required:"true"`
	Date   Date   `json:"date"`
}

func (p *TickerDetailsVXParams) InitMessage(js any) error { return message.Init(p, js) }

// OptionContractsParams for the options contracts endpoint.
type OptionContractsParams struct {
	UnderlyingTicker  string `json:"underlying_ticker"`
	Ticker            string `json:"ticker"`
	ContractType      string `json:"contract_type" choices:",call,put"`
	ExpirationDate    Date   `json:"expiration_date"`
	ExpirationDateLt  Date   `json:"expiration_date.lt"`
	ExpirationDateLte Date   `json:"expiration_date.lte"`
	ExpirationDateGt  Date   `json:"expiration_date.gt"`
	ExpirationDateGte Date   `json:"expiration_date.gte"`
	Order             string `json:"order" default:"asc" choices:",asc,desc"`
	Sort              string `json:"sort"`
	Limit             int    `json:"limit" default:"100"`
}

func (p *OptionContractsParams) InitMessage(js any) error { return message.Init(p, js) }

// TickerNewsParams for the news endpoint.
type TickerNewsParams struct {
	Ticker          string `json:"ticker"`
	TickerLt        string `json:"ticker.lt"`
	TickerLte       string `json:"ticker.lte"`
	TickerGt        string `json:"ticker.gt"`
	TickerGte       string `json:"ticker.gte"`
	PublishedUTC    Date   `json:"published_utc"`
	PublishedUTCLt  Date   `json:"published_utc.lt"`
	PublishedUTCLte Date   `json:"published_utc.lte"`
	PublishedUTCGt  Date   `json:"published_utc.gt"`
	PublishedUTCGte Date   `json:"published_utc.gte"`
	Order           string `json:"order" default:"desc" choices:",asc,desc"`
	Sort            string `json:"sort" default:"published_utc"`
	Limit           int    `json:"limit" default:"100"`
}

func (p *TickerNewsParams) InitMessage(js any) error { return message.Init(p, js) }

// StockFinancialsParams for the v2 financials endpoint.
type StockFinancialsParams struct {
	Symbol string `json:"symbol" path:"symbol,upper" required:"true"`
	Type   string `json:"type"` // report type, e.g. Y, YA, Q, QA, T, TA
	Sort   string `json:"sort"`
	Limit  int    `json:"limit" default:"100"`
}

func (p *StockFinancialsParams) InitMessage(js any) error { return message.Init(p, js) }

// StockFinancialsVXParams for the experimental financials endpoint, which
// extracts the data from XBRL filings.
type StockFinancialsVXParams struct {
	Ticker                string `json:"ticker"`
	CIK                   string `json:"cik"`
	CompanyName           string `json:"company_name"`
	CompanyNameSearch     string `json:"company_name.search"`
	SIC                   string `json:"sic"`
	FilingDate            Date   `json:"filing_date"`
	FilingDateLt          Date   `json:"filing_date.lt"`
	FilingDateLte         Date   `json:"filing_date.lte"`
	FilingDateGt          Date   `json:"filing_date.gt"`
	FilingDateGte         Date   `json:"filing_date.gte"`
	PeriodOfReportDate    Date   `json:"period_of_report_date"`
	PeriodOfReportDateLt  Date   `json:"period_of_report_date.lt"`
	PeriodOfReportDateLte Date   `json:"period_of_report_date.lte"`
	PeriodOfReportDateGt  Date   `json:"period_of_report_date.gt"`
	PeriodOfReportDateGte Date   `json:"period_of_report_date.gte"`
	Timeframe             string `json:"timeframe" choices:",annual,quarterly"`
	IncludeSources        *bool  `json:"include_sources" default:"false"`
	Order                 string `json:"order" default:"asc" choices:",asc,desc"`
	Sort                  string `json:"sort" default:"filing_date"`
	Limit                 int    `json:"limit" default:"50"`
}

func (p *StockFinancialsVXParams) InitMessage(js any) error { return message.Init(p, js) }

// ConditionMappingsParams selects the tick type, trades or quotes. It is
// lower-cased in the path.
type ConditionMappingsParams struct {
	TickType string `json:"tick_type" path:"tick_type,lower" default:"trades"`
}

func (p *ConditionMappingsParams) InitMessage(js any) error { return message.Init(p, js) }

// ConditionsParams for the conditions catalog.
type ConditionsParams struct {
	AssetClass string `json:"asset_class"`
	DataType   string `json:"data_type"`
	ID         *int   `json:"id"`
	SIP        string `json:"sip"`
	Order      string `json:"order" choices:",asc,desc"`
	Sort       string `json:"sort" default:"name"`
	Limit      int    `json:"limit" default:"50"`
}

func (p *ConditionsParams) InitMessage(js any) error { return message.Init(p, js) }

// ExchangesParams for the exchanges catalog.
type ExchangesParams struct {
	AssetClass string `json:"asset_class"`
	Locale     string `json:"locale"`
}

func (p *ExchangesParams) InitMessage(js any) error { return message.Init(p, js) }

// The endpoint catalog.
var (
	EndpointTickers = &Endpoint{
		Name:      "tickers",
		Path:      "/v3/reference/tickers",
		NewParams: func() message.Message { return &TickersParams{} },
	}
	EndpointTickerTypes = &Endpoint{
		Name:      "ticker-types",
		Path:      "/v3/reference/tickers/types",
		NewParams: func() message.Message { return &TickerTypesParams{} },
	}
	EndpointTickerDetails = &Endpoint{
		Name:      "ticker-details",
		Path:      "/v1/meta/symbols/{symbol}/company",
		NewParams: func() message.Message { return &SymbolParams{} },
	}
	EndpointTickerDetailsVX = &Endpoint{
		Name:      "ticker-details-vx",
		Path:      "/vX/reference/tickers/{symbol}",
		NewParams: func() message.Message { return &TickerDetailsVXParams{} },
	}
	EndpointOptionContracts = &Endpoint{
		Name:      "option-contracts",
		Path:      "/vX/reference/options/contracts",
		NewParams: func() message.Message { return &OptionContractsParams{} },
	}
	EndpointTickerNews = &Endpoint{
		Name:      "ticker-news",
		Path:      "/v2/reference/news",
		NewParams: func() message.Message { return &TickerNewsParams{} },
	}
	EndpointStockDividends = &Endpoint{
		Name:      "stock-dividends",
		Path:      "/v2/reference/dividends/{symbol}",
		NewParams: func() message.Message { return &SymbolParams{} },
	}
	EndpointStockFinancials = &Endpoint{
		Name:      "stock-financials",
		Path:      "/v2/reference/financials/{symbol}",
		NewParams: func() message.Message { return &StockFinancialsParams{} },
	}
	EndpointStockFinancialsVX = &Endpoint{
		Name:      "stock-financials-vx",
		Path:      "/vX/reference/financials",
		NewParams: func() message.Message { return &StockFinancialsVXParams{} },
	}
	EndpointStockSplits = &Endpoint{
		Name:      "stock-splits",
		Path:      "/v2/reference/splits/{symbol}",
		NewParams: func() message.Message { return &SymbolParams{} },
	}
	EndpointMarketHolidays = &Endpoint{
		Name: "market-holidays",
		Path: "/v1/marketstatus/upcoming",
	}
	EndpointMarketStatus = &Endpoint{
		Name: "market-status",
		Path: "/v1/marketstatus/now",
	}
	EndpointConditionMappings = &Endpoint{
		Name:      "condition-mappings",
		Path:      "/v1/meta/conditions/{tick_type}",
		NewParams: func() message.Message { return &ConditionMappingsParams{} },
	}
	EndpointConditions = &Endpoint{
		Name:      "conditions",
		Path:      "/vX/reference/conditions",
		NewParams: func() message.Message { return &ConditionsParams{} },
	}
	EndpointExchanges = &Endpoint{
		Name:      "exchanges",
		Path:      "/v3/reference/exchanges",
		NewParams: func() message.Message { return &ExchangesParams{} },
	}
	EndpointLocales = &Endpoint{
		Name: "locales",
		Path: "/v2/reference/locales",
	}
	EndpointMarkets = &Endpoint{
		Name: "markets",
		Path: "/v2/reference/markets",
	}

	// Removed endpoints, kept so that callers of the older API surface get an
	// explicit error naming the replacement.
	EndpointTickerTypesV2 = &Endpoint{
		Name:        "ticker-types-v2",
		Path:        "/v2/reference/types",
		Replacement: "ticker-types",
	}
	EndpointStockExchanges = &Endpoint{
		Name:        "stock-exchanges",
		Path:        "/v1/meta/exchanges",
		Replacement: "exchanges",
	}
	EndpointCryptoExchanges = &Endpoint{
		Name:        "crypto-exchanges",
		Path:        "/v1/meta/crypto-exchanges",
		Replacement: "exchanges",
	}
)

// Catalog indexes all the endpoints by name.
var Catalog = map[string]*Endpoint{}

func init() {
	for _, e := range []*Endpoint{
		EndpointTickers, EndpointTickerTypes, EndpointTickerDetails,
		EndpointTickerDetailsVX, EndpointOptionContracts, EndpointTickerNews,
		EndpointStockDividends, EndpointStockFinancials, EndpointStockFinancialsVX,
		EndpointStockSplits, EndpointMarketHolidays, EndpointMarketStatus,
		EndpointConditionMappings, EndpointConditions, EndpointExchanges,
		EndpointLocales, EndpointMarkets, EndpointTickerTypesV2,
		EndpointStockExchanges, EndpointCryptoExchanges,
	} {
		Catalog[e.Name] = e
	}
}

// EndpointNames lists the catalog names in sorted order.
func EndpointNames() []string {
	names := maps.Keys(Catalog)
	slices.Sort(names)
	return names
}
