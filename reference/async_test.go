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
	"testing"

	"github.com/stockparfait/errors"

	. "github.com/smartystreets/goconvey/convey"
)

// blockingTransport holds every request until release is closed.
type blockingTransport struct {
	testTransport
	release chan struct{}
}

func (t *blockingTransport) Get(ctx context.Context, uri string, query url.Values, header http.Header) (*http.Response, error) {
	<-t.release
	return t.testTransport.Get(ctx, uri, query, header)
}

func TestAsync(t *testing.T) {
	t.Parallel()

	Convey("AsyncClient", t, func() {
		ctx := context.Background()

		Convey("requires a key", func() {
			_, err := NewAsync("")
			So(err, ShouldNotBeNil)
		})

		Convey("issues the same requests as Client", func() {
			syncTr := &testTransport{}
			asyncTr := &testTransport{}
			c, err := New("key", WithBaseURL("https://test"), WithTransport(syncTr))
			So(err, ShouldBeNil)
			a, err := NewAsync("key", WithBaseURL("https://test"), WithTransport(asyncTr))
			So(err, ShouldBeNil)

			p := &TickersParams{Ticker: "AAPL", Active: Bool(false), Date: NewDate(2021, 5, 6)}
			res, err := c.Tickers(ctx, p)
			So(err, ShouldBeNil)
			ares, err := a.Tickers(ctx, p).Await(ctx)
			So(err, ShouldBeNil)
			So(ares.Body, ShouldResemble, res.Body)

			_, err = c.StockFinancials(ctx, &StockFinancialsParams{Symbol: "ibm", Type: "Q"})
			So(err, ShouldBeNil)
			_, err = a.StockFinancials(ctx, &StockFinancialsParams{Symbol: "ibm", Type: "Q"}).Await(ctx)
			So(err, ShouldBeNil)

			_, err = c.MarketStatus(ctx)
			So(err, ShouldBeNil)
			_, err = a.MarketStatus(ctx).Await(ctx)
			So(err, ShouldBeNil)

			So(a.Close(), ShouldBeNil)
			So(len(asyncTr.requests), ShouldEqual, len(syncTr.requests))
			for i := range syncTr.requests {
				So(asyncTr.requests[i].URI, ShouldEqual, syncTr.requests[i].URI)
				So(asyncTr.requests[i].Query.Encode(), ShouldEqual, syncTr.requests[i].Query.Encode())
				So(asyncTr.requests[i].Header, ShouldResemble, syncTr.requests[i].Header)
			}
		})

		Convey("next page", func() {
			tr := &testTransport{bodies: map[string]string{
				"https://test/v3/reference/exchanges": `{"next_url": "https://test/more?cursor=x"}`,
				"https://test/more?cursor=x":          `{"results": [{"id": 3}]}`,
			}}
			a, err := NewAsync("key", WithBaseURL("https://test"), WithTransport(tr))
			So(err, ShouldBeNil)
			defer a.Close()

			res, err := a.Exchanges(ctx, nil).Await(ctx)
			So(err, ShouldBeNil)
			page, err := a.NextPage(ctx, res).Await(ctx)
			So(err, ShouldBeNil)
			So(page.OK, ShouldBeTrue)
			So(page.Result.Body.Results(), ShouldResemble, []map[string]any{{"id": 3.0}})

			page, err = a.NextPage(ctx, page.Result).Await(ctx)
			So(err, ShouldBeNil)
			So(page.OK, ShouldBeFalse)
			So(page.Result, ShouldBeNil)
			So(tr.count(), ShouldEqual, 2)
		})

		Convey("removed endpoints fail the future", func() {
			a, err := NewAsync("key", WithTransport(&testTransport{}))
			So(err, ShouldBeNil)
			defer a.Close()

			_, err = a.TickerTypesV2(ctx).Await(ctx)
			So(errors.Is(err, ErrRemoved), ShouldBeTrue)
		})

		Convey("Await respects its context, Close waits for calls in flight", func() {
			tr := &blockingTransport{release: make(chan struct{})}
			a, err := NewAsync("key", WithBaseURL("https://test"), WithTransport(tr))
			So(err, ShouldBeNil)

			f := a.Locales(ctx)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err = f.Await(cctx)
			So(err, ShouldEqual, context.Canceled)

			select {
			case <-f.Done():
				So("resolved too early", ShouldBeEmpty)
			default:
			}

			closed := make(chan struct{})
			go func() {
				a.Close()
				close(closed)
			}()
			close(tr.release)
			<-closed
			<-f.Done()
			res, err := f.Await(ctx)
			So(err, ShouldBeNil)
			So(res.Body, ShouldResemble, Envelope{})
		})
	})
}
