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

package message

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func testJSON(js string) any {
	var res any
	if err := json.Unmarshal([]byte(js), &res); err != nil {
		return nil
	}
	return res
}

type Query struct {
	Ticker     string             `json:"ticker" required:"true"`
	TickerLt   string             `json:"ticker.lt"`
	Order      string             `json:"order" choices:"asc,desc" default:"asc"`
	Limit      int                `json:"limit" default:"100"`
	MinPrice   float64            `json:"min_price" default:"2.5"`
	Active     *bool              `json:"active" default:"true"`
	Adjusted   bool               `json:"adjusted,omitempty"`
	Dependents []*Query           `json:"dependents"`
	Labels     map[string]string  `json:"labels"`
	Ignored    int                `json:"-"`
	Extra      map[string]float64 // JSON key is Extra
	unexported int
}

func (q *Query) InitMessage(js any) error {
	return Init(q, js)
}

type BadChoice struct {
	Choice string `choices:"foo,bar"` // no default
}

func (b *BadChoice) InitMessage(js any) error {
	return Init(b, js)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	Convey("Init() works", t, func() {
		Convey("with required fields only", func() {
			var q Query
			So(q.InitMessage(testJSON(`{"ticker": "AAPL"}`)), ShouldBeNil)
			So(q.Ticker, ShouldEqual, "AAPL")
			So(q.Order, ShouldEqual, "asc")
			So(q.Limit, ShouldEqual, 100)
			So(q.MinPrice, ShouldEqual, 2.5)
			So(*q.Active, ShouldBeTrue)
			So(q.Adjusted, ShouldBeFalse)
			So(len(q.Dependents), ShouldEqual, 0)
		})

		Convey("with recursive Message entries", func() {
			var q Query
			So(q.InitMessage(testJSON(`{
        "ticker": "SPY", "ticker.lt": "T", "active": null, "adjusted": true,
        "limit": 5, "labels": {"a": "x", "b": "y"}, "Extra": {"w": 0.5},
        "dependents": [
          {"ticker": "QQQ", "order": "desc"},
          {"ticker": "IWM", "active": false}]
      }`)), ShouldBeNil)
			So(q.Ticker, ShouldEqual, "SPY")
			So(q.TickerLt, ShouldEqual, "T")
			So(q.Active, ShouldBeNil)
			So(q.Adjusted, ShouldBeTrue)
			So(q.Limit, ShouldEqual, 5)
			So(q.Labels, ShouldResemble, map[string]string{"a": "x", "b": "y"})
			So(q.Extra, ShouldResemble, map[string]float64{"w": 0.5})
			So(len(q.Dependents), ShouldEqual, 2)
			qqq := q.Dependents[0]
			iwm := q.Dependents[1]
			So(qqq.Ticker, ShouldEqual, "QQQ")
			So(qqq.Order, ShouldEqual, "desc")
			So(*qqq.Active, ShouldBeTrue)
			So(iwm.Order, ShouldEqual, "asc")
			So(*iwm.Active, ShouldBeFalse)
			So(q.unexported, ShouldEqual, 0)
		})

		Convey("with missing fields in recursive Init() call", func() {
			var q Query
			err := q.InitMessage(testJSON(`{"ticker": "A", "dependents": [{"limit": 1}]}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing required fields: ticker")
		})

		Convey("with ignored fields", func() {
			var q Query
			err := q.InitMessage(testJSON(`{"ticker": "A", "Ignored": 5}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported fields for Query: Ignored")
		})

		Convey("with unexported fields", func() {
			var q Query
			err := q.InitMessage(testJSON(`{"ticker": "A", "unexported": 5}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported fields for Query: unexported")
		})

		Convey("with incorrect order", func() {
			var q Query
			err := q.InitMessage(testJSON(`{"ticker": "A", "order": "random"}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring,
				"value for Order is not in its choice list: 'random'")
		})

		Convey("with non-integer limit", func() {
			var q Query
			So(q.InitMessage(testJSON(`{"ticker": "A", "limit": 1.5}`)), ShouldNotBeNil)
			So(q.InitMessage(testJSON(`{"ticker": "A", "limit": "5"}`)), ShouldNotBeNil)
		})

		Convey("with a non-object", func() {
			var q Query
			So(q.InitMessage(testJSON(`["ticker"]`)), ShouldNotBeNil)
		})

		Convey("with incorrect default choice", func() {
			var b BadChoice
			err := b.InitMessage(testJSON(`{}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring,
				"value for Choice is not in its choice list: ''")
		})
	})

	Convey("Defaults() fills only zero fields", t, func() {
		q := Query{Ticker: "A", Limit: 7, Active: new(bool)}
		So(Defaults(&q), ShouldBeNil)
		So(q.Limit, ShouldEqual, 7)
		So(*q.Active, ShouldBeFalse)
		So(q.Order, ShouldEqual, "asc")
		So(q.MinPrice, ShouldEqual, 2.5)

		var b BadChoice
		So(Defaults(&b), ShouldBeNil)
		So(Defaults(b), ShouldNotBeNil)
	})

	Convey("Walk() visits JSON fields in order", t, func() {
		q := Query{Ticker: "A"}
		var keys []string
		err := Walk(&q, func(key string, f reflect.StructField, v reflect.Value) error {
			keys = append(keys, key)
			if key == "limit" {
				v.SetInt(3)
			}
			return nil
		})
		So(err, ShouldBeNil)
		So(keys, ShouldResemble, []string{
			"ticker", "ticker.lt", "order", "limit", "min_price", "active",
			"adjusted", "dependents", "labels", "Extra"})
		So(q.Limit, ShouldEqual, 3)
	})

	Convey("FromString() and FromFile() work", t, func() {
		var q Query
		So(FromString(&q, `{"ticker": "X", "limit": 10}`), ShouldBeNil)
		So(q.Ticker, ShouldEqual, "X")
		So(q.Limit, ShouldEqual, 10)
		So(FromString(&q, `{"ticker": `), ShouldNotBeNil)

		tmpdir, err := os.MkdirTemp("", "test_message")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tmpdir)
		fileName := filepath.Join(tmpdir, "query.json")
		So(testutil.WriteFile(fileName, `{"ticker": "F", "order": "desc"}`), ShouldBeNil)
		So(FromFile(&q, fileName), ShouldBeNil)
		So(q.Ticker, ShouldEqual, "F")
		So(q.Order, ShouldEqual, "desc")
		So(FromFile(&q, filepath.Join(tmpdir, "missing.json")), ShouldNotBeNil)
	})

	Convey("StringIn works", t, func() {
		So(StringIn("asc", "asc", "desc"), ShouldBeTrue)
		So(StringIn("up", "asc", "desc"), ShouldBeFalse)
	})
}
