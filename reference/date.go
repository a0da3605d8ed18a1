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
	"encoding/json"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/polygon/message"
)

// DateFormat is the layout of dates in query parameters.
const DateFormat = "2006-01-02"

// Date is the value of a date-bearing query parameter. It is either a point in
// time, sent as YYYY-MM-DD, or a literal string sent verbatim. The zero value
// is unset and is omitted from the query.
type Date struct {
	t time.Time
	s string
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}
var _ message.Message = &Date{}

// DateOf creates a Date from a time value. Only the calendar date in the
// value's own location is kept.
func DateOf(t time.Time) Date {
	return Date{t: t}
}

// NewDate creates a Date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateString creates a Date from a string, normally YYYY-MM-DD. The string is
// not validated.
func DateString(s string) Date {
	return Date{s: s}
}

// IsZero checks whether the date is unset.
func (d Date) IsZero() bool {
	return d.s == "" && d.t.IsZero()
}

// String is the query parameter representation of the date.
func (d Date) String() string {
	if d.s != "" {
		return d.s
	}
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateFormat)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	*d = DateString(s)
	return nil
}

// InitMessage implements message.Message. It accepts a string, or an empty
// object for the unset date.
func (d *Date) InitMessage(js any) error {
	switch v := js.(type) {
	case string:
		*d = DateString(v)
	case map[string]any:
		if len(v) != 0 {
			return errors.Reason("expected a date string or {}, got %v", js)
		}
		*d = Date{}
	default:
		return errors.Reason("expected a date string or {}, got %v", js)
	}
	return nil
}
