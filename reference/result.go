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
	"io"
	"net/http"
)

// NextURLKey is the response field holding the continuation URL.
const NextURLKey = "next_url"

// Envelope is a decoded JSON response body. Its structure is not validated.
type Envelope map[string]any

// NextURL returns the continuation URL, if the response has one.
func (e Envelope) NextURL() (string, bool) {
	v, ok := e[NextURLKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Results returns the "results" list of the response, when it is a list of
// objects. Other shapes yield nil.
func (e Envelope) Results() []map[string]any {
	list, ok := e["results"].([]any)
	if !ok {
		return nil
	}
	var res []map[string]any
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			res = append(res, m)
		}
	}
	return res
}

// Result of a call. In raw mode, Response is set and its body is open. In
// decoded mode, Value holds the JSON body of any shape and the response has
// already been consumed; Body is the same value when it is a JSON object, and
// nil otherwise.
type Result struct {
	Response *http.Response
	Value    any
	Body     Envelope
	decoded  bool
}

func decodedResult(v any) *Result {
	r := &Result{}
	r.setValue(v)
	return r
}

func (r *Result) setValue(v any) {
	r.Value = v
	r.decoded = true
	if m, ok := v.(map[string]any); ok {
		r.Body = Envelope(m)
	}
}

// Raw checks whether the result still holds an unread response.
func (r *Result) Raw() bool {
	return !r.decoded && r.Response != nil
}

// Decode returns the decoded body as an Envelope, which is nil when the JSON
// is not an object; Value has the body in that case. A raw result is read,
// closed and decoded once. Malformed JSON is an error.
func (r *Result) Decode() (Envelope, error) {
	if r.decoded || r.Response == nil {
		return r.Body, nil
	}
	v, err := decodeBody(r.Response.Body)
	if err != nil {
		return nil, err
	}
	r.setValue(v)
	return r.Body, nil
}

func decodeBody(rc io.ReadCloser) (any, error) {
	defer rc.Close()
	var v any
	if err := json.NewDecoder(rc).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
