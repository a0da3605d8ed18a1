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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
)

// Transport issues a single GET request. A nil or empty query leaves the query
// of uri intact. The response is returned unread; its body is the caller's to
// close.
type Transport interface {
	Get(ctx context.Context, uri string, query url.Values, header http.Header) (*http.Response, error)
}

// HTTPTransport sends exactly one request per call and returns every response
// regardless of its status code. Without a Client, it uses the one set in the
// context by fetch.UseClient, or else http.DefaultClient.
type HTTPTransport struct {
	Client *http.Client
}

var _ Transport = &HTTPTransport{}

// Get implements Transport. A non-empty query replaces the query of uri;
// otherwise uri is requested verbatim.
func (t *HTTPTransport) Get(ctx context.Context, uri string, query url.Values, header http.Header) (*http.Response, error) {
	if len(query) > 0 {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, errors.Annotate(err, "invalid URL: %s", uri)
		}
		u.RawQuery = query.Encode()
		uri = u.String()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Annotate(err, "failed to create request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	client := t.Client
	if client == nil {
		client = fetch.GetClient(ctx)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}
