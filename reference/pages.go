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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/polygon/message"
)

// Page is the outcome of following a continuation URL. OK is false when the
// previous response had no next_url; Result is nil in that case.
type Page struct {
	Result *Result
	OK     bool
}

// nextPage fetches the page following prev. A raw prev is decoded in place to
// find its continuation URL. The new page has the same shape as prev unless
// opts say otherwise.
func (c *Client) nextPage(ctx context.Context, prev *Result, opts []CallOption) (Page, error) {
	if prev == nil {
		return Page{}, errors.Reason("previous result is nil")
	}
	rawByDefault := prev.Raw()
	body, err := prev.Decode()
	if err != nil {
		return Page{}, err
	}
	next, ok := body.NextURL()
	if !ok {
		return Page{}, nil
	}
	logging.Debugf(ctx, "polygon: GET next page %s", next)
	res, err := c.get(ctx, next, nil, raw(rawByDefault, opts))
	if err != nil {
		return Page{}, err
	}
	return Page{Result: res, OK: true}, nil
}

// NextPage fetches the page following prev using its next_url verbatim, with
// the same authorization. When prev has no next_url, it returns false and no
// request is issued.
func (c *Client) NextPage(ctx context.Context, prev *Result, opts ...CallOption) (*Result, bool, error) {
	p, err := c.nextPage(ctx, prev, opts)
	return p.Result, p.OK, err
}

// PageIterator iterates over the pages of a paginated endpoint, starting from
// the first call and following next_url until the server stops sending one.
type PageIterator struct {
	context   context.Context
	client    *Client
	endpoint  *Endpoint
	params    message.Message
	opts      []CallOption
	page      *Result
	pageCount int  // which page number we're on, for logging
	started   bool // if at least one Next call was ever made
	done      bool
}

// Pages creates a page iterator. No request is issued until the first Next.
func (c *Client) Pages(ctx context.Context, e *Endpoint, params message.Message, opts ...CallOption) *PageIterator {
	return &PageIterator{
		context:  ctx,
		client:   c,
		endpoint: e,
		params:   params,
		opts:     opts,
	}
}

// Next fetches the next page. If there are no more pages, the second value is
// false. An error ends the iteration.
func (it *PageIterator) Next() (*Result, bool, error) {
	if it.done {
		return nil, false, nil
	}
	var res *Result
	var err error
	if !it.started {
		it.started = true
		res, err = it.client.Do(it.context, it.endpoint, it.params, it.opts...)
	} else {
		var ok bool
		res, ok, err = it.client.NextPage(it.context, it.page, it.opts...)
		if err == nil && !ok {
			it.done = true
			return nil, false, nil
		}
	}
	if err != nil {
		it.done = true
		return nil, false, errors.Annotate(err, "failed to fetch page %d of %s",
			it.pageCount+1, it.endpoint.Name)
	}
	it.page = res
	it.pageCount++
	logging.Infof(it.context, "polygon %s: fetched page %d", it.endpoint.Name, it.pageCount)
	return res, true, nil
}

// All collects the "results" lists of all the remaining pages.
func (it *PageIterator) All() ([]map[string]any, error) {
	var all []map[string]any
	for {
		res, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		body, err := res.Decode()
		if err != nil {
			return nil, errors.Annotate(err, "failed to decode page %d", it.pageCount)
		}
		all = append(all, body.Results()...)
	}
}
