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

// Package reference is a client for the Polygon.io reference data REST API:
// tickers, ticker details, news, dividends, splits, financials, options
// contracts, exchanges, conditions and market status.
//
// Every call is a single GET. The endpoint descriptor and the params struct
// determine the path and the query; unset parameters are omitted. The result
// is either the decoded JSON body or the unread response:
//
//   c, err := reference.New(apiKey)
//   if err != nil { ... }
//   defer c.Close()
//   res, err := c.Tickers(ctx, &reference.TickersParams{Type: "CS", Market: "stocks"})
//   for {
//     // use res.Body
//     var ok bool
//     if res, ok, err = c.NextPage(ctx, res); err != nil || !ok {
//       break
//     }
//   }
//
// AsyncClient offers the same calls returning a Future instead of blocking.
package reference
