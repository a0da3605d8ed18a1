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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/polygon/message"
	"github.com/stockparfait/polygon/reference"
	"github.com/stockparfait/polygon/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	ConfigDir string // default: ~/.polygon
	LogLevel  logging.Level
	// Exactly one of endpoint or list must be present.
	Endpoint string
	List     bool   // list the available endpoints
	Params   string // endpoint params as a JSON object
	Symbols  string // comma separated symbols to query concurrently
	All      bool   // follow next_url through all the pages
	Raw      bool   // print the response body as is
	Columns  string // comma separated columns; default: all, sorted
	CSV      bool   // dump CSV format; default: text.
	JSON     bool   // dump the records as JSON
	Workers  int
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("polygon-ref", flag.ExitOnError)
	fs.StringVar(&flags.ConfigDir, "cache",
		filepath.Join(os.Getenv("HOME"), ".polygon"),
		"configuration path")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Endpoint, "endpoint", "", "endpoint name, see -list")
	fs.BoolVar(&flags.List, "list", false, "list the available endpoints")
	fs.StringVar(&flags.Params, "params", "", "endpoint parameters as a JSON object")
	fs.StringVar(&flags.Symbols, "symbols", "",
		"comma separated symbols for endpoints addressed by symbol")
	fs.BoolVar(&flags.All, "all", false, "fetch all the pages")
	fs.BoolVar(&flags.Raw, "raw", false, "print the raw response body")
	fs.StringVar(&flags.Columns, "columns", "", "comma separated columns to print")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.BoolVar(&flags.JSON, "json", false, "print records as JSON; default: text")
	fs.IntVar(&flags.Workers, "workers", 0, "concurrent requests for -symbols; default: 2*CPUs")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if (flags.Endpoint == "") == !flags.List {
		return nil, errors.Reason("expected exactly one of -endpoint or -list")
	}
	if flags.CSV && flags.JSON {
		return nil, errors.Reason("-csv and -json are mutually exclusive")
	}
	if flags.Raw && (flags.All || flags.Symbols != "") {
		return nil, errors.Reason("-raw cannot be combined with -all or -symbols")
	}
	if flags.All && flags.Symbols != "" {
		return nil, errors.Reason("-all cannot be combined with -symbols")
	}
	return &flags, nil
}

type Config struct {
	Key     string `toml:"key"`      // Polygon.io API key
	BaseURL string `toml:"base_url"` // optional server URL
}

func parseConfig(dir string) (*Config, error) {
	filePath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretPolygonKey"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.Key == "" {
		return nil, errors.Reason("missing key in config file %s", filePath)
	}
	return &c, nil
}

func endpointsTable() *table.Table {
	var records []map[string]any
	for _, name := range reference.EndpointNames() {
		e := reference.Catalog[name]
		records = append(records, map[string]any{
			"name":        e.Name,
			"path":        e.Path,
			"replacement": e.Replacement,
		})
	}
	return table.FromRecords(records, "name", "path", "replacement")
}

// newParams creates the endpoint params from the JSON object, with an
// optional symbol override. Endpoints without params yield nil.
func newParams(e *reference.Endpoint, paramsJSON, symbol string) (message.Message, error) {
	if e.NewParams == nil {
		if paramsJSON != "" || symbol != "" {
			return nil, errors.Reason("endpoint %s takes no parameters", e.Name)
		}
		return nil, nil
	}
	if paramsJSON == "" && symbol == "" {
		return nil, nil
	}
	js := map[string]any{}
	if paramsJSON != "" {
		if err := json.Unmarshal([]byte(paramsJSON), &js); err != nil {
			return nil, errors.Annotate(err, "failed to parse -params")
		}
	}
	if symbol != "" {
		js["symbol"] = symbol
	}
	p := e.NewParams()
	if err := p.InitMessage(js); err != nil {
		return nil, errors.Annotate(err, "invalid parameters for %s", e.Name)
	}
	return p, nil
}

// records extracts the result records of a decoded response: a top-level
// list, the "results" list or object, or else the whole body. Values that are
// not objects become records with a single "value" column.
func records(v any) []map[string]any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return objects(x)
	case map[string]any:
		switch r := x["results"].(type) {
		case []any:
			return objects(r)
		case map[string]any:
			return []map[string]any{r}
		}
		return []map[string]any{x}
	}
	return []map[string]any{{"value": v}}
}

func objects(list []any) []map[string]any {
	res := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			res = append(res, m)
		} else {
			res = append(res, map[string]any{"value": el})
		}
	}
	return res
}

func fetchRecords(ctx context.Context, c *reference.Client, e *reference.Endpoint, flags *Flags) ([]map[string]any, error) {
	if flags.Symbols != "" {
		var calls []reference.Call
		for _, s := range strings.Split(flags.Symbols, ",") {
			p, err := newParams(e, flags.Params, strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			calls = append(calls, reference.Call{Endpoint: e, Params: p})
		}
		var all []map[string]any
		for _, o := range c.Batch(ctx, flags.Workers, calls...) {
			if o.Err != nil {
				return nil, errors.Annotate(o.Err, "failed to query %s", e.Name)
			}
			all = append(all, records(o.Result.Value)...)
		}
		return all, nil
	}
	p, err := newParams(e, flags.Params, "")
	if err != nil {
		return nil, err
	}
	if flags.All {
		all, err := c.Pages(ctx, e, p).All()
		if err != nil {
			return nil, errors.Annotate(err, "failed to query all pages of %s", e.Name)
		}
		return all, nil
	}
	res, err := c.Do(ctx, e, p)
	if err != nil {
		return nil, errors.Annotate(err, "failed to query %s", e.Name)
	}
	return records(res.Value), nil
}

func printRaw(ctx context.Context, c *reference.Client, e *reference.Endpoint, flags *Flags, w io.Writer) error {
	p, err := newParams(e, flags.Params, "")
	if err != nil {
		return err
	}
	res, err := c.Do(ctx, e, p, reference.Raw())
	if err != nil {
		return errors.Annotate(err, "failed to query %s", e.Name)
	}
	defer res.Response.Body.Close()
	if _, err := io.Copy(w, res.Response.Body); err != nil {
		return errors.Annotate(err, "failed to copy response body")
	}
	return nil
}

func printTable(tbl *table.Table, flags *Flags, w io.Writer) error {
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	if flags.List {
		return printTable(endpointsTable(), flags, w)
	}
	e, ok := reference.Catalog[flags.Endpoint]
	if !ok {
		return errors.Reason("unknown endpoint %s; use one of: %s",
			flags.Endpoint, strings.Join(reference.EndpointNames(), ", "))
	}
	config, err := parseConfig(flags.ConfigDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	var opts []reference.Option
	if config.BaseURL != "" {
		opts = append(opts, reference.WithBaseURL(config.BaseURL))
	}
	return reference.Using(config.Key, func(c *reference.Client) error {
		if flags.Raw {
			return printRaw(ctx, c, e, flags, w)
		}
		recs, err := fetchRecords(ctx, c, e, flags)
		if err != nil {
			return err
		}
		if flags.JSON {
			js, err := json.MarshalIndent(recs, "", "  ")
			if err != nil {
				return errors.Annotate(err, "failed to encode JSON")
			}
			_, err = fmt.Fprintln(w, string(js))
			return err
		}
		var columns []string
		if flags.Columns != "" {
			columns = strings.Split(flags.Columns, ",")
		}
		return printTable(table.FromRecords(recs, columns...), flags, w)
	}, opts...)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
