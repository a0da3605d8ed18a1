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

// Package table renders lists of decoded JSON records as text or CSV.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Row is a single table row in a CSV compatible form.
type Row interface {
	CSV() []string
}

// Record is one decoded JSON object, e.g. an element of an API "results"
// list, projected onto the table columns.
type Record struct {
	Columns []string
	Values  map[string]any
}

var _ Row = Record{}

// CSV implements Row. Missing values are empty cells.
func (r Record) CSV() []string {
	res := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		res[i] = Cell(r.Values[c])
	}
	return res
}

// Cell formats a decoded JSON value for a table cell. Numbers with no
// fractional part are printed as integers, and nested objects and lists as
// compact JSON.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any, []any:
		js, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(js)
	}
	return fmt.Sprintf("%v", v)
}

// Columns is the sorted union of the keys of all the records.
func Columns(records []map[string]any) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	cols := maps.Keys(set)
	slices.Sort(cols)
	return cols
}

// Table container.
//
// A typical use:
//   res, err := client.Tickers(ctx, nil)
//   ...
//   t := FromRecords(res.Body.Results(), "ticker", "name")
//   t.WriteText(os.Stdout, Params{})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table with optional column headers. When present,
// the number of headers must be the same as the number of cells in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// FromRecords creates a table of the records with the given columns, or with
// all the columns present in the records, sorted by name.
func FromRecords(records []map[string]any, columns ...string) *Table {
	if len(columns) == 0 {
		columns = Columns(records)
	}
	t := NewTable(columns...)
	for _, r := range records {
		t.AddRow(Record{Columns: columns, Values: r})
	}
	return t
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// rows returns the cells of the header (unless disabled) and of the rows to
// be written.
func (t *Table) rows(p Params) (header []string, rows [][]string) {
	if !p.NoHeader && len(t.Header) > 0 {
		header = t.Header
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		rows = append(rows, r.CSV())
	}
	return
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	header, rows := t.rows(p)
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Annotate(err, "failed to write rows")
	}
	return nil
}

// widths computes the column widths in runes, capped at maxWidth when it is
// positive. All the rows must have the same non-zero size.
func widths(maxWidth int, rows ...[]string) ([]int, error) {
	var res []int
	for _, row := range rows {
		if len(row) == 0 {
			return nil, errors.Reason("row size = 0")
		}
		if res == nil {
			res = make([]int, len(row))
		}
		if len(row) != len(res) {
			return nil, errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(res))
		}
		for i, s := range row {
			n := len([]rune(s))
			if maxWidth > 0 && n > maxWidth {
				n = maxWidth
			}
			if res[i] < n {
				res[i] = n
			}
		}
	}
	return res, nil
}

// writeText writes the cells right-aligned and trimmed to the column widths.
func writeText(w io.Writer, widths []int, row []string) error {
	cells := make([]string, len(row))
	for i, s := range row {
		if r := []rune(s); len(r) > widths[i] {
			s = string(r[:widths[i]-2]) + ".."
		}
		cells[i] = strings.Repeat(" ", widths[i]-len([]rune(s))) + s
	}
	_, err := fmt.Fprintln(w, strings.Join(cells, " | "))
	return err
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	header, rows := t.rows(p)
	all := rows
	if header != nil {
		all = append([][]string{header}, rows...)
	}
	if len(all) == 0 {
		return nil
	}
	ws, err := widths(p.MaxColWidth, all...)
	if err != nil {
		return errors.Annotate(err, "failed to compute column widths")
	}
	if header != nil {
		if err := writeText(w, ws, header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		dashes := make([]string, len(ws))
		for i, n := range ws {
			dashes[i] = strings.Repeat("-", n)
		}
		if err := writeText(w, ws, dashes); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for _, row := range rows {
		if err := writeText(w, ws, row); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
