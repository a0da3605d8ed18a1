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

// Package message implements struct-tag driven parameter structures.
//
// A parameter structure is a struct whose exported fields are named by their
// `json` tags, exactly as the remote API or a config file names them:
//
//   type ListParams struct {
//     Ticker   string `json:"ticker"`
//     TickerLt string `json:"ticker.lt"`
//     Active   *bool  `json:"active" default:"true"`
//     Order    string `json:"order" default:"asc" choices:"asc,desc"`
//     Limit    int    `json:"limit" default:"100"`
//   }
//
//   func (p *ListParams) InitMessage(js any) error {
//     return message.Init(p, js)
//   }
//
// Init populates such a struct from a generic JSON value, enforcing
// `required` and `choices` and applying `default` values. Defaults applies
// only the `default` values to the fields still at their zero value, which is
// what a Go caller constructing the struct literally needs.
package message

import (
	"encoding/json"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stockparfait/errors"
)

// Message is a value that can be initialized from a generic JSON value as
// produced by encoding/json unmarshaling into an interface{}.
//
// It is intended to be implemented by struct pointers, typically by calling
// Init. Types that are not structs (e.g. a date) implement it directly.
type Message interface {
	InitMessage(js any) error
}

var rMessage = reflect.TypeOf((*Message)(nil)).Elem()

// field describes one exported, JSON-visible struct field.
type field struct {
	reflect.StructField
	Key string // JSON key
}

// fieldsOf lists the JSON-visible fields of the struct type t in declaration
// order. Unexported fields and fields tagged `json:"-"` are skipped; a missing
// json name defaults to the Go field name, and qualifiers like ",omitempty"
// are ignored.
func fieldsOf(t reflect.Type) []field {
	var res []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if r, _ := utf8.DecodeRuneInString(f.Name); !unicode.IsUpper(r) {
			continue
		}
		key := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			name := strings.Split(tag, ",")[0]
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}
		res = append(res, field{StructField: f, Key: key})
	}
	return res
}

// Walk calls fn for every JSON-visible field of the struct pointed to by m,
// in declaration order, with the field's JSON key and its settable value.
func Walk(m any, fn func(key string, f reflect.StructField, v reflect.Value) error) error {
	rv, err := structValue(m)
	if err != nil {
		return err
	}
	for _, f := range fieldsOf(rv.Type()) {
		if err := fn(f.Key, f.StructField, rv.FieldByIndex(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

func structValue(m any) (reflect.Value, error) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.Reason("expected a non-nil struct pointer, got %T", m)
	}
	return rv.Elem(), nil
}

func initMessage(jv any, t reflect.Type) (reflect.Value, error) {
	if t.Kind() != reflect.Ptr {
		return reflect.Value{}, errors.Reason(
			"type %s implements Message but is not a pointer", t)
	}
	ptr := reflect.New(t.Elem())
	if err := ptr.Interface().(Message).InitMessage(jv); err != nil {
		return reflect.Value{}, errors.Annotate(err, "%s.InitMessage() failed", t.Elem().Name())
	}
	return ptr, nil
}

// convert turns a generic JSON value into a value of type t. Messages are
// initialized through InitMessage; a nil JSON value yields the zero value,
// except for non-pointer Messages which get their defaults from an empty
// object.
func convert(jv any, t reflect.Type) (reflect.Value, error) {
	if t.Implements(rMessage) {
		if jv == nil {
			return reflect.Zero(t), nil
		}
		return initMessage(jv, t)
	}
	if pt := reflect.PtrTo(t); pt.Implements(rMessage) {
		if jv == nil {
			jv = map[string]any{}
		}
		ptr, err := initMessage(jv, pt)
		if err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Ptr:
		v, err := convert(jv, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		b, ok := jv.(bool)
		if !ok {
			return reflect.Value{}, errors.Reason("not a bool: %v", jv)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int64:
		n, ok := jv.(float64)
		if !ok {
			return reflect.Value{}, errors.Reason("not a number: %v", jv)
		}
		if n != float64(int64(n)) {
			return reflect.Value{}, errors.Reason("not an integer: %v", jv)
		}
		return reflect.ValueOf(int64(n)).Convert(t), nil
	case reflect.Float64:
		n, ok := jv.(float64)
		if !ok {
			return reflect.Value{}, errors.Reason("not a number: %v", jv)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.String:
		s, ok := jv.(string)
		if !ok {
			return reflect.Value{}, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Slice:
		list, ok := jv.([]any)
		if !ok {
			return reflect.Value{}, errors.Reason("not a list: %v", jv)
		}
		res := reflect.MakeSlice(t, len(list), len(list))
		for i, el := range list {
			v, err := convert(el, t.Elem())
			if err != nil {
				return reflect.Value{}, errors.Annotate(err, "element %d", i)
			}
			res.Index(i).Set(v)
		}
		return res, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, errors.Reason("map key must be a string, not %s", t.Key())
		}
		obj, ok := jv.(map[string]any)
		if !ok {
			return reflect.Value{}, errors.Reason("not an object: %v", jv)
		}
		res := reflect.MakeMap(t)
		for k, el := range obj {
			v, err := convert(el, t.Elem())
			if err != nil {
				return reflect.Value{}, errors.Annotate(err, "key %s", k)
			}
			res.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
		}
		return res, nil
	}
	return reflect.Value{}, errors.Reason("unsupported type: %s", t)
}

// parseDefault converts a `default` tag value to the type t.
func parseDefault(s string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Ptr:
		v, err := parseDefault(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid bool: %s", s)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid integer: %s", s)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float64:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid float64: %s", s)
		}
		return reflect.ValueOf(x).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	}
	return reflect.Value{}, errors.Reason("default values are not supported for %s", t)
}

// checkChoice verifies a string value against the field's `choices` tag, if
// any.
func checkChoice(f field, v reflect.Value) error {
	choices, ok := f.Tag.Lookup("choices")
	if !ok {
		return nil
	}
	if f.Type.Kind() != reflect.String {
		return errors.Reason("choices tag applied to a non-string field %s", f.Name)
	}
	if s := v.String(); !StringIn(s, strings.Split(choices, ",")...) {
		return errors.Reason("value for %s is not in its choice list: '%s'", f.Name, s)
	}
	return nil
}

// Init populates the struct pointed to by m from js, which must be a JSON
// object as decoded by encoding/json into interface{}.
//
// Recognized struct tags:
// `json:"key" required:"true" default:"value" choices:"one,two,three"`
//
// Fields missing from js are set to their `default` value or else to the zero
// value (or to the defaults of a nested Message). Unknown keys in js are an
// error, and so is a missing required field.
func Init(m Message, js any) error {
	rv, err := structValue(m)
	if err != nil {
		return err
	}
	obj, ok := js.(map[string]any)
	if !ok {
		return errors.Reason("JSON value is not an object: %v", js)
	}
	seen := make(map[string]struct{})
	var missing []string
	for _, f := range fieldsOf(rv.Type()) {
		var v reflect.Value
		jv, present := obj[f.Key]
		switch {
		case present:
			seen[f.Key] = struct{}{}
			if v, err = convert(jv, f.Type); err != nil {
				return errors.Annotate(err, "error assigning field %s", f.Name)
			}
		case f.Tag.Get("required") == "true":
			missing = append(missing, f.Key)
			continue
		default:
			if d, ok := f.Tag.Lookup("default"); ok {
				v, err = parseDefault(d, f.Type)
			} else {
				v, err = convert(nil, f.Type)
			}
			if err != nil {
				return errors.Annotate(err, "error setting default value for %s", f.Name)
			}
		}
		if err := checkChoice(f, v); err != nil {
			return err
		}
		rv.FieldByIndex(f.Index).Set(v)
	}
	if len(missing) > 0 {
		return errors.Reason("missing required fields: %s", strings.Join(missing, ", "))
	}
	var extra []string
	for k := range obj {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		return errors.Reason("unsupported fields for %s: %s",
			rv.Type().Name(), strings.Join(extra, ", "))
	}
	return nil
}

// Defaults sets every field of the struct pointed to by m that is still at
// its zero value and carries a `default` tag to that default. Other fields are
// left intact, and choices are not checked.
func Defaults(m any) error {
	rv, err := structValue(m)
	if err != nil {
		return err
	}
	for _, f := range fieldsOf(rv.Type()) {
		d, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		fv := rv.FieldByIndex(f.Index)
		if !fv.IsZero() {
			continue
		}
		v, err := parseDefault(d, f.Type)
		if err != nil {
			return errors.Annotate(err, "error setting default value for %s", f.Name)
		}
		fv.Set(v)
	}
	return nil
}

// FromString initializes m from a JSON string.
func FromString(m Message, s string) error {
	var js any
	if err := json.Unmarshal([]byte(s), &js); err != nil {
		return errors.Annotate(err, "failed to parse JSON")
	}
	return m.InitMessage(js)
}

// FromFile initializes m from a JSON file.
func FromFile(m Message, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotate(err, "failed to read '%s'", path)
	}
	if err := FromString(m, string(data)); err != nil {
		return errors.Annotate(err, "failed to load '%s'", path)
	}
	return nil
}

// StringIn checks that s equals one of the values.
func StringIn(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
