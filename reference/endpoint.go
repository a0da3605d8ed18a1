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
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/polygon/message"
)

// Endpoint describes one remote operation. All endpoints are GET requests.
// Endpoint values are defined once in this package and never modified.
type Endpoint struct {
	Name string // catalog name, e.g. "tickers"
	// Path template relative to the base URL. A {name} placeholder is
	// replaced by the params field tagged `path:"name"`.
	Path string
	// NewParams creates an empty params struct for this endpoint; nil for
	// endpoints without parameters.
	NewParams func() message.Message
	// RawByDefault selects the output shape when the call doesn't choose one.
	RawByDefault bool
	// Replacement is set for removed endpoints and names the endpoint to use
	// instead. Calling a removed endpoint yields a *RemovedError.
	Replacement string
}

// Removed checks whether the endpoint is a removed placeholder.
func (e *Endpoint) Removed() bool {
	return e.Replacement != ""
}

// isNil checks for both the nil interface and a typed nil pointer.
func isNil(params any) bool {
	if params == nil {
		return true
	}
	rv := reflect.ValueOf(params)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// copyParams creates a shallow copy of a params struct pointer, so that
// applying defaults never modifies the caller's value.
func copyParams(params any) (any, error) {
	rv := reflect.ValueOf(params)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.Reason("params must be a struct pointer, got %T", params)
	}
	cp := reflect.New(rv.Elem().Type())
	cp.Elem().Set(rv.Elem())
	return cp.Interface(), nil
}

// Build resolves the request path and the query parameters for the given
// params, which must be nil or a pointer to a params struct. Defaults are
// applied to a copy of params, unset fields are omitted, and path fields are
// substituted into the path template.
func (e *Endpoint) Build(params any) (string, url.Values, error) {
	query := make(url.Values)
	if isNil(params) {
		if e.NewParams == nil {
			if strings.Contains(e.Path, "{") {
				return "", nil, errors.Reason("%s: missing path parameters", e.Name)
			}
			return e.Path, query, nil
		}
		params = e.NewParams()
	}
	if e.NewParams == nil {
		return "", nil, errors.Reason("%s takes no parameters, got %T", e.Name, params)
	}
	if want := reflect.TypeOf(e.NewParams()); reflect.TypeOf(params) != want {
		return "", nil, errors.Reason("%s expects %s params, got %T", e.Name, want, params)
	}
	params, err := copyParams(params)
	if err != nil {
		return "", nil, errors.Annotate(err, "%s", e.Name)
	}
	if err := message.Defaults(params); err != nil {
		return "", nil, errors.Annotate(err, "%s: failed to apply defaults", e.Name)
	}
	path := e.Path
	err = message.Walk(params, func(key string, f reflect.StructField, v reflect.Value) error {
		s, ok, err := queryValue(v)
		if err != nil {
			return errors.Annotate(err, "field %s", f.Name)
		}
		tag, isPath := f.Tag.Lookup("path")
		if !isPath {
			if ok {
				query.Set(key, s)
			}
			return nil
		}
		name, conv := splitPathTag(tag)
		if !ok {
			return errors.Reason("missing path parameter %s", key)
		}
		switch conv {
		case "upper":
			s = strings.ToUpper(s)
		case "lower":
			s = strings.ToLower(s)
		}
		placeholder := "{" + name + "}"
		if !strings.Contains(path, placeholder) {
			return errors.Reason("no %s in path %s", placeholder, e.Path)
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(s))
		return nil
	})
	if err != nil {
		return "", nil, errors.Annotate(err, "%s", e.Name)
	}
	if strings.Contains(path, "{") {
		return "", nil, errors.Reason("%s: unresolved path parameters in %s", e.Name, path)
	}
	return path, query, nil
}

func splitPathTag(tag string) (name, conv string) {
	parts := strings.SplitN(tag, ",", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// queryValue is the string form of a params field, and whether the field is
// set. Zero values and nil pointers are unset.
func queryValue(v reflect.Value) (string, bool, error) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", false, nil
		}
		v = v.Elem()
	} else if v.IsZero() {
		return "", false, nil
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), true, nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true, nil
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true, nil
	}
	return "", false, errors.Reason("unsupported query type %s", v.Type())
}
