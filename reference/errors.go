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

	"github.com/stockparfait/errors"
)

// ErrRemoved is matched by errors.Is for every call to a removed endpoint.
var ErrRemoved = errors.Reason("endpoint removed")

// RemovedError is returned by removed endpoints instead of a result.
type RemovedError struct {
	Endpoint    string
	Replacement string
}

var _ error = &RemovedError{}

func (e *RemovedError) Error() string {
	return fmt.Sprintf("endpoint %s has been removed; use %s instead",
		e.Endpoint, e.Replacement)
}

// Is makes errors.Is(err, ErrRemoved) true.
func (e *RemovedError) Is(target error) bool {
	return target == ErrRemoved
}
