// Copyright The Tilery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package strategy

import "fmt"

// indexNone marks a rejection which is not tied to a specific dimension or
// level.
const indexNone = -1

// RejectionError is a structured verification rejection.  It retains the
// identity of the offending operation, a human-readable reason, and (where
// applicable) the specific dimension or level index which violated the
// invariant.  Rejections are terminal verdicts for the chosen strategy, not
// faults; a caller may re-attempt the operation under a different strategy.
type RejectionError struct {
	// Op identifies the rejected operation.
	Op string
	// Reason describes the violated invariant.
	Reason string
	// Index is the offending dimension or level index, or indexNone.
	Index int
}

// Reject constructs a rejection for a given operation which is not tied to a
// specific index.
func Reject(op string, format string, args ...any) *RejectionError {
	return &RejectionError{op, fmt.Sprintf(format, args...), indexNone}
}

// RejectAt constructs a rejection for a given operation tied to a specific
// dimension or level index.
func RejectAt(op string, index int, format string, args ...any) *RejectionError {
	return &RejectionError{op, fmt.Sprintf(format, args...), index}
}

// Error implements the error interface.
func (p *RejectionError) Error() string {
	if p.Index == indexNone {
		return fmt.Sprintf("%s: %s", p.Op, p.Reason)
	}
	//
	return fmt.Sprintf("%s: %s (index %d)", p.Op, p.Reason, p.Index)
}

// HasIndex reports whether this rejection identifies a specific dimension or
// level.
func (p *RejectionError) HasIndex() bool {
	return p.Index != indexNone
}
