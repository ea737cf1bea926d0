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
package ir

// Unit is one independently lowerable compilation unit: a group of
// operations which are tiled, vectorized and bufferized together, and
// finally linked with all other units into a single artifact.  A unit is
// exclusively owned by whichever goroutine is lowering it.
type Unit struct {
	name string
	ops  []Operation
	// Optional externally authored transformation schedule attached to this
	// unit.  Dropped once applied.
	schedule string
}

// NewUnit constructs a compilation unit over the given operations.
func NewUnit(name string, ops ...Operation) *Unit {
	return &Unit{name: name, ops: ops}
}

// Name returns the identifier of this unit.
func (p *Unit) Name() string {
	return p.name
}

// Operations returns the operations contained in this unit.
func (p *Unit) Operations() []Operation {
	return p.ops
}

// Schedule returns the externally authored schedule attached to this unit,
// or the empty string if none is attached.
func (p *Unit) Schedule() string {
	return p.schedule
}

// WithSchedule returns a copy of this unit with the given schedule attached.
func (p *Unit) WithSchedule(schedule string) *Unit {
	return &Unit{p.name, p.ops, schedule}
}

// WithoutSchedule returns a copy of this unit with any attached schedule
// dropped.
func (p *Unit) WithoutSchedule() *Unit {
	return &Unit{p.name, p.ops, ""}
}

// IsCopyOnly reports whether every operation in this unit is a plain copy.
// Copy-only units skip strategy lowering and are bufferized directly.
func (p *Unit) IsCopyOnly() bool {
	for _, op := range p.ops {
		if _, ok := op.(*CopyOp); !ok {
			return false
		}
	}
	//
	return len(p.ops) > 0
}
