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

// DimUnknown is the sentinel extent used for loop dimensions whose trip count
// is not statically known.
const DimUnknown int64 = -1

// IteratorKind classifies a single loop dimension of an operation's iteration
// space.
type IteratorKind uint8

const (
	// Parallel indicates iterations of this dimension are independent and can
	// be freely reordered or distributed.
	Parallel IteratorKind = iota
	// Reduction indicates iterations of this dimension combine into an
	// accumulator and cannot be distributed without a combining step.
	Reduction
)

// String returns a human-readable name for this iterator kind.
func (k IteratorKind) String() string {
	switch k {
	case Parallel:
		return "parallel"
	case Reduction:
		return "reduction"
	default:
		return "unknown"
	}
}

// Operation is the minimal capability every tensor operation exposes to the
// lowering engine.  Operations are constructed upstream and are immutable
// from the engine's perspective.
type Operation interface {
	// Name returns a stable identifier for this operation, used in
	// diagnostics.
	Name() string
}

// TilingInterface is implemented by operations which expose their loop
// structure.  Strategy verification which depends on iterator kinds is
// skipped (not failed) for operations lacking this capability.
type TilingInterface interface {
	Operation
	// IteratorKinds returns the kind of each loop dimension, in loop order.
	IteratorKinds() []IteratorKind
	// StaticLoopRanges returns the static extent of each loop dimension, in
	// loop order, using DimUnknown for dynamic extents.
	StaticLoopRanges() []int64
}

// ConvolutionOp is implemented by operations with a recognised convolution
// layout, enabling shape-driven decomposition checks.
type ConvolutionOp interface {
	TilingInterface
	// Layout identifies which of the known convolution layouts this
	// operation uses.
	Layout() ConvLayout
}
