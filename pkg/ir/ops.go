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

import "fmt"

// structuredOp is the shared representation behind all concrete operations
// which expose their loop structure.
type structuredOp struct {
	name   string
	kinds  []IteratorKind
	ranges []int64
}

// Name returns the identifier of this operation.
func (p *structuredOp) Name() string {
	return p.name
}

// IteratorKinds returns the kind of each loop dimension, in loop order.
func (p *structuredOp) IteratorKinds() []IteratorKind {
	return p.kinds
}

// StaticLoopRanges returns the static extent of each loop dimension.
func (p *structuredOp) StaticLoopRanges() []int64 {
	return p.ranges
}

// GenericOp is a structured operation with an arbitrary iteration space, such
// as an elementwise computation or a fused contraction.
type GenericOp struct {
	structuredOp
}

// NewGenericOp constructs a structured operation with the given iterator
// kinds and static extents.  Both slices must have the same length.
func NewGenericOp(name string, kinds []IteratorKind, ranges []int64) *GenericOp {
	if len(kinds) != len(ranges) {
		panic(fmt.Sprintf("operation %s: %d iterator kinds for %d loop ranges", name, len(kinds), len(ranges)))
	}
	//
	return &GenericOp{structuredOp{name, kinds, ranges}}
}

// MatmulOp is a matrix multiplication with iteration space (M, N, K) where M
// and N are parallel and K is a reduction.
type MatmulOp struct {
	structuredOp
}

// NewMatmulOp constructs a matrix multiplication over the given extents.
func NewMatmulOp(name string, m, n, k int64) *MatmulOp {
	return &MatmulOp{structuredOp{
		name,
		[]IteratorKind{Parallel, Parallel, Reduction},
		[]int64{m, n, k},
	}}
}

// FillOp writes a scalar across an output tensor; all dimensions are
// parallel.
type FillOp struct {
	structuredOp
}

// NewFillOp constructs a fill over the given extents.
func NewFillOp(name string, ranges []int64) *FillOp {
	return &FillOp{structuredOp{name, allParallel(len(ranges)), ranges}}
}

// CopyOp copies one tensor to another; all dimensions are parallel.
type CopyOp struct {
	structuredOp
}

// NewCopyOp constructs a copy over the given extents.
func NewCopyOp(name string, ranges []int64) *CopyOp {
	return &CopyOp{structuredOp{name, allParallel(len(ranges)), ranges}}
}

// Conv2DNhwcHwcfOp is a channel-last 2-D convolution with iteration space
// N, OH, OW, OC, KH, KW, IC.
type Conv2DNhwcHwcfOp struct {
	structuredOp
}

// NewConv2DNhwcHwcfOp constructs a channel-last 2-D convolution.  Extents
// are given in loop order N, OH, OW, OC, KH, KW, IC.
func NewConv2DNhwcHwcfOp(name string, ranges []int64) *Conv2DNhwcHwcfOp {
	checkRank(name, ranges, 7)
	//
	kinds := allParallel(7)
	kinds[4], kinds[5], kinds[6] = Reduction, Reduction, Reduction
	//
	return &Conv2DNhwcHwcfOp{structuredOp{name, kinds, ranges}}
}

// Layout identifies the channel-last layout.
func (p *Conv2DNhwcHwcfOp) Layout() ConvLayout {
	return ConvLayoutNhwcHwcf
}

// DepthwiseConv2DNhwcHwcOp is the depthwise variant of the channel-last 2-D
// convolution, with iteration space N, OH, OW, C, KH, KW.  Its spatial role
// positions coincide with the dense channel-last layout.
type DepthwiseConv2DNhwcHwcOp struct {
	structuredOp
}

// NewDepthwiseConv2DNhwcHwcOp constructs a depthwise channel-last 2-D
// convolution.  Extents are given in loop order N, OH, OW, C, KH, KW.
func NewDepthwiseConv2DNhwcHwcOp(name string, ranges []int64) *DepthwiseConv2DNhwcHwcOp {
	checkRank(name, ranges, 6)
	//
	kinds := allParallel(6)
	kinds[4], kinds[5] = Reduction, Reduction
	//
	return &DepthwiseConv2DNhwcHwcOp{structuredOp{name, kinds, ranges}}
}

// Layout identifies the channel-last layout (shared with the dense variant).
func (p *DepthwiseConv2DNhwcHwcOp) Layout() ConvLayout {
	return ConvLayoutNhwcHwcf
}

// Conv2DNchwFchwOp is a channel-first 2-D convolution with iteration space
// N, OC, OH, OW, IC, KH, KW.
type Conv2DNchwFchwOp struct {
	structuredOp
}

// NewConv2DNchwFchwOp constructs a channel-first 2-D convolution.  Extents
// are given in loop order N, OC, OH, OW, IC, KH, KW.
func NewConv2DNchwFchwOp(name string, ranges []int64) *Conv2DNchwFchwOp {
	checkRank(name, ranges, 7)
	//
	kinds := allParallel(7)
	kinds[4], kinds[5], kinds[6] = Reduction, Reduction, Reduction
	//
	return &Conv2DNchwFchwOp{structuredOp{name, kinds, ranges}}
}

// Layout identifies the channel-first layout.
func (p *Conv2DNchwFchwOp) Layout() ConvLayout {
	return ConvLayoutNchwFchw
}

// OpaqueOp is an operation which exposes no loop structure at all.  Iterator
// based verification is not applicable to it.
type OpaqueOp struct {
	name string
}

// NewOpaqueOp constructs an operation without loop structure.
func NewOpaqueOp(name string) *OpaqueOp {
	return &OpaqueOp{name}
}

// Name returns the identifier of this operation.
func (p *OpaqueOp) Name() string {
	return p.name
}

func allParallel(n int) []IteratorKind {
	kinds := make([]IteratorKind, n)
	for i := range kinds {
		kinds[i] = Parallel
	}
	//
	return kinds
}

func checkRank(name string, ranges []int64, rank int) {
	if len(ranges) != rank {
		panic(fmt.Sprintf("operation %s: expected rank %d iteration space, got %d", name, rank, len(ranges)))
	}
}
