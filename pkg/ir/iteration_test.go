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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Matmul(t *testing.T) {
	dims, ok := Classify(NewMatmulOp("matmul", 128, 64, DimUnknown))
	//
	require.True(t, ok)
	require.Len(t, dims, 3)
	assert.Equal(t, DimInfo{Parallel, 128}, dims[0])
	assert.Equal(t, DimInfo{Parallel, 64}, dims[1])
	assert.Equal(t, DimInfo{Reduction, DimUnknown}, dims[2])
}

func TestClassify_Convolutions(t *testing.T) {
	tests := []struct {
		name       string
		op         Operation
		reductions []int
	}{
		{"nhwc", NewConv2DNhwcHwcfOp("c", []int64{1, 4, 8, 16, 3, 3, 4}), []int{4, 5, 6}},
		{"depthwise", NewDepthwiseConv2DNhwcHwcOp("d", []int64{1, 4, 8, 16, 3, 3}), []int{4, 5}},
		{"nchw", NewConv2DNchwFchwOp("e", []int64{1, 16, 4, 8, 4, 3, 3}), []int{4, 5, 6}},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims, ok := Classify(tt.op)
			require.True(t, ok)
			//
			for i, dim := range dims {
				expected := Parallel
				//
				for _, r := range tt.reductions {
					if r == i {
						expected = Reduction
					}
				}
				//
				assert.Equal(t, expected, dim.Kind, "dimension %d", i)
			}
		})
	}
}

func TestClassify_OpaqueNotApplicable(t *testing.T) {
	dims, ok := Classify(NewOpaqueOp("external"))
	//
	assert.False(t, ok)
	assert.Nil(t, dims)
}

func TestParallelDims(t *testing.T) {
	set, ok := ParallelDims(NewMatmulOp("matmul", 8, 8, 8))
	//
	require.True(t, ok)
	assert.True(t, set[0])
	assert.True(t, set[1])
	assert.False(t, set[2])
	//
	_, ok = ParallelDims(NewOpaqueOp("external"))
	assert.False(t, ok)
}

func TestConvLayoutRoles(t *testing.T) {
	nhwc, ok := ConvLayoutNhwcHwcf.Roles()
	require.True(t, ok)
	assert.Equal(t, ConvRoles{KernelHeight: 4, KernelWidth: 5, OutputHeight: 1, OutputWidth: 2}, nhwc)
	//
	nchw, ok := ConvLayoutNchwFchw.Roles()
	require.True(t, ok)
	assert.Equal(t, ConvRoles{KernelHeight: 5, KernelWidth: 6, OutputHeight: 2, OutputWidth: 3}, nchw)
	//
	_, ok = ConvLayoutUnknown.Roles()
	assert.False(t, ok)
}

func TestUnit_Schedule(t *testing.T) {
	unit := NewUnit("dispatch_0", NewMatmulOp("m", 8, 8, 8))
	//
	assert.Equal(t, "", unit.Schedule())
	//
	scheduled := unit.WithSchedule("schedule.mlir")
	assert.Equal(t, "schedule.mlir", scheduled.Schedule())
	// Dropping returns a copy; the original is untouched.
	dropped := scheduled.WithoutSchedule()
	assert.Equal(t, "", dropped.Schedule())
	assert.Equal(t, "schedule.mlir", scheduled.Schedule())
}

func TestUnit_IsCopyOnly(t *testing.T) {
	copies := NewUnit("u", NewCopyOp("c0", []int64{8}), NewCopyOp("c1", []int64{8}))
	assert.True(t, copies.IsCopyOnly())
	//
	mixed := NewUnit("u", NewCopyOp("c0", []int64{8}), NewMatmulOp("m", 8, 8, 8))
	assert.False(t, mixed.IsCopyOnly())
	//
	empty := NewUnit("u")
	assert.False(t, empty.IsCopyOnly())
}
