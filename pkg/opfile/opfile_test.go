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
package opfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilery/go-tilery/pkg/ir"
	"github.com/tilery/go-tilery/pkg/strategy"
)

var sampleOpFile = []byte(`{
  "units": [
    {
      "name": "dispatch_0",
      "strategy": "CPUDoubleTilingExpert",
      "workgroup_size": [],
      "operations": [
        {
          "kind": "matmul",
          "name": "matmul0",
          "dims": [128, 128, 256],
          "lowering_config": {
            "tile_sizes": [[64, 64, 0], [8, 32, 0], [0, 0, 16]],
            "tile_interchange": [[], [1, 0, 2]],
            "native_vector_size": []
          }
        }
      ]
    },
    {
      "name": "dispatch_1",
      "strategy": "CPUConvTileAndDecomposeExpert",
      "operations": [
        {
          "kind": "conv_2d_nhwc_hwcf",
          "name": "conv0",
          "dims": [1, 1, 8, 16, 1, 3, 4],
          "lowering_config": {
            "tile_sizes": [[0, 0, 0, 0, 0, 0, 0], [0, 0, 0, 0, 0, 0, 0], [0, 0, 0, 0, 0, 0, 0]]
          }
        }
      ]
    }
  ]
}`)

func TestUnitPlansFromJson(t *testing.T) {
	plans, err := UnitPlansFromJson(sampleOpFile)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	//
	first := plans[0]
	assert.Equal(t, "dispatch_0", first.Unit.Name())
	assert.Equal(t, strategy.CPUDoubleTilingExpert, first.Choice)
	assert.Empty(t, first.WorkgroupSize)
	//
	require.Len(t, first.Unit.Operations(), 1)
	matmul, ok := first.Unit.Operations()[0].(*ir.MatmulOp)
	require.True(t, ok)
	assert.Equal(t, "matmul0", matmul.Name())
	assert.Equal(t, []int64{128, 128, 256}, matmul.StaticLoopRanges())
	//
	require.Len(t, first.Configs, 1)
	assert.Equal(t, [][]int64{{64, 64, 0}, {8, 32, 0}, {0, 0, 16}}, first.Configs[0].TileSizes)
	assert.Equal(t, []int64{1, 0, 2}, first.Configs[0].InterchangeAt(strategy.ParallelTiles))
	//
	second := plans[1]
	assert.Equal(t, strategy.CPUConvTileAndDecomposeExpert, second.Choice)
	_, ok = second.Unit.Operations()[0].(*ir.Conv2DNhwcHwcfOp)
	assert.True(t, ok)
	// Parsed plans verify cleanly end to end.
	for _, plan := range plans {
		for i, op := range plan.Unit.Operations() {
			assert.NoError(t, strategy.VerifyLoweringConfig(op, plan.Configs[i], plan.Choice, plan.WorkgroupSize))
		}
	}
}

func TestUnitPlansFromJson_GenericIterators(t *testing.T) {
	plans, err := UnitPlansFromJson([]byte(`{
	  "units": [{
	    "name": "dispatch_0",
	    "strategy": "CPUDefault",
	    "operations": [{
	      "kind": "generic",
	      "name": "sum",
	      "dims": [128, 16],
	      "iterators": ["parallel", "reduction"],
	      "lowering_config": {}
	    }]
	  }]
	}`))
	//
	require.NoError(t, err)
	//
	op, ok := plans[0].Unit.Operations()[0].(*ir.GenericOp)
	require.True(t, ok)
	assert.Equal(t, []ir.IteratorKind{ir.Parallel, ir.Reduction}, op.IteratorKinds())
}

func TestUnitPlansFromJson_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			"unknown strategy",
			`{"units": [{"name": "u", "strategy": "GPUMatmulSimt", "operations": []}]}`,
			"unknown translation strategy",
		},
		{
			"unknown kind",
			`{"units": [{"name": "u", "strategy": "CPUDefault",
			  "operations": [{"kind": "fft", "name": "f", "dims": [8]}]}]}`,
			"unknown kind",
		},
		{
			"bad matmul dims",
			`{"units": [{"name": "u", "strategy": "CPUDefault",
			  "operations": [{"kind": "matmul", "name": "m", "dims": [8, 8]}]}]}`,
			"expects dims",
		},
		{
			"bad iterator kind",
			`{"units": [{"name": "u", "strategy": "CPUDefault",
			  "operations": [{"kind": "generic", "name": "g", "dims": [8],
			  "iterators": ["window"]}]}]}`,
			"unknown iterator kind",
		},
		{
			"iterator count mismatch",
			`{"units": [{"name": "u", "strategy": "CPUDefault",
			  "operations": [{"kind": "generic", "name": "g", "dims": [8, 8],
			  "iterators": ["parallel"]}]}]}`,
			"iterators for",
		},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnitPlansFromJson([]byte(tt.json))
			//
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
