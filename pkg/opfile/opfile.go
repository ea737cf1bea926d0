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

// Package opfile reads JSON operation files: compilation units annotated
// with per-operation lowering configurations and a translation strategy.
package opfile

import (
	"encoding/json"
	"fmt"

	"github.com/tilery/go-tilery/pkg/ir"
	"github.com/tilery/go-tilery/pkg/pipeline"
	"github.com/tilery/go-tilery/pkg/strategy"
)

type jsonOpFile struct {
	Units []jsonUnit `json:"units"`
}

type jsonUnit struct {
	Name          string          `json:"name"`
	Strategy      string          `json:"strategy"`
	WorkgroupSize []int64         `json:"workgroup_size"`
	Operations    []jsonOperation `json:"operations"`
}

type jsonOperation struct {
	Kind           string             `json:"kind"`
	Name           string             `json:"name"`
	Dims           []int64            `json:"dims"`
	Iterators      []string           `json:"iterators"`
	LoweringConfig jsonLoweringConfig `json:"lowering_config"`
}

type jsonLoweringConfig struct {
	TileSizes        [][]int64 `json:"tile_sizes"`
	TileInterchange  [][]int64 `json:"tile_interchange"`
	NativeVectorSize []int64   `json:"native_vector_size"`
}

// UnitPlansFromJson parses a JSON operation file into unit plans ready for
// the orchestrator.
func UnitPlansFromJson(bytes []byte) ([]pipeline.UnitPlan, error) {
	var file jsonOpFile
	//
	if err := json.Unmarshal(bytes, &file); err != nil {
		return nil, err
	}
	//
	plans := make([]pipeline.UnitPlan, len(file.Units))
	//
	for i, unit := range file.Units {
		plan, err := unit.toPlan()
		if err != nil {
			return nil, err
		}
		//
		plans[i] = plan
	}
	//
	return plans, nil
}

func (p *jsonUnit) toPlan() (pipeline.UnitPlan, error) {
	var (
		empty   pipeline.UnitPlan
		ops     = make([]ir.Operation, len(p.Operations))
		configs = make([]*strategy.TilingConfig, len(p.Operations))
	)
	//
	choice, err := strategy.ParseChoice(p.Strategy)
	if err != nil {
		return empty, fmt.Errorf("unit %s: %w", p.Name, err)
	}
	//
	for i, jsonOp := range p.Operations {
		op, err := jsonOp.toOperation()
		if err != nil {
			return empty, fmt.Errorf("unit %s: %w", p.Name, err)
		}
		//
		ops[i] = op
		configs[i] = &strategy.TilingConfig{
			TileSizes:        jsonOp.LoweringConfig.TileSizes,
			TileInterchange:  jsonOp.LoweringConfig.TileInterchange,
			NativeVectorSize: jsonOp.LoweringConfig.NativeVectorSize,
		}
	}
	//
	return pipeline.UnitPlan{
		Unit:          ir.NewUnit(p.Name, ops...),
		Choice:        choice,
		WorkgroupSize: p.WorkgroupSize,
		Configs:       configs,
	}, nil
}

func (p *jsonOperation) toOperation() (ir.Operation, error) {
	switch p.Kind {
	case "matmul":
		if len(p.Dims) != 3 {
			return nil, fmt.Errorf("operation %s: matmul expects dims [M, N, K]", p.Name)
		}
		//
		return ir.NewMatmulOp(p.Name, p.Dims[0], p.Dims[1], p.Dims[2]), nil
	case "generic":
		kinds, err := parseIterators(p.Name, p.Iterators)
		if err != nil {
			return nil, err
		}
		//
		if len(kinds) != len(p.Dims) {
			return nil, fmt.Errorf("operation %s: %d iterators for %d dims", p.Name, len(kinds), len(p.Dims))
		}
		//
		return ir.NewGenericOp(p.Name, kinds, p.Dims), nil
	case "fill":
		return ir.NewFillOp(p.Name, p.Dims), nil
	case "copy":
		return ir.NewCopyOp(p.Name, p.Dims), nil
	case "conv_2d_nhwc_hwcf":
		if len(p.Dims) != 7 {
			return nil, fmt.Errorf("operation %s: conv_2d_nhwc_hwcf expects dims [N, OH, OW, OC, KH, KW, IC]", p.Name)
		}
		//
		return ir.NewConv2DNhwcHwcfOp(p.Name, p.Dims), nil
	case "depthwise_conv_2d_nhwc_hwc":
		if len(p.Dims) != 6 {
			return nil, fmt.Errorf("operation %s: depthwise_conv_2d_nhwc_hwc expects dims [N, OH, OW, C, KH, KW]", p.Name)
		}
		//
		return ir.NewDepthwiseConv2DNhwcHwcOp(p.Name, p.Dims), nil
	case "conv_2d_nchw_fchw":
		if len(p.Dims) != 7 {
			return nil, fmt.Errorf("operation %s: conv_2d_nchw_fchw expects dims [N, OC, OH, OW, IC, KH, KW]", p.Name)
		}
		//
		return ir.NewConv2DNchwFchwOp(p.Name, p.Dims), nil
	case "opaque":
		return ir.NewOpaqueOp(p.Name), nil
	default:
		return nil, fmt.Errorf("operation %s: unknown kind %q", p.Name, p.Kind)
	}
}

func parseIterators(op string, iterators []string) ([]ir.IteratorKind, error) {
	kinds := make([]ir.IteratorKind, len(iterators))
	//
	for i, name := range iterators {
		switch name {
		case "parallel":
			kinds[i] = ir.Parallel
		case "reduction":
			kinds[i] = ir.Reduction
		default:
			return nil, fmt.Errorf("operation %s: unknown iterator kind %q", op, name)
		}
	}
	//
	return kinds, nil
}
