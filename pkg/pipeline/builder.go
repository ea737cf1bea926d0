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
package pipeline

import (
	"fmt"

	"github.com/tilery/go-tilery/pkg/strategy"
)

// BuildOptions carries the per-strategy parameters decided upstream of
// pipeline construction.
type BuildOptions struct {
	// NumLevels is the number of tiling levels fused over by the
	// multi-tiling strategy.
	NumLevels int64
	// EnablePeeling peels partial tiles during vectorization.
	EnablePeeling bool
	// LowerToAVX2 selects the AVX2 transpose-lowering variant when the
	// target supports it.
	LowerToAVX2 bool
}

// DefaultBuildOptions returns build options matching the double-tiling
// strategies.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{NumLevels: int64(strategy.NumTileLevels)}
}

// Build maps a strategy choice and the feature flags in force onto the
// ordered stage sequence that strategy entails.  Construction is pure: two
// builds from equal inputs yield identical sequences.  The configuration is
// assumed to have already passed verification; an unknown strategy tag here
// is a contract violation, not a recoverable condition.
func Build(choice strategy.Choice, flags strategy.FeatureFlags, opts BuildOptions) []Stage {
	builder := newBuilder(flags)
	//
	switch choice {
	case strategy.CPUDefault:
		builder.addDefaultPipeline()
	case strategy.CPUBufferOpsTileAndVectorize:
		builder.addBufferOpsTileAndVectorizePipeline()
	case strategy.CPUDoubleTilingExpert:
		builder.addMultiTilingExpertPipeline(int64(strategy.NumTileLevels), opts.EnablePeeling, opts.LowerToAVX2)
	case strategy.CPUMultiTilingExpert:
		builder.addMultiTilingExpertPipeline(opts.NumLevels, opts.EnablePeeling, opts.LowerToAVX2)
	case strategy.CPUDoubleTilingPadExpert:
		builder.addDoubleTilingPadExpertPipeline()
	case strategy.CPUConvTileAndDecomposeExpert:
		builder.addConvTileAndDecomposeExpertPipeline()
	case strategy.CPUAArch64DoubleTilingExpert:
		builder.addAArch64DoubleTilingExpertPipeline()
	case strategy.VMVXDefault:
		builder.addVMVXDefaultPipeline()
	case strategy.TransformDialectInterpreter:
		builder.addTransformInterpreterPipeline()
	default:
		panic(fmt.Sprintf("strategy %s bypassed verification", choice))
	}
	//
	return builder.stages
}

// pipelineBuilder incrementally assembles the flat ordered stage list for
// one strategy.
type pipelineBuilder struct {
	flags  strategy.FeatureFlags
	stages []Stage
}

func newBuilder(flags strategy.FeatureFlags) *pipelineBuilder {
	return &pipelineBuilder{flags: flags}
}

func (p *pipelineBuilder) program(name string, options any) {
	p.stages = append(p.stages, Stage{ScopeProgram, name, options})
}

func (p *pipelineBuilder) module(name string, options any) {
	p.stages = append(p.stages, Stage{ScopeModule, name, options})
}

func (p *pipelineBuilder) function(name string, options any) {
	p.stages = append(p.stages, Stage{ScopeFunction, name, options})
}

// addTileAndDistribute appends the distribution prefix shared by every
// built-in strategy: partition the iteration space into workgroups,
// normalise to destination-passing style, fold trivial bounds, then clean
// up.
func (p *pipelineBuilder) addTileAndDistribute() {
	p.program(StageTileAndDistribute, nil)
	p.function(StageDestinationPassingStyle, nil)
	p.function(StageFoldAffineMin, nil)
	p.module(StageCanonicalize, nil)
	p.module(StageCSE, nil)
}

// addBufferize appends comprehensive bufferization with the CPU allocation
// callbacks.
func (p *pipelineBuilder) addBufferize() {
	p.module(StageBufferize, newBufferizeOptions())
}

// addVectorLowering appends the vector lowering expert with the given
// transfer-splitting technique.
func (p *pipelineBuilder) addVectorLowering(splitTransfersTo string, lowerToAVX2 bool) {
	options := NewVectorLoweringOptions()
	options.SplitVectorTransfersTo = splitTransfersTo
	//
	if lowerToAVX2 {
		options.LowerVectorTransposeTo = "avx2"
	}
	//
	p.function(StageVectorLowering, options)
}

func (p *pipelineBuilder) canonicalizeAndCSE() {
	p.function(StageCanonicalize, nil)
	p.function(StageCSE, nil)
}

// addDefaultPipeline distributes and bufferizes, nothing more.
func (p *pipelineBuilder) addDefaultPipeline() {
	p.addTileAndDistribute()
	p.addBufferize()
}

// addBufferOpsTileAndVectorizePipeline single-level tiles and vectorizes.
// Reduction loops are not tiled since this applies to copy ops only.
func (p *pipelineBuilder) addBufferOpsTileAndVectorizePipeline() {
	p.addTileAndDistribute()
	//
	tiling := NewSingleTilingOptions()
	tiling.TilingLevel = int64(strategy.ParallelTiles)
	tiling.Peel = true
	tiling.Vectorize = true
	p.function(StageSingleTilingExpert, tiling)
	p.canonicalizeAndCSE()
	//
	p.function(StageRemoveUnitLoops, nil)
	p.addVectorLowering("linalg-copy", false)
}

// addDoubleTilingPadExpertPipeline tiles parallel dimensions, pads, tiles
// reduction dimensions, pads again, then vectorizes.  When hoist-padding is
// enabled the reduction padding step is split in two and followed by an
// explicit hoisting pass.
func (p *pipelineBuilder) addDoubleTilingPadExpertPipeline() {
	p.addTileAndDistribute()
	//
	fuse := NewFuseOptions()
	fuse.TilingLevel = int64(strategy.ParallelTiles)
	p.function(StageFuse, fuse)
	p.canonicalizeAndCSE()
	//
	pad := func(anchorOpName string, setAnchorOpToRootOp bool, packPaddings []int64) {
		options := NewFuseOptions()
		options.PadParallelDims = true
		//
		if setAnchorOpToRootOp {
			options.SetAnchorOpToRootOp = true
		} else {
			options.AnchorOpName = anchorOpName
		}
		//
		options.PackPaddings = append([]int64(nil), packPaddings...)
		p.function(StageFuse, options)
	}
	//
	pad("fill", false, nil)
	pad("", true, nil)
	pad("generic", false, nil)
	//
	tiling := NewSingleTilingOptions()
	tiling.TilingLevel = int64(strategy.ReductionTiles)
	p.function(StageSingleTilingExpert, tiling)
	p.canonicalizeAndCSE()
	//
	if !p.flags.EnableHoistPadding {
		options := NewFuseOptions()
		options.PadReductionDims = true
		options.SetAnchorOpToRootOp = true
		p.function(StageFuse, options)
	} else {
		packed := NewFuseOptions()
		packed.PadReductionDims = true
		packed.SetAnchorOpToRootOp = true
		packed.PackPaddings = []int64{1, 1, 0}
		p.function(StageFuse, packed)
		//
		hoist := NewFuseOptions()
		hoist.Pad = true
		hoist.SetAnchorOpToRootOp = true
		hoist.HoistPaddings = []int64{2, 3, 0}
		p.function(StageFuse, hoist)
		p.canonicalizeAndCSE()
	}
	// Fold dim(pad) away before vectorization.
	p.module(StageResolveShapedDims, nil)
	//
	vectorize := NewSingleTilingOptions()
	vectorize.Vectorize = true
	vectorize.VectorizePadding = true
	p.function(StageSingleTilingExpert, vectorize)
	p.canonicalizeAndCSE()
	//
	p.addBufferize()
	p.function(StageRemoveUnitLoops, nil)
	p.addVectorLowering("linalg-copy", false)
}

// addMultiTilingExpertPipeline fuses across levels 1..numLevels-1 and then
// vectorizes in one step.
func (p *pipelineBuilder) addMultiTilingExpertPipeline(numLevels int64, enablePeeling, lowerToAVX2 bool) {
	p.addTileAndDistribute()
	//
	for i := int64(1); i < numLevels; i++ {
		options := NewFuseOptions()
		options.TilingLevel = i
		p.function(StageFuse, options)
	}
	//
	tiling := NewSingleTilingOptions()
	tiling.Peel = enablePeeling
	tiling.Vectorize = true
	p.function(StageSingleTilingExpert, tiling)
	p.canonicalizeAndCSE()
	//
	p.addBufferize()
	p.function(StageRemoveUnitLoops, nil)
	p.addVectorLowering("linalg-copy", lowerToAVX2)
}

// addConvTileAndDecomposeExpertPipeline tiles a convolution along its
// parallel then reduction dimensions, decomposing it to a lower-dimensional
// form, then vectorizes.  Fusion runs first in case the unit carries
// fill + conv + generic chains: the reduction dimensions of a trailing
// generic are not tiled by the fusion step, so tiling along reductions runs
// as its own stage while the ops are still in structured form.
func (p *pipelineBuilder) addConvTileAndDecomposeExpertPipeline() {
	p.addTileAndDistribute()
	//
	fuse := NewFuseOptions()
	fuse.TilingLevel = int64(strategy.ParallelTiles)
	p.function(StageFuse, fuse)
	p.canonicalizeAndCSE()
	//
	tiling := NewSingleTilingOptions()
	tiling.TilingLevel = int64(strategy.ReductionTiles)
	tiling.DecomposeToLowerDimOp = true
	p.function(StageSingleTilingExpert, tiling)
	p.canonicalizeAndCSE()
	// Vectorization runs as its own stage rather than inside the tiling
	// stage above, since decomposition must complete before patterns match.
	vectorize := NewSingleTilingOptions()
	vectorize.Vectorize = true
	vectorize.VectorizePadding = true
	p.function(StageSingleTilingExpert, vectorize)
	p.canonicalizeAndCSE()
	//
	p.addBufferize()
	p.function(StageCSE, nil)
	p.function(StageCanonicalize, nil)
	p.function(StageOptimizeVectorXfer, OptimizeVectorTransferOptions{Flatten: true})
	//
	p.function(StageRemoveUnitLoops, nil)
	p.addVectorLowering("shuffle", false)
}

// addAArch64DoubleTilingExpertPipeline is the AArch64-specific double tiling
// pipeline with its dedicated final vector lowering.
func (p *pipelineBuilder) addAArch64DoubleTilingExpertPipeline() {
	p.addTileAndDistribute()
	//
	fuse := NewFuseOptions()
	fuse.TilingLevel = int64(strategy.ParallelTiles)
	p.function(StageFuse, fuse)
	//
	tiling := NewSingleTilingOptions()
	tiling.TilingLevel = int64(strategy.ReductionTiles)
	p.function(StageSingleTilingExpert, tiling)
	//
	vectorize := NewSingleTilingOptions()
	vectorize.Vectorize = true
	p.function(StageSingleTilingExpert, vectorize)
	//
	p.addBufferize()
	//
	p.function(StageAArch64VectorLower, nil)
	p.function(StageOptimizeVectorXfer, OptimizeVectorTransferOptions{Flatten: true})
}

// addVMVXDefaultPipeline targets the portable microkernel runtime.  The
// microkernel stages are present only when the flag enables them; they are
// absent entirely, not no-ops, otherwise.
func (p *pipelineBuilder) addVMVXDefaultPipeline() {
	p.addTileAndDistribute()
	// Tensor-level microkernel optimisation must run post-tiling because it
	// changes the structure of the unit such that tiling is not always
	// possible afterwards.
	if p.flags.EnableMicrokernels {
		p.function(StageDecomposeGenerics, nil)
	}
	//
	p.addBufferize()
	p.function(StageRemoveUnitLoops, nil)
	// Buffer-level microkernel conversion.
	if p.flags.EnableMicrokernels {
		p.function(StageLowerMicrokernels, nil)
	}
}

// addTransformInterpreterPipeline hands control to an externally authored
// schedule, then drops the schedule annotation from the unit.
func (p *pipelineBuilder) addTransformInterpreterPipeline() {
	p.program(StageTransformInterpreter, InterpreterOptions{ScheduleFile: p.flags.ScheduleFile})
	p.program(StageDropSchedule, nil)
}
