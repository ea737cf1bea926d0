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

// Scope identifies the level of the compilation unit a stage runs at.  It is
// carried as metadata for whoever executes the stage; pipelines themselves
// are flat ordered lists.
type Scope uint8

const (
	// ScopeProgram stages run once over the whole program.
	ScopeProgram Scope = iota
	// ScopeModule stages run over each module of a unit.
	ScopeModule
	// ScopeFunction stages run over each function of a module.
	ScopeFunction
)

// String returns a human-readable name for this scope.
func (s Scope) String() string {
	switch s {
	case ScopeProgram:
		return "program"
	case ScopeModule:
		return "module"
	default:
		return "function"
	}
}

// Stage is one opaque unit of transformation work: a name, the scope it runs
// at, and an options record specific to the stage.  The engine only decides
// a stage's position in the ordered sequence; it never executes one itself.
type Stage struct {
	// Scope this stage runs at.
	Scope Scope
	// Name of the transformation.
	Name string
	// Options record for the transformation, or nil when it takes none.
	Options any
}

// Names of the transformation stages sequenced by the builders.  Each names
// an external transformation; the engine treats them as opaque.
const (
	// Distribution prefix.
	StageTileAndDistribute       = "tile-and-distribute-to-workgroups"
	StageDestinationPassingStyle = "convert-to-destination-passing-style"
	StageFoldAffineMin           = "fold-affine-min-in-distributed-loops"
	StageCanonicalize            = "canonicalize"
	StageCSE                     = "cse"
	// Tiling, fusion and vectorization.
	StageFuse                 = "fuse"
	StageSingleTilingExpert   = "single-tiling-expert"
	StageResolveShapedDims    = "resolve-shaped-type-result-dims"
	StageDecomposeGenerics    = "decompose-generics"
	StageBufferize            = "bufferize"
	StageRemoveUnitLoops      = "remove-single-iteration-loops"
	StageLowerMicrokernels    = "lower-microkernels"
	StageVectorLowering       = "vector-lowering"
	StageAArch64VectorLower   = "aarch64-vector-lowering"
	StageOptimizeVectorXfer   = "optimize-vector-transfers"
	StageTransformInterpreter = "transform-dialect-interpreter"
	StageDropSchedule         = "drop-schedule"
	// Orchestrated surroundings of the strategy pipeline.
	StageVerifyLoweringLegality = "verify-lowering-legality"
	StageTypePropagation        = "type-propagation"
	StageBufferizeCopyOnly      = "bufferize-copy-only-units"
	StageTensorExtToLoops       = "tensor-ext-to-loops"
	StageMemrefCopyToStructured = "memref-copy-to-structured"
	StageVectorizationRemarks   = "emit-vectorization-remarks"
	StageStructuredToLoops      = "convert-structured-to-loops"
	StageConstantBufferize      = "constant-bufferize"
	StageFoldTensorExtract      = "fold-tensor-extract"
	StagePolynomialApprox       = "polynomial-approximation"
	StageCheckIRBeforeConv      = "check-ir-before-conversion"
	StageLowerToCFG             = "lower-structured-control-flow"
	StageExpandArith            = "expand-arith-ops"
	StageExpandMemref           = "expand-memref-ops"
	StageConvertToNative        = "convert-to-native"
	StageReconcileCasts         = "reconcile-unrealized-casts"
	StageSyncSymbolVisibility   = "synchronize-symbol-visibility"
	StageLinkExecutables        = "link-executables"
)

// FuseOptions configures a fusion stage, including its padding behaviour.
type FuseOptions struct {
	// TilingLevel to fuse at, or -1 when fusion is driven by padding alone.
	TilingLevel int64
	// Pad enables padding of all operand dimensions.
	Pad bool
	// PadParallelDims pads only the parallel dimensions.
	PadParallelDims bool
	// PadReductionDims pads only the reduction dimensions.
	PadReductionDims bool
	// AnchorOpName anchors padding on a specific operation kind.
	AnchorOpName string
	// SetAnchorOpToRootOp anchors padding on the root operation instead.
	SetAnchorOpToRootOp bool
	// PackPaddings marks, per operand, whether its padding is packed.
	PackPaddings []int64
	// HoistPaddings gives, per operand, how many loops to hoist its padding
	// out of.
	HoistPaddings []int64
}

// NewFuseOptions returns fusion options with no tiling level selected.
func NewFuseOptions() FuseOptions {
	return FuseOptions{TilingLevel: -1}
}

// SingleTilingOptions configures a single-level tile-and-vectorize stage.
type SingleTilingOptions struct {
	// TilingLevel to tile at, or -1 to skip tiling.
	TilingLevel int64
	// Peel partial tiles off loop boundaries.
	Peel bool
	// Vectorize the tiled operations.
	Vectorize bool
	// VectorizePadding also vectorizes pad operations.
	VectorizePadding bool
	// DecomposeToLowerDimOp decomposes convolutions into lower-dimensional
	// forms while tiling.
	DecomposeToLowerDimOp bool
}

// NewSingleTilingOptions returns tiling options with no tiling level
// selected.
func NewSingleTilingOptions() SingleTilingOptions {
	return SingleTilingOptions{TilingLevel: -1}
}

// VectorLoweringOptions selects the techniques used when lowering vector
// operations towards the target.
type VectorLoweringOptions struct {
	// LowerVectorTransposeTo selects the transpose lowering technique
	// ("shuffle", or "avx2" for the instruction-set-specific variant).
	LowerVectorTransposeTo string
	// LowerVectorMultiReductionTo selects the multi-reduction lowering
	// technique.
	LowerVectorMultiReductionTo string
	// SplitVectorTransfersTo selects how partial transfers are split
	// ("linalg-copy" or "shuffle").
	SplitVectorTransfersTo string
}

// NewVectorLoweringOptions returns the CPU defaults: generic shuffle
// transpose lowering and inner-dimension multi-reduction lowering.
func NewVectorLoweringOptions() VectorLoweringOptions {
	return VectorLoweringOptions{
		LowerVectorTransposeTo:      "shuffle",
		LowerVectorMultiReductionTo: "innerreduction",
	}
}

// OptimizeVectorTransferOptions configures the vector-transfer optimization
// stage.
type OptimizeVectorTransferOptions struct {
	// Flatten collapses transfer dimensions where possible.
	Flatten bool
}

// InterpreterOptions configures the transform-dialect interpreter stage.
type InterpreterOptions struct {
	// ScheduleFile names the externally authored schedule to apply.
	ScheduleFile string
}
