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

import (
	log "github.com/sirupsen/logrus"

	"github.com/tilery/go-tilery/pkg/ir"
)

// VerifyLoweringConfig checks a lowering configuration against whichever
// verifier matches the chosen strategy family.  Strategies without a
// registered verifier are accepted as-is.  A nil error means the
// configuration was explicitly accepted; any rejection is returned as a
// *RejectionError.
func VerifyLoweringConfig(op ir.Operation, config *TilingConfig, choice Choice, workgroupSize []int64) error {
	switch choice {
	case CPUDoubleTilingExpert, CPUDoubleTilingPadExpert:
		return VerifyDoubleTilingExpert(op, config, choice, workgroupSize)
	case CPUConvTileAndDecomposeExpert:
		return VerifyConvTileAndDecompose(op, config, choice, workgroupSize)
	default:
		log.Debugf("no verifier registered for %s, accepting %s as-is", choice, op.Name())
		return nil
	}
}

// VerifyDoubleTilingExpert checks a lowering configuration against the
// double-tiling strategy family.  The two expert tiling levels are defined
// to partition tiling effort strictly along iterator kind: parallel tile
// sizes may only be set on parallel dimensions, reduction tile sizes only on
// reduction dimensions.  A nonzero size on the wrong kind signals a
// misconfigured strategy selection.
func VerifyDoubleTilingExpert(op ir.Operation, config *TilingConfig, choice Choice, workgroupSize []int64) error {
	if len(workgroupSize) != 0 {
		return Reject(op.Name(), "expected workgroup size to be empty for CPU pipelines")
	}
	// Verify the chosen strategy belongs to this family.
	if choice != CPUDoubleTilingExpert && choice != CPUDoubleTilingPadExpert {
		return Reject(op.Name(), "expected strategy to be %s or %s, got %s",
			CPUDoubleTilingExpert, CPUDoubleTilingPadExpert, choice)
	}
	//
	if len(config.TileSizes) != int(NumTileLevels) {
		return Reject(op.Name(), "expected %d tiling levels, got %d", NumTileLevels, len(config.TileSizes))
	}
	// Kind-based checks apply only when the operation exposes its loop
	// structure.
	if pLoops, ok := ir.ParallelDims(op); ok {
		for i, size := range config.TileSizesAt(ParallelTiles) {
			if size != 0 && !pLoops[uint(i)] {
				return RejectAt(op.Name(), i,
					"expected only parallel dims to be set in the parallel tiling sizes")
			}
		}
		//
		for i, size := range config.TileSizesAt(ReductionTiles) {
			if size != 0 && pLoops[uint(i)] {
				return RejectAt(op.Name(), i,
					"expected only reduction dims to be set in the reduction tiling sizes")
			}
		}
	} else {
		log.Debugf("operation %s exposes no loop structure, iterator-kind checks not applicable", op.Name())
	}
	// Verify interchange permutations.
	for level := range config.TileInterchange {
		var (
			tileSizes   = config.TileSizesAt(TilingLevel(level))
			interchange = config.InterchangeAt(TilingLevel(level))
		)
		//
		if !IsValidInterchange(interchange, len(tileSizes)) {
			return RejectAt(op.Name(), level,
				"expected [0, %d) to be set exactly once in interchange", len(tileSizes))
		}
	}
	// Verify that native vector size is empty.
	if len(config.NativeVectorSize) != 0 {
		return Reject(op.Name(), "native vector size must be empty")
	}
	//
	return nil
}

// VerifyConvTileAndDecompose checks that a convolution can be decomposed
// into a lower-dimensional form once the configured tile sizes are applied.
// Decomposition requires collapsing at least one spatial axis to a unit
// dimension.
func VerifyConvTileAndDecompose(op ir.Operation, config *TilingConfig, choice Choice, workgroupSize []int64) error {
	if len(config.TileSizes) != int(NumTileLevels) {
		return Reject(op.Name(), "expected %d tiling levels, got %d", NumTileLevels, len(config.TileSizes))
	}
	//
	conv, ok := op.(ir.ConvolutionOp)
	if !ok {
		return Reject(op.Name(), "unsupported conv types")
	}
	//
	roles, ok := conv.Layout().Roles()
	if !ok {
		return Reject(op.Name(), "unsupported conv types")
	}
	//
	ranges := conv.StaticLoopRanges()
	// Every level's tile-size list must fit within the iteration space.
	for level, sizes := range config.TileSizes {
		if len(sizes) > len(ranges) {
			return RejectAt(op.Name(), level,
				"expected at most %d tile sizes per level, got %d", len(ranges), len(sizes))
		}
	}
	// Propagate tile sizes onto the static shape to obtain the residual
	// shape after all tiling levels apply.
	shape := residualShape(ranges, config.TileSizes)
	//
	var (
		khSize = shape[roles.KernelHeight]
		kwSize = shape[roles.KernelWidth]
		ohSize = shape[roles.OutputHeight]
		owSize = shape[roles.OutputWidth]
	)
	//
	removeH := khSize == 1 && ohSize == 1
	removeW := kwSize == 1 && owSize == 1
	//
	if !removeH && !removeW {
		return Reject(op.Name(), "can't decompose the conv op")
	}
	//
	return nil
}

// residualShape propagates tile sizes onto a static shape, level by level.
// A tile size of one collapses the dimension to a singleton.  Unknown
// extents and untiled dimensions are left unchanged.  A tile size which does
// not evenly divide the extent ends static reasoning for that dimension;
// otherwise the extent is replaced by the tile size and reasoning continues
// at the tiled size.  Each per-level list must fit within the shape's rank;
// callers reject oversized lists before propagation.
func residualShape(ranges []int64, tileSizes [][]int64) []int64 {
	shape := make([]int64, len(ranges))
	copy(shape, ranges)
	//
	for _, sizes := range tileSizes {
		for i, size := range sizes {
			if size == 1 {
				shape[i] = 1
			}
			//
			if shape[i] == ir.DimUnknown || size == 0 {
				continue
			}
			//
			if shape[i]%size != 0 {
				shape[i] = ir.DimUnknown
			} else {
				shape[i] = size
			}
		}
	}
	//
	return shape
}
