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

// TilingLevel identifies one tier of the multi-level tiling applied by the
// CPU strategies.  Levels are totally ordered and the strategy verifiers
// assume exactly NumTileLevels of them.
type TilingLevel uint

const (
	// DistributionTiles partitions the global iteration space into
	// independently schedulable chunks.
	DistributionTiles TilingLevel = iota
	// ParallelTiles tiles the parallel dimensions within one chunk.
	ParallelTiles
	// ReductionTiles tiles the reduction dimensions within one chunk.
	ReductionTiles
	// NumTileLevels is the number of tiling levels the CPU strategies
	// operate over.
	NumTileLevels
)

// TilingConfig is the per-operation lowering configuration: how to tile,
// interchange and vectorize its loop nest.  A configuration is inert data
// until accepted by a verifier.
type TilingConfig struct {
	// TileSizes holds one ordered tile-size list per tiling level.  A size
	// of zero means the dimension is not tiled at that level.
	TileSizes [][]int64
	// TileInterchange optionally holds one loop permutation per tiling
	// level.  An empty permutation means no interchange at that level.
	TileInterchange [][]int64
	// NativeVectorSize optionally overrides the target's native vector
	// size.  CPU strategies compute this internally and require it empty.
	NativeVectorSize []int64
}

// TileSizesAt returns the tile-size list for a given level, or an empty list
// if the configuration declares no sizes for it.
func (p *TilingConfig) TileSizesAt(level TilingLevel) []int64 {
	if uint(level) >= uint(len(p.TileSizes)) {
		return nil
	}
	//
	return p.TileSizes[level]
}

// InterchangeAt returns the interchange permutation for a given level, or an
// empty permutation if the configuration declares none for it.
func (p *TilingConfig) InterchangeAt(level TilingLevel) []int64 {
	if uint(level) >= uint(len(p.TileInterchange)) {
		return nil
	}
	//
	return p.TileInterchange[level]
}

// IsValidInterchange checks whether a given interchange is a permutation of
// [0, numLoops).  An empty interchange is trivially valid.
func IsValidInterchange(interchange []int64, numLoops int) bool {
	if len(interchange) == 0 {
		return true
	}
	//
	seen := make(map[int64]bool, len(interchange))
	//
	for _, index := range interchange {
		seen[index] = true
	}
	//
	for i := 0; i < numLoops; i++ {
		if !seen[int64(i)] {
			return false
		}
	}
	// Every index in [0, numLoops) is present; duplicates or out-of-range
	// entries necessarily leave some index uncovered.
	return len(interchange) == numLoops
}
