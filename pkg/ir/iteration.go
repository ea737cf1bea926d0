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

// DimInfo describes one dimension of an operation's iteration space.
type DimInfo struct {
	// Kind classifies the dimension as parallel or reduction.
	Kind IteratorKind
	// Extent is the static trip count, or DimUnknown.
	Extent int64
}

// Classify extracts the per-dimension iterator kind and static extent of an
// operation's iteration space.  The second result is false when the
// operation exposes no loop structure, in which case kind-based checks are
// not applicable to it.
func Classify(op Operation) ([]DimInfo, bool) {
	iface, ok := op.(TilingInterface)
	if !ok {
		return nil, false
	}
	//
	var (
		kinds  = iface.IteratorKinds()
		ranges = iface.StaticLoopRanges()
		dims   = make([]DimInfo, len(kinds))
	)
	//
	for i, kind := range kinds {
		dims[i] = DimInfo{kind, ranges[i]}
	}
	//
	return dims, true
}

// ParallelDims returns the set of dimension indices classified parallel,
// represented as a membership map.  The second result is false when the
// operation exposes no loop structure.
func ParallelDims(op Operation) (map[uint]bool, bool) {
	dims, ok := Classify(op)
	if !ok {
		return nil, false
	}
	//
	set := make(map[uint]bool)
	//
	for i, dim := range dims {
		if dim.Kind == Parallel {
			set[uint(i)] = true
		}
	}
	//
	return set, true
}
