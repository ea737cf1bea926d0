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

import "fmt"

// Choice names which lowering pipeline to run for an operation.  A choice is
// paired with an optional workgroup-size hardware hint, which every CPU
// strategy requires to be empty.
type Choice uint

const (
	// CPUDefault runs distribution and bufferization only.
	CPUDefault Choice = iota
	// CPUBufferOpsTileAndVectorize single-level tiles and vectorizes; meant
	// for units containing only buffer copies.
	CPUBufferOpsTileAndVectorize
	// CPUDoubleTilingExpert tiles parallel then reduction dimensions before
	// vectorizing.
	CPUDoubleTilingExpert
	// CPUDoubleTilingPadExpert is the padding-aware variant of
	// CPUDoubleTilingExpert.
	CPUDoubleTilingPadExpert
	// CPUMultiTilingExpert fuses across an arbitrary number of tiling
	// levels before vectorizing.
	CPUMultiTilingExpert
	// CPUConvTileAndDecomposeExpert tiles a convolution and decomposes it
	// into a lower-dimensional form.
	CPUConvTileAndDecomposeExpert
	// CPUAArch64DoubleTilingExpert is the AArch64-specific double tiling
	// pipeline with dedicated vector lowering.
	CPUAArch64DoubleTilingExpert
	// VMVXDefault targets the portable microkernel runtime.
	VMVXDefault
	// TransformDialectInterpreter applies an externally authored
	// transformation schedule instead of a built-in pipeline.
	TransformDialectInterpreter
)

// String returns the canonical name of this strategy choice.
func (c Choice) String() string {
	switch c {
	case CPUDefault:
		return "CPUDefault"
	case CPUBufferOpsTileAndVectorize:
		return "CPUBufferOpsTileAndVectorize"
	case CPUDoubleTilingExpert:
		return "CPUDoubleTilingExpert"
	case CPUDoubleTilingPadExpert:
		return "CPUDoubleTilingPadExpert"
	case CPUMultiTilingExpert:
		return "CPUMultiTilingExpert"
	case CPUConvTileAndDecomposeExpert:
		return "CPUConvTileAndDecomposeExpert"
	case CPUAArch64DoubleTilingExpert:
		return "CPUAArch64DoubleTilingExpert"
	case VMVXDefault:
		return "VMVXDefault"
	case TransformDialectInterpreter:
		return "TransformDialectInterpreter"
	default:
		return fmt.Sprintf("Choice(%d)", uint(c))
	}
}

// ParseChoice maps a canonical strategy name back to its tag.
func ParseChoice(name string) (Choice, error) {
	for c := CPUDefault; c <= TransformDialectInterpreter; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	//
	return 0, fmt.Errorf("unknown translation strategy %q", name)
}
