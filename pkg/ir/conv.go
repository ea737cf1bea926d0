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

// ConvLayout identifies one of the closed set of recognised 2-D convolution
// layouts.  Each layout fixes, by dimension position, where the spatial roles
// live in the operation's iteration space.  Higher-rank convolutions are
// deliberately outside this set and are rejected by shape-driven checks.
type ConvLayout uint8

const (
	// ConvLayoutUnknown indicates an operation whose layout matches none of
	// the recognised set.
	ConvLayoutUnknown ConvLayout = iota
	// ConvLayoutNhwcHwcf is the channel-last 2-D convolution, with loop order
	// N, OH, OW, OC, KH, KW, (IC).  Its depthwise variant shares the same
	// role positions.
	ConvLayoutNhwcHwcf
	// ConvLayoutNchwFchw is the channel-first 2-D convolution, with loop
	// order N, OC, OH, OW, (IC), KH, KW.
	ConvLayoutNchwFchw
)

// ConvRoles maps the semantic spatial roles of a convolution onto dimension
// indices of its iteration space.
type ConvRoles struct {
	KernelHeight uint
	KernelWidth  uint
	OutputHeight uint
	OutputWidth  uint
}

// Roles returns the role-to-dimension mapping for this layout, or false if
// the layout is not one of the recognised set.
func (l ConvLayout) Roles() (ConvRoles, bool) {
	switch l {
	case ConvLayoutNhwcHwcf:
		return ConvRoles{KernelHeight: 4, KernelWidth: 5, OutputHeight: 1, OutputWidth: 2}, true
	case ConvLayoutNchwFchw:
		return ConvRoles{KernelHeight: 5, KernelWidth: 6, OutputHeight: 2, OutputWidth: 3}, true
	default:
		return ConvRoles{}, false
	}
}

// String returns a human-readable name for this layout.
func (l ConvLayout) String() string {
	switch l {
	case ConvLayoutNhwcHwcf:
		return "conv_2d_nhwc_hwcf"
	case ConvLayoutNchwFchw:
		return "conv_2d_nchw_fchw"
	default:
		return "unknown"
	}
}
