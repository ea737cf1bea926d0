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
package target

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features describes the instruction-set extensions of a CPU target which
// influence pipeline construction.
type Features struct {
	// HasAVX2 enables the AVX2 transpose-lowering variant.
	HasAVX2 bool
	// HasFMA indicates fused multiply-add support.
	HasFMA bool
	// IsAArch64 enables the AArch64-specific strategies.
	IsAArch64 bool
}

// HostFeatures probes the running host for the features relevant to
// strategy selection.
func HostFeatures() Features {
	return Features{
		HasAVX2:   cpu.X86.HasAVX2,
		HasFMA:    cpu.X86.HasFMA,
		IsAArch64: runtime.GOARCH == "arm64",
	}
}

// LowerTransposeToAVX2 reports whether the AVX2 transpose lowering is worth
// selecting: the technique relies on fused multiply-add being present
// alongside AVX2 itself.
func (f Features) LowerTransposeToAVX2() bool {
	return f.HasAVX2 && f.HasFMA
}
