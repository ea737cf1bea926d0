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

// FeatureFlags collects the process-wide switches which gate optional
// pipeline stages.  Flags are resolved once from external configuration
// before any pipeline is built and are read-only for the rest of the run;
// they are threaded as an explicit parameter, never read ambiently.
type FeatureFlags struct {
	// CheckIRBeforeConversion validates that no prohibited patterns (such
	// as oversized stack allocations) remain before final conversion.
	CheckIRBeforeConversion bool
	// CheckVectorization reports any structured operation left
	// unvectorized after the vectorization phase.
	CheckVectorization bool
	// EnableHoistPadding hoists padded buffers out of their loop nests.
	// Hoisted buffers intentionally allocate large stack regions, so this
	// flag also suppresses CheckIRBeforeConversion.
	EnableHoistPadding bool
	// EnableMicrokernels lowers recognised operation patterns to
	// microkernel calls under the VMVX strategy.
	EnableMicrokernels bool
	// ScheduleFile names an externally authored transformation schedule;
	// empty means no interpreter stage runs.
	ScheduleFile string
}

// DefaultFeatureFlags returns the documented defaults.
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		CheckIRBeforeConversion: true,
		CheckVectorization:      false,
		EnableHoistPadding:      false,
		EnableMicrokernels:      false,
		ScheduleFile:            "",
	}
}
