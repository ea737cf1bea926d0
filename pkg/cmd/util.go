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
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilery/go-tilery/pkg/opfile"
	"github.com/tilery/go-tilery/pkg/pipeline"
	"github.com/tilery/go-tilery/pkg/strategy"
	"github.com/tilery/go-tilery/pkg/target"
)

// GetFlag gets an expected flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// featureFlags resolves the process-wide feature flags from the command
// line.  This happens exactly once, before any pipeline is built.
func featureFlags(cmd *cobra.Command) strategy.FeatureFlags {
	flags := strategy.DefaultFeatureFlags()
	flags.CheckIRBeforeConversion = GetFlag(cmd, "check-ir-before-conversion")
	flags.CheckVectorization = GetFlag(cmd, "check-vectorization")
	flags.EnableHoistPadding = GetFlag(cmd, "enable-hoist-padding")
	flags.EnableMicrokernels = GetFlag(cmd, "enable-microkernels")
	flags.ScheduleFile = GetString(cmd, "schedule-file")
	//
	return flags
}

// buildOptions resolves the per-strategy build parameters, defaulting the
// transpose lowering technique from the host's feature set.
func buildOptions(cmd *cobra.Command) pipeline.BuildOptions {
	opts := pipeline.DefaultBuildOptions()
	opts.EnablePeeling = GetFlag(cmd, "peel")
	opts.LowerToAVX2 = GetFlag(cmd, "avx2") || target.HostFeatures().LowerTransposeToAVX2()
	//
	return opts
}

// readOpFile parses an operation file into unit plans, exiting on failure.
func readOpFile(filename string) []pipeline.UnitPlan {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		var plans []pipeline.UnitPlan
		//
		plans, err = opfile.UnitPlansFromJson(bytes)
		if err == nil {
			return plans
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}
