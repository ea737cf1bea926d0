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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tilery/go-tilery/pkg/ir"
	"github.com/tilery/go-tilery/pkg/pipeline"
)

// lowerCmd represents the lower command
var lowerCmd = &cobra.Command{
	Use:   "lower [flags] op_file",
	Short: "Lower the operations in a given operation file.",
	Long: `Lower the operations in a given operation file: verify each unit's
	configuration against its chosen strategy, construct the strategy's stage
	sequence, run it, and link the lowered units.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			plans        = readOpFile(args[0])
			runner       = &pipeline.TraceRunner{}
			orchestrator = pipeline.NewOrchestrator(featureFlags(cmd), buildOptions(cmd), runner)
			lowered      []*ir.Unit
			failed       bool
		)
		// Lower each unit independently; a rejection terminates that unit
		// only.
		for _, plan := range plans {
			unit, diags, err := orchestrator.LowerUnit(plan)
			//
			reportDiagnostics(diags)
			//
			if err != nil {
				log.Errorf("%v", err)
				//
				failed = true

				continue
			}
			//
			lowered = append(lowered, unit)
			log.Infof("lowered unit %s (%s)", unit.Name(), plan.Choice)
		}
		// Link whatever lowered successfully.
		if len(lowered) > 0 {
			program, diags, err := orchestrator.LinkExecutables(lowered...)
			//
			reportDiagnostics(diags)
			//
			if err != nil {
				log.Errorf("%v", err)
				os.Exit(1)
			}
			//
			log.Infof("linked %d units into %s", len(lowered), program.Name())
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

func reportDiagnostics(diags []pipeline.Diagnostic) {
	for _, diag := range diags {
		log.Warnf("%s: %s", diag.Stage, diag.Message)
	}
}

func init() {
	rootCmd.AddCommand(lowerCmd)
}
