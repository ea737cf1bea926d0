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

	"github.com/tilery/go-tilery/pkg/strategy"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [flags] op_file",
	Short: "Verify the lowering configurations in a given operation file.",
	Long: `Verify each operation's lowering configuration against its unit's
	chosen strategy, without constructing or running any pipeline.  Exits
	with status 1 if any configuration is rejected.`,
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
			plans    = readOpFile(args[0])
			rejected uint
		)
		//
		for _, plan := range plans {
			for i, op := range plan.Unit.Operations() {
				err := strategy.VerifyLoweringConfig(op, plan.Configs[i], plan.Choice, plan.WorkgroupSize)
				//
				if err != nil {
					log.Errorf("unit %s: %v", plan.Unit.Name(), err)
					//
					rejected++
				}
			}
		}
		//
		if rejected > 0 {
			fmt.Printf("rejected %d configurations\n", rejected)
			os.Exit(1)
		}
		//
		fmt.Println("all configurations accepted")
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
