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
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go-tilery",
	Short: "A lowering-strategy toolbox for tensor computations on CPU targets.",
	Long: `A toolbox for selecting, verifying and sequencing code-generation
strategies which lower tensor computations onto CPU targets.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("go-tilery ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main(), and only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("check-ir-before-conversion", true,
		"check the lowered form before final conversion")
	rootCmd.PersistentFlags().Bool("check-vectorization", false,
		"report any structured operation left unvectorized")
	rootCmd.PersistentFlags().Bool("enable-hoist-padding", false,
		"hoist padded buffers out of their loop nests")
	rootCmd.PersistentFlags().Bool("enable-microkernels", false,
		"lower recognised patterns to microkernel calls (experimental)")
	rootCmd.PersistentFlags().String("schedule-file", "",
		"externally authored transformation schedule to apply")
	rootCmd.PersistentFlags().Bool("peel", false, "peel partial tiles during vectorization")
	rootCmd.PersistentFlags().Bool("avx2", false,
		"force the AVX2 transpose lowering (default follows the host)")
}
