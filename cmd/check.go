/*
Copyright © 2021 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/minisym/pkg/winframe"
)

var checkStrict bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <symbolfile>",
	Short: "parse a symbol file and report what it contains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, err := loadSymbolFile(args[0])
		if err != nil {
			return err
		}

		initial, delta := module.CFIRuleCounts()
		fmt.Printf("module: %s\n", module.Name())
		fmt.Printf("  files:            %d\n", len(module.Files()))
		fmt.Printf("  functions:        %d\n", len(module.Functions()))
		fmt.Printf("  public symbols:   %d\n", len(module.PublicSymbols()))
		fmt.Printf("  stack win fpo:    %d\n", module.WindowsFrameInfoCount(winframe.StackInfoFPO))
		fmt.Printf("  stack win fdata:  %d\n", module.WindowsFrameInfoCount(winframe.StackInfoFrameData))
		fmt.Printf("  cfi init ranges:  %d\n", initial)
		fmt.Printf("  cfi delta rules:  %d\n", delta)
		fmt.Printf("  corrupt:          %v\n", module.IsCorrupt())

		if checkStrict && module.IsCorrupt() {
			return fmt.Errorf("symbol file %s dropped records during parsing", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when any record was dropped")
}
