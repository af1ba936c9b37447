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

	"github.com/ianlancetaylor/demangle"
	"github.com/spf13/cobra"

	"github.com/hitzhangjie/minisym/pkg/stack"
)

var (
	resolveBase     string
	resolveDemangle bool
	resolveCFI      bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <symbolfile> <address>...",
	Short: "resolve addresses to function, source file and line",
	Long: `resolve addresses to function, source file and line.

Addresses are hex, with or without the 0x prefix, and are interpreted
relative to --base (so pass raw program counters together with the
module's load address, or module-relative offsets with the default base
of 0).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, err := loadSymbolFile(args[0])
		if err != nil {
			return err
		}

		base, err := parseAddress(resolveBase)
		if err != nil {
			return fmt.Errorf("invalid module base %q: %v", resolveBase, err)
		}

		for _, arg := range args[1:] {
			address, err := parseAddress(arg)
			if err != nil {
				return fmt.Errorf("invalid address %q: %v", arg, err)
			}

			frame := &stack.Frame{Instruction: address, ModuleBase: base}
			module.LookupAddress(nil, frame)
			printFrame(arg, frame)

			if resolveCFI {
				if fi := module.FindCFIFrameInfo(frame); fi != nil {
					fmt.Printf("    cfi: %s\n", fi)
				}
			}
		}
		return nil
	},
}

func printFrame(arg string, frame *stack.Frame) {
	if frame.FunctionName == "" {
		fmt.Printf("%s: ??\n", arg)
		return
	}

	name := frame.FunctionName
	if resolveDemangle {
		if d, err := demangle.ToString(name); err == nil {
			name = d
		}
	}

	if frame.SourceFileName != "" {
		fmt.Printf("%s: %s at %s:%d\n", arg, name, frame.SourceFileName, frame.SourceLine)
		return
	}
	fmt.Printf("%s: %s + 0x%x\n", arg, name, frame.Instruction-frame.FunctionBase)
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveBase, "base", "0", "module load base address, hex")
	resolveCmd.Flags().BoolVar(&resolveDemangle, "demangle", false, "demangle function names")
	resolveCmd.Flags().BoolVar(&resolveCFI, "cfi", false, "print CFI unwind rules for each address")
}
