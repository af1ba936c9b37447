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

	"github.com/hitzhangjie/minisym/cmd/explore"
)

var exploreBase string

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore <symbolfile>",
	Short: "interactively query a symbol file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, err := loadSymbolFile(args[0])
		if err != nil {
			return err
		}

		base, err := parseAddress(exploreBase)
		if err != nil {
			return fmt.Errorf("invalid module base %q: %v", exploreBase, err)
		}

		explore.Module = module
		explore.ModuleBase = base
		if module.IsCorrupt() {
			fmt.Printf("warning: %s dropped records during parsing\n", module.Name())
		}
		return nil
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		explore.CurrentSession = explore.NewSession()
		explore.CurrentSession.Start()
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exploreBase, "base", "0", "module load base address, hex")
}
