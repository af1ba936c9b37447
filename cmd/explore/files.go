package explore

import (
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "list the source files referenced by line records",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSymbols,
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range Module.Files() {
			fmt.Printf("%4d %s\n", f.ID, f.Name)
		}
	},
}

func init() {
	exploreRootCmd.AddCommand(filesCmd)
}
