package explore

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var funcsCmd = &cobra.Command{
	Use:     "funcs [substring]",
	Short:   "list FUNC and PUBLIC records, optionally filtered by name",
	Aliases: []string{"functions"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSymbols,
	},
	Run: func(cmd *cobra.Command, args []string) {
		filter := ""
		if len(args) != 0 {
			filter = args[0]
		}

		for _, fn := range Module.Functions() {
			if !strings.Contains(fn.Name, filter) {
				continue
			}
			fmt.Printf("FUNC   %#-12x %#-8x %s\n", fn.Address, fn.Size, fn.Name)
		}
		for _, pub := range Module.PublicSymbols() {
			if !strings.Contains(pub.Name, filter) {
				continue
			}
			fmt.Printf("PUBLIC %#-12x %-8s %s\n", pub.Address, "-", pub.Name)
		}
	},
}

func init() {
	exploreRootCmd.AddCommand(funcsCmd)
}
