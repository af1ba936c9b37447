package explore

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show lookup counters for this session",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	Run: func(cmd *cobra.Command, args []string) {
		stats := Module.Stats()
		fmt.Printf("lookups:      %d\n", stats.Lookups)
		fmt.Printf("func hits:    %d\n", stats.FuncHits)
		fmt.Printf("public hits:  %d\n", stats.PublicHits)
		fmt.Printf("cfi hits:     %d\n", stats.CFIHits)
		fmt.Printf("windows hits: %d\n", stats.WindowsHits)
	},
}

func init() {
	exploreRootCmd.AddCommand(statsCmd)
}
