package explore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/minisym/pkg/stack"
)

var lookupCmd = &cobra.Command{
	Use:     "lookup <address>",
	Short:   "resolve an address to function, source file and line",
	Aliases: []string{"l"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSymbols,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("expects one address")
		}
		address, err := parseAddress(args[0])
		if err != nil {
			return err
		}

		frame := &stack.Frame{Instruction: address, ModuleBase: ModuleBase}
		Module.LookupAddress(nil, frame)

		if frame.FunctionName == "" {
			fmt.Println("no symbol covers this address")
			return nil
		}
		fmt.Printf("function: %s (base %#x)\n", frame.FunctionName, frame.FunctionBase)
		if frame.SourceFileName != "" || frame.SourceLine != 0 {
			fmt.Printf("source:   %s:%d (line base %#x)\n",
				frame.SourceFileName, frame.SourceLine, frame.SourceLineBase)
		}
		return nil
	},
}

func init() {
	exploreRootCmd.AddCommand(lookupCmd)
}

// parseAddress converts a hex string in either 0xABC123 or ABC123 form.
func parseAddress(addr string) (uint64, error) {
	addr = strings.TrimPrefix(addr, "0x")
	return strconv.ParseUint(addr, 16, 64)
}
