package explore

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/minisym/pkg/stack"
)

var cfiCmd = &cobra.Command{
	Use:   "cfi <address>",
	Short: "show the CFI register recovery rules at an address",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupUnwind,
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
		fi := Module.FindCFIFrameInfo(frame)
		if fi == nil {
			fmt.Println("no CFI covers this address")
			return nil
		}
		fmt.Println(fi)
		return nil
	},
}

func init() {
	exploreRootCmd.AddCommand(cfiCmd)
}
