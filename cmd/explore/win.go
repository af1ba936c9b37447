package explore

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/minisym/pkg/stack"
	"github.com/hitzhangjie/minisym/pkg/winframe"
)

var winCmd = &cobra.Command{
	Use:   "win <address>",
	Short: "show the MSVC frame info at an address",
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
		fi := Module.FindWindowsFrameInfo(frame)
		if fi == nil {
			fmt.Println("no frame info covers this address")
			return nil
		}

		if fi.Valid == winframe.ValidParameterSize {
			fmt.Printf("parameter size: %#x (from FUNC record)\n", fi.ParameterSize)
			return nil
		}
		fmt.Printf("type: %d\n", fi.Type)
		fmt.Printf("prolog/epilog size: %#x/%#x\n", fi.PrologSize, fi.EpilogSize)
		fmt.Printf("parameter size: %#x\n", fi.ParameterSize)
		fmt.Printf("saved regs/locals: %#x/%#x\n", fi.SavedRegisterSize, fi.LocalSize)
		if fi.ProgramString != "" {
			fmt.Printf("program: %s\n", fi.ProgramString)
		} else {
			fmt.Printf("allocates base pointer: %v\n", fi.AllocatesBasePointer)
		}
		return nil
	},
}

func init() {
	exploreRootCmd.AddCommand(winCmd)
}
