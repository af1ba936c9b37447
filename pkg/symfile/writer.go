package symfile

import (
	"fmt"
	"io"

	"github.com/hitzhangjie/minisym/pkg/winframe"
)

// Dump re-emits the module in symbol file form: FILE records first, then
// FUNC records with their lines and parameters, PUBLIC records, STACK
// WIN records and STACK CFI records. Reparsing the output yields an
// equivalent module.
func (m *Module) Dump(w io.Writer) error {
	for _, f := range m.Files() {
		if _, err := fmt.Fprintf(w, "FILE %d %s\n", f.ID, f.Name); err != nil {
			return err
		}
	}

	var err error
	m.functions.Walk(func(base, size uint64, fn *Function) bool {
		if err = dumpFunction(w, fn); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	for _, pub := range m.PublicSymbols() {
		if _, err := fmt.Fprintf(w, "PUBLIC %x %x %s\n",
			pub.Address, pub.ParameterSize, pub.Name); err != nil {
			return err
		}
	}

	for typ := winframe.StackInfoType(0); typ < winframe.StackInfoLast; typ++ {
		m.windowsFrameInfo[typ].Walk(func(base, size uint64, fi *winframe.FrameInfo) bool {
			err = dumpWindowsFrameInfo(w, base, size, fi)
			return err == nil
		})
		if err != nil {
			return err
		}
	}

	m.cfiInitialRules.Walk(func(base, size uint64, rules string) bool {
		_, err = fmt.Fprintf(w, "STACK CFI INIT %x %x %s\n", base, size, rules)
		return err == nil
	})
	if err != nil {
		return err
	}

	m.cfiDeltaRules.Walk(0, ^uint64(0), func(addr uint64, rules string) bool {
		_, err = fmt.Fprintf(w, "STACK CFI %x %s\n", addr, rules)
		return err == nil
	})
	return err
}

func dumpFunction(w io.Writer, fn *Function) error {
	if _, err := fmt.Fprintf(w, "FUNC %x %x %x %s",
		fn.Address, fn.Size, fn.ParameterSize, fn.Name); err != nil {
		return err
	}
	if len(fn.Params) > 0 {
		if _, err := fmt.Fprintf(w, "#%x", len(fn.Params)); err != nil {
			return err
		}
		for _, p := range fn.Params {
			if _, err := fmt.Fprintf(w, "#%s@%x@%s@%s",
				p.TypeName, p.TypeSize, p.ParamName, dumpLocs(p)); err != nil {
				return err
			}
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	var err error
	fn.Lines.Walk(func(base, size uint64, line *Line) bool {
		_, err = fmt.Fprintf(w, "%x %x %d %d\n", line.Address, line.Size, line.Line, line.FileID)
		return err == nil
	})
	return err
}

func dumpLocs(p FuncParam) string {
	s := ""
	for i, loc := range p.Locs {
		if i > 0 {
			s += "$"
		}
		switch {
		case loc.Value2 != 0:
			s += fmt.Sprintf("%x:%x:%x", byte(loc.Code), loc.Value1, loc.Value2)
		case loc.Value1 != 0:
			s += fmt.Sprintf("%x:%x", byte(loc.Code), loc.Value1)
		default:
			s += fmt.Sprintf("%x", byte(loc.Code))
		}
	}
	return s
}

func dumpWindowsFrameInfo(w io.Writer, rva, codeSize uint64, fi *winframe.FrameInfo) error {
	hasProgram := 0
	tail := "0"
	if fi.ProgramString != "" {
		hasProgram = 1
		tail = fi.ProgramString
	} else if fi.AllocatesBasePointer {
		tail = "1"
	}
	_, err := fmt.Fprintf(w, "STACK WIN %x %x %x %x %x %x %x %x %x %x %s\n",
		int(fi.Type), rva, codeSize, fi.PrologSize, fi.EpilogSize,
		fi.ParameterSize, fi.SavedRegisterSize, fi.LocalSize,
		fi.MaxStackSize, hasProgram, tail)
	return err
}
