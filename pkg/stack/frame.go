// Package stack defines the contracts between the symbol module and the
// stack walker that drives it: the frame being symbolicated, the register
// state captured at crash time, and read access to the crash memory
// image.
package stack

// Registers exposes the thread context of the frame in the DWARF register
// numbering of the module's architecture.
type Registers interface {
	// Get returns the value of register n, or false when the context
	// does not carry it.
	Get(n int) (uint64, bool)
	// FrameBase returns the frame base address established for this
	// frame, or 0 when the walker could not recover one.
	FrameBase() uint64
}

// MemoryRegion reads bytes out of the crash memory image. Reads of
// unmapped addresses report false; implementations never panic.
type MemoryRegion interface {
	ReadUint8(addr uint64) (byte, bool)
	ReadUint64(addr uint64) (uint64, bool)
}

// ParamInfo is one recovered function parameter: its declared type, its
// name, and a formatted rendering of the bytes found in the live frame.
type ParamInfo struct {
	TypeName  string
	ParamName string
	TypeSize  uint64
	Value     string
}

// Frame is one entry of a reconstructed call stack. The walker fills
// Instruction, ModuleBase and Regs; the symbol module fills the rest
// during lookup, leaving fields untouched when it has nothing better.
type Frame struct {
	// Instruction is the absolute address of the sampled instruction,
	// typically the return address minus one for non-leaf frames.
	Instruction uint64
	// ModuleBase is the load address of the module covering
	// Instruction.
	ModuleBase uint64
	// Regs is the register context, nil when unavailable.
	Regs Registers

	FunctionName   string
	FunctionBase   uint64
	SourceFileName string
	SourceLine     int
	SourceLineBase uint64
	Params         []ParamInfo
}

// RegValue implements the expression evaluator's frame contract on top
// of Regs.
func (f *Frame) RegValue(n int) (uint64, bool) {
	if f.Regs == nil {
		return 0, false
	}
	return f.Regs.Get(n)
}

// FrameBase returns the frame base from the register context, or 0.
func (f *Frame) FrameBase() uint64 {
	if f.Regs == nil {
		return 0
	}
	return f.Regs.FrameBase()
}
