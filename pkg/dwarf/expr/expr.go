// Package expr evaluates DWARF location expressions against a live stack
// frame and crash memory to recover where a variable is stored.
package expr

import (
	"github.com/hitzhangjie/minisym/pkg/dwarf/op"
	"github.com/hitzhangjie/minisym/pkg/log"
)

// Op is one parsed location expression opcode. Value1/Value2 carry the
// operands the symbol file supplied for it, if any.
type Op struct {
	Code   op.Opcode
	Value1 uint64
	Value2 uint64
}

// Frame supplies register values and the frame base of the frame the
// expression is evaluated in.
type Frame interface {
	// RegValue returns the value of register n in the DWARF numbering
	// for the module's architecture.
	RegValue(n int) (uint64, bool)
	// FrameBase returns the frame base address, or 0 when unknown.
	FrameBase() uint64
}

// Memory reads 8 bytes from the crash image.
type Memory interface {
	ReadUint64(addr uint64) (uint64, bool)
}

// Eval runs program on a stack of uint64 and returns the value left on
// top, normally the address of the variable the expression locates.
// It returns 0 on stack underflow, on an unknown or unsupported opcode,
// and on a failed memory or register read; callers treat 0 as "no
// address".
func Eval(frame Frame, memory Memory, program []Op) uint64 {
	base := frame.FrameBase()
	if base == 0 {
		log.Errorf("dwarf expr: unexpected stack frame type, or invalid stack pointer")
	}

	var s []uint64
	for _, ins := range program {
		code := ins.Code

		switch {
		case code >= op.DW_OP_reg0 && code <= op.DW_OP_reg31:
			val, ok := frame.RegValue(int(code - op.DW_OP_reg0))
			if !ok {
				return 0
			}
			s = append(s, val)

		case code >= op.DW_OP_breg0 && code <= op.DW_OP_breg31:
			val, ok := frame.RegValue(int(code - op.DW_OP_breg0))
			if !ok {
				return 0
			}
			s = append(s, uint64(int64(val)+int64(ins.Value1)))

		case code >= op.DW_OP_lit0 && code <= op.DW_OP_lit31:
			s = append(s, uint64(code-op.DW_OP_lit0))

		default:
			switch code {
			case op.DW_OP_regx:
				val, ok := frame.RegValue(int(ins.Value1))
				if !ok {
					return 0
				}
				s = append(s, val)

			case op.DW_OP_fbreg:
				s = append(s, uint64(int64(base)+int64(ins.Value1)))

			case op.DW_OP_addr:
				s = append(s, ins.Value1)

			case op.DW_OP_const1u, op.DW_OP_const2u, op.DW_OP_const4u, op.DW_OP_const8u, op.DW_OP_const8s:
				s = append(s, ins.Value1)

			case op.DW_OP_const1s:
				s = append(s, uint64(int8(ins.Value1)))

			case op.DW_OP_const2s:
				s = append(s, uint64(int16(ins.Value1)))

			case op.DW_OP_const4s:
				s = append(s, uint64(int32(ins.Value1)))

			case op.DW_OP_deref:
				if len(s) == 0 {
					return 0
				}
				addr := s[len(s)-1]
				val, ok := memory.ReadUint64(addr)
				if !ok {
					return 0
				}
				s[len(s)-1] = val

			case op.DW_OP_dup:
				if len(s) == 0 {
					return 0
				}
				s = append(s, s[len(s)-1])

			case op.DW_OP_drop:
				if len(s) == 0 {
					return 0
				}
				s = s[:len(s)-1]

			case op.DW_OP_pick:
				if len(s) == 0 || uint64(len(s)-1) < ins.Value1 {
					return 0
				}
				s = append(s, s[uint64(len(s)-1)-ins.Value1])

			case op.DW_OP_over:
				if len(s) < 2 {
					return 0
				}
				s = append(s, s[len(s)-2])

			case op.DW_OP_swap:
				if len(s) < 2 {
					return 0
				}
				s[len(s)-1], s[len(s)-2] = s[len(s)-2], s[len(s)-1]

			case op.DW_OP_rot:
				if len(s) < 3 {
					return 0
				}
				s[len(s)-1], s[len(s)-3] = s[len(s)-3], s[len(s)-1]
				s[len(s)-1], s[len(s)-2] = s[len(s)-2], s[len(s)-1]

			default:
				// DW_OP_deref_size, DW_OP_xderef and friends are not
				// produced by the dumper; bail with the sentinel.
				return 0
			}
		}
	}

	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
