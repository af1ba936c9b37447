// Package op defines the DWARF location expression opcodes understood by
// the expression evaluator.
//
// see DWARFv4 7.7.1 location expression encodings
package op

import "fmt"

// Opcode is a single DWARF expression opcode byte.
type Opcode byte

const (
	DW_OP_addr Opcode = 0x03

	DW_OP_deref Opcode = 0x06

	DW_OP_const1u Opcode = 0x08
	DW_OP_const1s Opcode = 0x09
	DW_OP_const2u Opcode = 0x0a
	DW_OP_const2s Opcode = 0x0b
	DW_OP_const4u Opcode = 0x0c
	DW_OP_const4s Opcode = 0x0d
	DW_OP_const8u Opcode = 0x0e
	DW_OP_const8s Opcode = 0x0f

	DW_OP_dup    Opcode = 0x12
	DW_OP_drop   Opcode = 0x13
	DW_OP_over   Opcode = 0x14
	DW_OP_pick   Opcode = 0x15
	DW_OP_swap   Opcode = 0x16
	DW_OP_rot    Opcode = 0x17
	DW_OP_xderef Opcode = 0x18

	// DW_OP_lit0..DW_OP_lit31 push the literal 0..31.
	DW_OP_lit0  Opcode = 0x30
	DW_OP_lit31 Opcode = 0x4f

	// DW_OP_reg0..DW_OP_reg31 name the register directly.
	DW_OP_reg0  Opcode = 0x50
	DW_OP_reg31 Opcode = 0x6f

	// DW_OP_breg0..DW_OP_breg31 add a signed offset to a register.
	DW_OP_breg0  Opcode = 0x70
	DW_OP_breg31 Opcode = 0x8f

	DW_OP_regx        Opcode = 0x90
	DW_OP_fbreg       Opcode = 0x91
	DW_OP_bregx       Opcode = 0x92
	DW_OP_piece       Opcode = 0x93
	DW_OP_deref_size  Opcode = 0x94
	DW_OP_xderef_size Opcode = 0x95
	DW_OP_nop         Opcode = 0x96
)

// String renders the opcode for diagnostics.
func (o Opcode) String() string {
	switch {
	case o >= DW_OP_lit0 && o <= DW_OP_lit31:
		return fmt.Sprintf("DW_OP_lit%d", o-DW_OP_lit0)
	case o >= DW_OP_reg0 && o <= DW_OP_reg31:
		return fmt.Sprintf("DW_OP_reg%d", o-DW_OP_reg0)
	case o >= DW_OP_breg0 && o <= DW_OP_breg31:
		return fmt.Sprintf("DW_OP_breg%d", o-DW_OP_breg0)
	}

	switch o {
	case DW_OP_addr:
		return "DW_OP_addr"
	case DW_OP_deref:
		return "DW_OP_deref"
	case DW_OP_const1u:
		return "DW_OP_const1u"
	case DW_OP_const1s:
		return "DW_OP_const1s"
	case DW_OP_const2u:
		return "DW_OP_const2u"
	case DW_OP_const2s:
		return "DW_OP_const2s"
	case DW_OP_const4u:
		return "DW_OP_const4u"
	case DW_OP_const4s:
		return "DW_OP_const4s"
	case DW_OP_const8u:
		return "DW_OP_const8u"
	case DW_OP_const8s:
		return "DW_OP_const8s"
	case DW_OP_dup:
		return "DW_OP_dup"
	case DW_OP_drop:
		return "DW_OP_drop"
	case DW_OP_over:
		return "DW_OP_over"
	case DW_OP_pick:
		return "DW_OP_pick"
	case DW_OP_swap:
		return "DW_OP_swap"
	case DW_OP_rot:
		return "DW_OP_rot"
	case DW_OP_xderef:
		return "DW_OP_xderef"
	case DW_OP_regx:
		return "DW_OP_regx"
	case DW_OP_fbreg:
		return "DW_OP_fbreg"
	case DW_OP_bregx:
		return "DW_OP_bregx"
	case DW_OP_piece:
		return "DW_OP_piece"
	case DW_OP_deref_size:
		return "DW_OP_deref_size"
	case DW_OP_xderef_size:
		return "DW_OP_xderef_size"
	case DW_OP_nop:
		return "DW_OP_nop"
	}
	return fmt.Sprintf("DW_OP_unknown(%#x)", byte(o))
}
