package expr

import (
	"testing"

	"github.com/hitzhangjie/minisym/pkg/dwarf/op"
)

type testFrame struct {
	regs map[int]uint64
	base uint64
}

func (f *testFrame) RegValue(n int) (uint64, bool) {
	v, ok := f.regs[n]
	return v, ok
}

func (f *testFrame) FrameBase() uint64 { return f.base }

type testMemory map[uint64]uint64

func (m testMemory) ReadUint64(addr uint64) (uint64, bool) {
	v, ok := m[addr]
	return v, ok
}

func TestEval(t *testing.T) {
	frame := &testFrame{
		regs: map[int]uint64{0: 7, 5: 0x2000, 36: 0xabcd},
		base: 0x7fff0000,
	}
	memory := testMemory{
		7:      0x2a,
		0x2000: 0x1111,
	}

	type testcase struct {
		name    string
		program []Op
		want    uint64
	}

	cases := []testcase{
		{"empty", nil, 0},
		{"reg0", []Op{{Code: op.DW_OP_reg0}}, 7},
		{"reg5", []Op{{Code: op.DW_OP_reg0 + 5}}, 0x2000},
		{"reg unknown", []Op{{Code: op.DW_OP_reg0 + 9}}, 0},
		{"regx", []Op{{Code: op.DW_OP_regx, Value1: 36}}, 0xabcd},
		{"breg positive", []Op{{Code: op.DW_OP_breg0 + 5, Value1: 0x10}}, 0x2010},
		{"breg negative", []Op{{Code: op.DW_OP_breg0 + 5, Value1: ^uint64(0) - 0xf}}, 0x1ff0},
		{"fbreg", []Op{{Code: op.DW_OP_fbreg, Value1: ^uint64(0) - 7}}, 0x7ffefff8},
		{"addr", []Op{{Code: op.DW_OP_addr, Value1: 0xdeadbeef}}, 0xdeadbeef},
		{"lit", []Op{{Code: op.DW_OP_lit0 + 17}}, 17},
		{"const1s", []Op{{Code: op.DW_OP_const1s, Value1: 0xff}}, ^uint64(0)},
		{"const2s", []Op{{Code: op.DW_OP_const2s, Value1: 0x8000}}, func() uint64 { v := int64(-0x8000); return uint64(v) }()},
		{"const4u", []Op{{Code: op.DW_OP_const4u, Value1: 0xffffffff}}, 0xffffffff},
		{"deref", []Op{{Code: op.DW_OP_reg0}, {Code: op.DW_OP_deref}}, 0x2a},
		{"deref bad addr", []Op{{Code: op.DW_OP_lit0 + 1}, {Code: op.DW_OP_deref}}, 0},
		{"deref underflow", []Op{{Code: op.DW_OP_deref}}, 0},
		{"dup", []Op{{Code: op.DW_OP_lit0 + 3}, {Code: op.DW_OP_dup}}, 3},
		{"drop", []Op{{Code: op.DW_OP_lit0 + 3}, {Code: op.DW_OP_lit0 + 4}, {Code: op.DW_OP_drop}}, 3},
		{"over", []Op{{Code: op.DW_OP_lit0 + 3}, {Code: op.DW_OP_lit0 + 4}, {Code: op.DW_OP_over}}, 3},
		{"swap", []Op{{Code: op.DW_OP_lit0 + 3}, {Code: op.DW_OP_lit0 + 4}, {Code: op.DW_OP_swap}}, 3},
		{"rot", []Op{
			{Code: op.DW_OP_lit0 + 1}, {Code: op.DW_OP_lit0 + 2}, {Code: op.DW_OP_lit0 + 3},
			{Code: op.DW_OP_rot},
		}, 2},
		{"pick", []Op{
			{Code: op.DW_OP_lit0 + 1}, {Code: op.DW_OP_lit0 + 2}, {Code: op.DW_OP_lit0 + 3},
			{Code: op.DW_OP_pick, Value1: 2},
		}, 1},
		{"pick out of range", []Op{{Code: op.DW_OP_lit0 + 1}, {Code: op.DW_OP_pick, Value1: 3}}, 0},
		{"unsupported deref_size", []Op{{Code: op.DW_OP_lit0 + 1}, {Code: op.DW_OP_deref_size, Value1: 4}}, 0},
		{"unknown opcode", []Op{{Code: 0x01}}, 0},
	}

	for _, tc := range cases {
		got := Eval(frame, memory, tc.program)
		if got != tc.want {
			t.Errorf("[%s] got %#x, expected %#x", tc.name, got, tc.want)
		}
	}
}

func TestEvalZeroFrameBase(t *testing.T) {
	// frame base 0 is logged but evaluation continues
	frame := &testFrame{regs: map[int]uint64{}, base: 0}
	got := Eval(frame, testMemory{}, []Op{{Code: op.DW_OP_fbreg, Value1: 0x20}})
	if got != 0x20 {
		t.Errorf("got %#x, expected 0x20", got)
	}
}
