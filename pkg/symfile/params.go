package symfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hitzhangjie/minisym/pkg/dwarf/expr"
	"github.com/hitzhangjie/minisym/pkg/log"
	"github.com/hitzhangjie/minisym/pkg/stack"
)

// readFuncParams recovers the live values of fn's parameters from the
// crash memory and appends them to frame.Params. A failed 8-byte read
// aborts the whole pass, keeping the parameters recovered so far: a
// partial read means the frame itself is suspect.
func (m *Module) readFuncParams(frame *stack.Frame, params []FuncParam, memory stack.MemoryRegion) {
	if memory == nil || len(params) == 0 {
		return
	}

	frame.Params = make([]stack.ParamInfo, 0, len(params))

	for _, p := range params {
		info := stack.ParamInfo{
			TypeName:  p.TypeName,
			ParamName: p.ParamName,
			TypeSize:  p.TypeSize,
		}

		if p.TypeSize == 0 {
			frame.Params = append(frame.Params, info)
			continue
		}

		addr := expr.Eval(frame, memory, p.Locs)
		if addr == 0 {
			log.Errorf("symfile %s: invalid location expression for func:%s, param:%s(%s)",
				m.name, frame.FunctionName, p.ParamName, p.TypeName)
			continue
		}

		value, ok := memory.ReadUint64(addr)
		if !ok {
			return
		}

		info.Value = formatParamValue(memory, p.TypeName, p.TypeSize, addr, value)
		frame.Params = append(frame.Params, info)
	}
}

// formatParamValue renders a parameter value for display. Even-sized
// scalars up to 8 bytes get a typed rendering first; every parameter
// gets a byte-by-byte hex dump of its storage. The typed decode assumes
// the dump and the host share byte order; foreign-endian dumps must be
// byte-swapped before they get here.
func formatParamValue(memory stack.MemoryRegion, typeName string, typeSize, addr, value uint64) string {
	var sb strings.Builder
	showSimpleType := false

	if typeSize%2 == 0 && typeSize <= 8 {
		switch {
		case strings.ContainsAny(typeName, "*&"):
			fmt.Fprintf(&sb, "0x%x", value)
		case strings.Contains(typeName, "float"):
			sb.WriteString(strconv.FormatFloat(float64(math.Float32frombits(uint32(value))), 'g', -1, 32))
		case strings.Contains(typeName, "double"):
			sb.WriteString(strconv.FormatFloat(math.Float64frombits(value), 'g', -1, 64))
		default:
			shift := (8 - typeSize) << 3
			mask := ^uint64(0) >> shift
			fmt.Fprintf(&sb, "0x%x", value&mask)
		}
		showSimpleType = true
	}

	if showSimpleType {
		sb.WriteString(", ")
	}
	sb.WriteString("hex:")
	for i := uint64(0); i < typeSize; i++ {
		b, _ := memory.ReadUint8(addr + i)
		fmt.Fprintf(&sb, " %02x", b)
	}

	return sb.String()
}
