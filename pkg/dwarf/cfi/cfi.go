// Package cfi accumulates DWARF call frame information rule sets of the
// form emitted by symbol dumpers:
//
//	.cfa: rsp 8 + .ra: .cfa -8 ^ rbx: .cfa -16 ^
//
// Each rule binds a name (the canonical frame address, the return
// address, or a callee-saved register) to a postfix expression the stack
// walker evaluates when recovering the caller frame. The expressions are
// opaque here.
package cfi

import (
	"sort"
	"strings"
)

// FrameInfo holds the register recovery rules in effect at one
// instruction address.
type FrameInfo struct {
	// CFA computes the canonical frame address of the frame.
	CFA string
	// RA computes the address the frame returns to.
	RA string
	// Registers maps callee-saved register names to their recovery
	// expressions.
	Registers map[string]string
}

// NewFrameInfo returns a FrameInfo with no rules bound.
func NewFrameInfo() *FrameInfo {
	return &FrameInfo{Registers: make(map[string]string)}
}

// Apply parses ruleSet and overlays its bindings onto f. Bindings for a
// name already present replace the earlier ones, which is how delta
// records refine the rules established by an INIT record. It returns
// false and leaves f partially updated if the set is garbled: expression
// tokens before the first name, or a name with an empty expression.
func (f *FrameInfo) Apply(ruleSet string) bool {
	name := ""
	var exprParts []string

	flush := func() bool {
		if name == "" {
			return len(exprParts) == 0
		}
		if len(exprParts) == 0 {
			return false
		}
		f.bind(name, strings.Join(exprParts, " "))
		return true
	}

	for _, token := range strings.Fields(ruleSet) {
		if strings.HasSuffix(token, ":") {
			if token == ":" {
				return false
			}
			if !flush() {
				return false
			}
			name = strings.TrimSuffix(token, ":")
			exprParts = exprParts[:0]
		} else {
			exprParts = append(exprParts, token)
		}
	}

	// A trailing name with no expression fails, and so does a set with
	// no rules at all.
	if name == "" {
		return false
	}
	return flush()
}

func (f *FrameInfo) bind(name, expression string) {
	switch name {
	case ".cfa":
		f.CFA = expression
	case ".ra":
		f.RA = expression
	default:
		if f.Registers == nil {
			f.Registers = make(map[string]string)
		}
		f.Registers[name] = expression
	}
}

// String serializes the rules in the symbol file form: .cfa first, then
// .ra, then registers in name order.
func (f *FrameInfo) String() string {
	var parts []string
	if f.CFA != "" {
		parts = append(parts, ".cfa: "+f.CFA)
	}
	if f.RA != "" {
		parts = append(parts, ".ra: "+f.RA)
	}

	names := make([]string, 0, len(f.Registers))
	for name := range f.Registers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+": "+f.Registers[name])
	}
	return strings.Join(parts, " ")
}
