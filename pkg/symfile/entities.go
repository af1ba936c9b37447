// Package symfile holds the in-memory model of one binary module's
// symbols and unwind information, loaded from a textual symbol file, and
// the lookups a post-mortem stack walker needs: address to function and
// source line, parameter recovery, and CFI / Windows frame info
// retrieval.
package symfile

import (
	"github.com/hitzhangjie/minisym/pkg/dwarf/expr"
	"github.com/hitzhangjie/minisym/pkg/rangemap"
)

// File is one FILE record: a source file referenced by line records
// through its id.
type File struct {
	ID   int
	Name string
}

// Line maps [Address, Address+Size) to a line of a source file. Lines
// belong to a function and never overlap within it.
type Line struct {
	Address uint64
	Size    uint64
	FileID  int
	Line    int
}

// FuncParam is one formal parameter of a function together with the
// location expression that finds its storage in a live frame.
type FuncParam struct {
	TypeName  string
	ParamName string
	TypeSize  uint64
	Locs      []expr.Op
}

// Function is one FUNC record plus the line records that followed it.
type Function struct {
	Name    string
	Address uint64
	Size    uint64
	// ParameterSize is the stack space consumed by the function's
	// parameters, in bytes.
	ParameterSize int
	Lines         *rangemap.RangeMap[*Line]
	Params        []FuncParam
}

func newFunction(name string, address, size uint64, parameterSize int, params []FuncParam) *Function {
	return &Function{
		Name:          name,
		Address:       address,
		Size:          size,
		ParameterSize: parameterSize,
		Lines:         rangemap.NewRangeMap[*Line](),
		Params:        params,
	}
}

// PublicSymbol is one PUBLIC record: an exported name with no size or
// line information.
type PublicSymbol struct {
	Name          string
	Address       uint64
	ParameterSize int
}
