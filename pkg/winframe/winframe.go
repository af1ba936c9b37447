// Package winframe models MSVC stack frame info as dumped into STACK WIN
// records: classic FPO_DATA entries and the newer FrameData entries that
// carry their own unwind program string.
package winframe

import (
	"strconv"

	"github.com/hitzhangjie/minisym/pkg/textutil"
)

// StackInfoType tags which debug stream a record came from.
type StackInfoType int

const (
	StackInfoFPO StackInfoType = iota
	StackInfoTrap
	StackInfoTSS
	StackInfoStandard
	StackInfoFrameData

	// StackInfoLast bounds the per-type indices.
	StackInfoLast
)

// Validity marks which FrameInfo fields carry real data. A record built
// from a STACK WIN line has everything; one synthesized from a FUNC
// record only knows the parameter size.
type Validity int

const (
	ValidNone          Validity = 0
	ValidAll           Validity = -1
	ValidParameterSize Validity = 1
)

// FrameInfo is the unwind information for one code range.
type FrameInfo struct {
	Type  StackInfoType
	Valid Validity

	PrologSize        uint32
	EpilogSize        uint32
	ParameterSize     uint32
	SavedRegisterSize uint32
	LocalSize         uint32
	MaxStackSize      uint32

	// AllocatesBasePointer is meaningful only when ProgramString is
	// empty; otherwise the program computes the frame layout.
	AllocatesBasePointer bool
	ProgramString        string
}

// CopyFrom replaces f's contents with those of other.
func (f *FrameInfo) CopyFrom(other *FrameInfo) {
	*f = *other
}

// ParseFromString decodes the payload of a STACK WIN record, everything
// after the "STACK WIN " prefix:
//
//	<type> <rva> <code_size> <prolog> <epilog> <params> <saved_regs>
//	<locals> <max_stack> <has_program> <program|allocates_base_pointer>
//
// All fields are hex. When has_program is non-zero the tail is the unwind
// program string, which may itself contain spaces. It returns the decoded
// record and the code range it covers, or ok false for an unknown type
// tag or a garbled line.
func ParseFromString(payload string) (fi *FrameInfo, rva, codeSize uint64, ok bool) {
	tokens, ok := textutil.Tokenize(payload, textutil.Whitespace, 11)
	if !ok {
		return nil, 0, 0, false
	}

	typ, err := strconv.ParseUint(tokens[0], 16, 8)
	if err != nil || StackInfoType(typ) >= StackInfoLast {
		return nil, 0, 0, false
	}

	var fields [8]uint64
	for i := range fields {
		fields[i], err = strconv.ParseUint(tokens[i+1], 16, 64)
		if err != nil {
			return nil, 0, 0, false
		}
	}
	hasProgram, err := strconv.ParseUint(tokens[9], 16, 64)
	if err != nil {
		return nil, 0, 0, false
	}

	fi = &FrameInfo{
		Type:              StackInfoType(typ),
		Valid:             ValidAll,
		PrologSize:        uint32(fields[2]),
		EpilogSize:        uint32(fields[3]),
		ParameterSize:     uint32(fields[4]),
		SavedRegisterSize: uint32(fields[5]),
		LocalSize:         uint32(fields[6]),
		MaxStackSize:      uint32(fields[7]),
	}
	if hasProgram != 0 {
		fi.ProgramString = tokens[10]
	} else {
		allocatesBP, err := strconv.ParseUint(tokens[10], 16, 64)
		if err != nil {
			return nil, 0, 0, false
		}
		fi.AllocatesBasePointer = allocatesBP != 0
	}

	return fi, fields[0], fields[1], true
}
