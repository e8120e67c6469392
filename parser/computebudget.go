package parser

import (
	"encoding/binary"

	"github.com/soltxs/soltxs-go/normalizer"
)

// Compute Budget instructions: 1-byte discriminant, little-endian fields.

type ComputeBudgetRequestHeapFrame struct {
	InstructionBase
	Bytes uint32
}

type ComputeBudgetSetComputeUnitLimit struct {
	InstructionBase
	ComputeUnitLimit uint32
}

type ComputeBudgetSetComputeUnitPrice struct {
	InstructionBase
	MicroLamports uint64
}

type ComputeBudgetSetLoadedAccountsDataSizeLimit struct {
	InstructionBase
	Bytes uint32
}

type ComputeBudgetUnknown struct {
	InstructionBase
	Data []byte
}

type computeBudgetProgram struct{}

func newComputeBudgetProgram() *computeBudgetProgram { return &computeBudgetProgram{} }

func (*computeBudgetProgram) ID() string   { return COMPUTE_BUDGET_PROGRAM_ID.String() }
func (*computeBudgetProgram) Name() string { return "ComputeBudget" }

func (cb *computeBudgetProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	data := ix.Data
	if len(data) < 1 {
		return cb.unknownInstruction(data), nil
	}

	base := func(name string) InstructionBase {
		return InstructionBase{ProgramID: cb.ID(), ProgramName: cb.Name(), InstructionName: name}
	}

	switch data[0] {
	case 1:
		if len(data) < 5 {
			return cb.unknownInstruction(data), nil
		}
		return &ComputeBudgetRequestHeapFrame{
			InstructionBase: base("RequestHeapFrame"),
			Bytes:           binary.LittleEndian.Uint32(data[1:5]),
		}, nil
	case 2:
		if len(data) < 5 {
			return cb.unknownInstruction(data), nil
		}
		return &ComputeBudgetSetComputeUnitLimit{
			InstructionBase:  base("SetComputeUnitLimit"),
			ComputeUnitLimit: binary.LittleEndian.Uint32(data[1:5]),
		}, nil
	case 3:
		if len(data) < 9 {
			return cb.unknownInstruction(data), nil
		}
		return &ComputeBudgetSetComputeUnitPrice{
			InstructionBase: base("SetComputeUnitPrice"),
			MicroLamports:   binary.LittleEndian.Uint64(data[1:9]),
		}, nil
	case 4:
		if len(data) < 5 {
			return cb.unknownInstruction(data), nil
		}
		return &ComputeBudgetSetLoadedAccountsDataSizeLimit{
			InstructionBase: base("SetLoadedAccountsDataSizeLimit"),
			Bytes:           binary.LittleEndian.Uint32(data[1:5]),
		}, nil
	default:
		return cb.unknownInstruction(data), nil
	}
}

func (cb *computeBudgetProgram) unknownInstruction(data []byte) *ComputeBudgetUnknown {
	return &ComputeBudgetUnknown{
		InstructionBase: InstructionBase{ProgramID: cb.ID(), ProgramName: cb.Name(), InstructionName: "Unknown"},
		Data:            data,
	}
}
