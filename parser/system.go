package parser

import (
	"encoding/binary"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/soltxs/soltxs-go/normalizer"
)

// System Program instructions: 4-byte little-endian discriminant followed by
// bincode/borsh-compatible fields. Account roles are positional.

type SystemCreateAccount struct {
	InstructionBase
	FundingAccount string
	NewAccount     string
	Lamports       uint64
	Space          uint64
	Owner          string
}

type SystemAssign struct {
	InstructionBase
	Account string
	Owner   string
}

type SystemTransfer struct {
	InstructionBase
	FromAccount string
	ToAccount   string
	Lamports    uint64
}

type SystemCreateAccountWithSeed struct {
	InstructionBase
	FundingAccount string
	NewAccount     string
	BaseAccount    string
	Seed           string
	Lamports       uint64
	Space          uint64
	Owner          string
}

type SystemAdvanceNonceAccount struct {
	InstructionBase
	NonceAccount   string
	NonceAuthority string
}

type SystemWithdrawNonceAccount struct {
	InstructionBase
	NonceAccount       string
	DestinationAccount string
	NonceAuthority     string
	Lamports           uint64
}

type SystemAuthorizeNonceAccount struct {
	InstructionBase
	NonceAccount   string
	NonceAuthority string
	NewAuthority   string
}

type SystemAllocate struct {
	InstructionBase
	Account string
	Space   uint64
}

type SystemAllocateWithSeed struct {
	InstructionBase
	Account     string
	BaseAccount string
	Seed        string
	Space       uint64
	Owner       string
}

type SystemTransferWithSeed struct {
	InstructionBase
	SourceAccount      string
	DestinationAccount string
	Lamports           uint64
	Seed               string
	Owner              string
}

type SystemUnknown struct {
	InstructionBase
	Data []byte
}

type systemProgram struct{}

func newSystemProgram() *systemProgram { return &systemProgram{} }

func (*systemProgram) ID() string   { return SYSTEM_PROGRAM_ID.String() }
func (*systemProgram) Name() string { return "System Program" }

func (sp *systemProgram) base(name string) InstructionBase {
	return InstructionBase{ProgramID: sp.ID(), ProgramName: sp.Name(), InstructionName: name}
}

func (sp *systemProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	data := ix.Data
	if len(data) < 4 {
		return sp.unknownInstruction(data), nil
	}

	disc := binary.LittleEndian.Uint32(data[:4])
	dec := ag_binary.NewBorshDecoder(data[4:])

	switch disc {
	case 0:
		var lay struct {
			Lamports uint64
			Space    uint64
			Owner    solana.PublicKey
		}
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemCreateAccount{
			InstructionBase: sp.base("CreateAccount"),
			FundingAccount:  ctx.Account(ix, 0),
			NewAccount:      ctx.Account(ix, 1),
			Lamports:        lay.Lamports,
			Space:           lay.Space,
			Owner:           lay.Owner.String(),
		}, nil

	case 1:
		var lay struct{ Owner solana.PublicKey }
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemAssign{
			InstructionBase: sp.base("Assign"),
			Account:         ctx.Account(ix, 0),
			Owner:           lay.Owner.String(),
		}, nil

	case 2:
		var lay struct{ Lamports uint64 }
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemTransfer{
			InstructionBase: sp.base("Transfer"),
			FromAccount:     ctx.Account(ix, 0),
			ToAccount:       ctx.Account(ix, 1),
			Lamports:        lay.Lamports,
		}, nil

	case 3:
		var lay struct {
			Base     solana.PublicKey
			Seed     string
			Lamports uint64
			Space    uint64
			Owner    solana.PublicKey
		}
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemCreateAccountWithSeed{
			InstructionBase: sp.base("CreateAccountWithSeed"),
			FundingAccount:  ctx.Account(ix, 0),
			NewAccount:      ctx.Account(ix, 1),
			BaseAccount:     lay.Base.String(),
			Seed:            lay.Seed,
			Lamports:        lay.Lamports,
			Space:           lay.Space,
			Owner:           lay.Owner.String(),
		}, nil

	case 4:
		return &SystemAdvanceNonceAccount{
			InstructionBase: sp.base("AdvanceNonceAccount"),
			NonceAccount:    ctx.Account(ix, 0),
			NonceAuthority:  ctx.Account(ix, 1),
		}, nil

	case 5:
		var lay struct{ Lamports uint64 }
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemWithdrawNonceAccount{
			InstructionBase:    sp.base("WithdrawNonceAccount"),
			NonceAccount:       ctx.Account(ix, 0),
			DestinationAccount: ctx.Account(ix, 1),
			NonceAuthority:     ctx.Account(ix, 2),
			Lamports:           lay.Lamports,
		}, nil

	case 6:
		var lay struct{ NewAuthority solana.PublicKey }
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemAuthorizeNonceAccount{
			InstructionBase: sp.base("AuthorizeNonceAccount"),
			NonceAccount:    ctx.Account(ix, 0),
			NonceAuthority:  ctx.Account(ix, 1),
			NewAuthority:    lay.NewAuthority.String(),
		}, nil

	case 7:
		var lay struct{ Space uint64 }
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemAllocate{
			InstructionBase: sp.base("Allocate"),
			Account:         ctx.Account(ix, 0),
			Space:           lay.Space,
		}, nil

	case 8:
		var lay struct {
			Base  solana.PublicKey
			Seed  string
			Space uint64
			Owner solana.PublicKey
		}
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		return &SystemAllocateWithSeed{
			InstructionBase: sp.base("AllocateWithSeed"),
			Account:         ctx.Account(ix, 0),
			BaseAccount:     lay.Base.String(),
			Seed:            lay.Seed,
			Space:           lay.Space,
			Owner:           lay.Owner.String(),
		}, nil

	case 9:
		var lay struct {
			Lamports uint64
			Seed     string
			Owner    solana.PublicKey
		}
		if err := dec.Decode(&lay); err != nil {
			return sp.unknownInstruction(data), nil
		}
		// Destination sits at position 2; position 1 is the derivation base.
		return &SystemTransferWithSeed{
			InstructionBase:    sp.base("TransferWithSeed"),
			SourceAccount:      ctx.Account(ix, 0),
			DestinationAccount: ctx.Account(ix, 2),
			Lamports:           lay.Lamports,
			Seed:               lay.Seed,
			Owner:              lay.Owner.String(),
		}, nil

	default:
		return sp.unknownInstruction(data), nil
	}
}

func (sp *systemProgram) unknownInstruction(data []byte) *SystemUnknown {
	return &SystemUnknown{
		InstructionBase: sp.base("Unknown"),
		Data:            data,
	}
}
