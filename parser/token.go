package parser

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/soltxs/soltxs-go/normalizer"
)

// SPL Token Program instructions: 1-byte discriminant, fixed little-endian
// fields, positional account roles.

type TokenInitializeMint struct {
	InstructionBase
	Mint            string
	Decimals        uint8
	MintAuthority   string
	FreezeAuthority string // empty when the option flag is unset
}

type TokenInitializeAccount struct {
	InstructionBase
	Account    string
	Mint       string
	Owner      string
	RentSysvar string
}

type TokenInitializeMultisig struct {
	InstructionBase
	M       uint8
	Signers []string
}

type TokenTransfer struct {
	InstructionBase
	Source      string
	Destination string
	Authority   string
	Amount      uint64
}

type TokenApprove struct {
	InstructionBase
	Source   string
	Delegate string
	Amount   uint64
}

type TokenRevoke struct {
	InstructionBase
	Source string
}

type TokenSetAuthority struct {
	InstructionBase
	Account       string
	AuthorityType uint8
	NewAuthority  string // empty when the option flag is unset
}

type TokenMintTo struct {
	InstructionBase
	Mint        string
	Destination string
	Amount      uint64
}

type TokenBurn struct {
	InstructionBase
	Account string
	Mint    string
	Amount  uint64
}

type TokenCloseAccount struct {
	InstructionBase
	Account     string
	Destination string
	Authority   string
}

type TokenFreezeAccount struct {
	InstructionBase
	Account         string
	Mint            string
	FreezeAuthority string
}

type TokenThawAccount struct {
	InstructionBase
	Account         string
	Mint            string
	FreezeAuthority string
}

type TokenTransferChecked struct {
	InstructionBase
	Source      string
	Mint        string
	Destination string
	Authority   string
	Amount      uint64
	Decimals    uint8
}

type TokenApproveChecked struct {
	InstructionBase
	Source   string
	Delegate string
	Amount   uint64
	Decimals uint8
}

type TokenMintToChecked struct {
	InstructionBase
	Mint        string
	Destination string
	Amount      uint64
	Decimals    uint8
}

type TokenBurnChecked struct {
	InstructionBase
	Account  string
	Mint     string
	Amount   uint64
	Decimals uint8
}

type TokenUnknown struct {
	InstructionBase
	Data []byte
}

type tokenProgram struct{}

func newTokenProgram() *tokenProgram { return &tokenProgram{} }

func (*tokenProgram) ID() string   { return TOKEN_PROGRAM_ID.String() }
func (*tokenProgram) Name() string { return "TokenProgram" }

func (tp *tokenProgram) base(name string) InstructionBase {
	return InstructionBase{ProgramID: tp.ID(), ProgramName: tp.Name(), InstructionName: name}
}

func (tp *tokenProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	data := ix.Data
	if len(data) < 1 {
		return tp.unknownInstruction(data), nil
	}

	switch data[0] {
	case 0: // InitializeMint
		if len(data) < 35 {
			return tp.unknownInstruction(data), nil
		}
		freeze := ""
		if len(data) >= 67 && data[34] == 1 {
			freeze = pubkeyAt(data, 35)
		}
		return &TokenInitializeMint{
			InstructionBase: tp.base("InitializeMint"),
			Mint:            ctx.Account(ix, 0),
			Decimals:        data[1],
			MintAuthority:   pubkeyAt(data, 2),
			FreezeAuthority: freeze,
		}, nil

	case 1: // InitializeAccount
		return &TokenInitializeAccount{
			InstructionBase: tp.base("InitializeAccount"),
			Account:         ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			Owner:           ctx.Account(ix, 2),
			RentSysvar:      ctx.Account(ix, 3),
		}, nil

	case 2: // InitializeMultisig
		if len(data) < 2 {
			return tp.unknownInstruction(data), nil
		}
		signers := make([]string, 0, len(ix.Accounts))
		for i := range ix.Accounts {
			signers = append(signers, ctx.Account(ix, i))
		}
		return &TokenInitializeMultisig{
			InstructionBase: tp.base("InitializeMultisig"),
			M:               data[1],
			Signers:         signers,
		}, nil

	case 3: // Transfer
		if len(data) < 9 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenTransfer{
			InstructionBase: tp.base("Transfer"),
			Source:          ctx.Account(ix, 0),
			Destination:     ctx.Account(ix, 1),
			Authority:       ctx.Account(ix, 2),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
		}, nil

	case 4: // Approve
		if len(data) < 9 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenApprove{
			InstructionBase: tp.base("Approve"),
			Source:          ctx.Account(ix, 0),
			Delegate:        ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
		}, nil

	case 5: // Revoke
		return &TokenRevoke{
			InstructionBase: tp.base("Revoke"),
			Source:          ctx.Account(ix, 0),
		}, nil

	case 6: // SetAuthority
		if len(data) < 3 {
			return tp.unknownInstruction(data), nil
		}
		newAuthority := ""
		if data[2] == 1 {
			if len(data) < 35 {
				return tp.unknownInstruction(data), nil
			}
			newAuthority = pubkeyAt(data, 3)
		}
		return &TokenSetAuthority{
			InstructionBase: tp.base("SetAuthority"),
			Account:         ctx.Account(ix, 0),
			AuthorityType:   data[1],
			NewAuthority:    newAuthority,
		}, nil

	case 7: // MintTo
		if len(data) < 9 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenMintTo{
			InstructionBase: tp.base("MintTo"),
			Mint:            ctx.Account(ix, 0),
			Destination:     ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
		}, nil

	case 8: // Burn
		if len(data) < 9 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenBurn{
			InstructionBase: tp.base("Burn"),
			Account:         ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
		}, nil

	case 9: // CloseAccount
		return &TokenCloseAccount{
			InstructionBase: tp.base("CloseAccount"),
			Account:         ctx.Account(ix, 0),
			Destination:     ctx.Account(ix, 1),
			Authority:       ctx.Account(ix, 2),
		}, nil

	case 10: // FreezeAccount
		return &TokenFreezeAccount{
			InstructionBase: tp.base("FreezeAccount"),
			Account:         ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			FreezeAuthority: ctx.Account(ix, 2),
		}, nil

	case 11: // ThawAccount
		return &TokenThawAccount{
			InstructionBase: tp.base("ThawAccount"),
			Account:         ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			FreezeAuthority: ctx.Account(ix, 2),
		}, nil

	case 12: // TransferChecked
		if len(data) < 10 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenTransferChecked{
			InstructionBase: tp.base("TransferChecked"),
			Source:          ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			Destination:     ctx.Account(ix, 2),
			Authority:       ctx.Account(ix, 3),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
			Decimals:        data[9],
		}, nil

	case 13: // ApproveChecked
		if len(data) < 10 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenApproveChecked{
			InstructionBase: tp.base("ApproveChecked"),
			Source:          ctx.Account(ix, 0),
			Delegate:        ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
			Decimals:        data[9],
		}, nil

	case 14: // MintToChecked
		if len(data) < 10 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenMintToChecked{
			InstructionBase: tp.base("MintToChecked"),
			Mint:            ctx.Account(ix, 0),
			Destination:     ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
			Decimals:        data[9],
		}, nil

	case 15: // BurnChecked
		if len(data) < 10 {
			return tp.unknownInstruction(data), nil
		}
		return &TokenBurnChecked{
			InstructionBase: tp.base("BurnChecked"),
			Account:         ctx.Account(ix, 0),
			Mint:            ctx.Account(ix, 1),
			Amount:          binary.LittleEndian.Uint64(data[1:9]),
			Decimals:        data[9],
		}, nil

	default:
		return tp.unknownInstruction(data), nil
	}
}

func (tp *tokenProgram) unknownInstruction(data []byte) *TokenUnknown {
	return &TokenUnknown{
		InstructionBase: tp.base("Unknown"),
		Data:            data,
	}
}

// pubkeyAt reads a 32-byte public key embedded in instruction data.
func pubkeyAt(data []byte, offset int) string {
	if offset+32 > len(data) {
		return ""
	}
	return solana.PublicKeyFromBytes(data[offset : offset+32]).String()
}
