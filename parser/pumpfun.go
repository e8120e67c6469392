package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/soltxs/soltxs-go/normalizer"
)

// PumpFun bonding-curve program. Anchor-style 8-byte discriminants
// (sha256("global:<name>")[:8]); Buy/Sell ground truth amounts come from the
// anchor TradeEvent the program emits as an inner instruction.

// pumpfunTradeEventDiscriminator prefixes the self-CPI event payload: 8 bytes
// of anchor event tag plus 8 bytes identifying TradeEvent.
var pumpfunTradeEventDiscriminator = [16]byte{228, 69, 165, 46, 81, 203, 154, 29, 189, 219, 127, 211, 78, 230, 97, 238}

var (
	pumpfunBuyDiscriminator    = anchorDiscriminator("global:buy")
	pumpfunSellDiscriminator   = anchorDiscriminator("global:sell")
	pumpfunCreateDiscriminator = anchorDiscriminator("global:create")
)

// anchorDiscriminator computes the 8-byte anchor method discriminant.
func anchorDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte(name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// PumpfunTradeEvent is the borsh payload of the TradeEvent inner instruction.
type PumpfunTradeEvent struct {
	Mint                 solana.PublicKey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 solana.PublicKey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
}

type PumpFunCreate struct {
	InstructionBase
	Who                    string
	Mint                   string
	MintAuthority          string
	BondingCurve           string
	AssociatedBondingCurve string
	MplTokenMetadata       string
	Metadata               string
	TokenName              string
	Symbol                 string
	URI                    string
}

type PumpFunBuy struct {
	InstructionBase
	Who               string
	FromToken         string
	FromTokenDecimals uint8
	ToToken           string
	ToTokenDecimals   uint8
	FromTokenAmount   uint64
	ToTokenAmount     uint64
	MaxSolCost        uint64
}

type PumpFunSell struct {
	InstructionBase
	Who               string
	FromToken         string
	FromTokenDecimals uint8
	ToToken           string
	ToTokenDecimals   uint8
	FromTokenAmount   uint64
	ToTokenAmount     uint64
	MinSolOutput      uint64
}

type PumpFunUnknown struct {
	InstructionBase
	Data []byte
}

type pumpFunProgram struct{}

func newPumpFunProgram() *pumpFunProgram { return &pumpFunProgram{} }

func (*pumpFunProgram) ID() string   { return PUMP_FUN_PROGRAM_ID.String() }
func (*pumpFunProgram) Name() string { return "PumpFun" }

func (pf *pumpFunProgram) base(name string) InstructionBase {
	return InstructionBase{ProgramID: pf.ID(), ProgramName: pf.Name(), InstructionName: name}
}

func (pf *pumpFunProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	data := ix.Data
	if len(data) < 8 {
		return pf.unknownInstruction(data), nil
	}

	var disc [8]byte
	copy(disc[:], data[:8])
	switch disc {
	case pumpfunBuyDiscriminator:
		return pf.decodeBuy(ctx, ix), nil
	case pumpfunSellDiscriminator:
		return pf.decodeSell(ctx, ix), nil
	case pumpfunCreateDiscriminator:
		return pf.decodeCreate(ctx, ix), nil
	default:
		return pf.unknownInstruction(data), nil
	}
}

// Buy accounts: 2=mint, 6=user. Args: amount, max_sol_cost.
func (pf *pumpFunProgram) decodeBuy(ctx *Context, ix normalizer.Instruction) ParsedInstruction {
	data := ix.Data
	if len(data) < 24 {
		return pf.unknownInstruction(data)
	}

	mint := ctx.Account(ix, 2)
	who := ctx.Account(ix, 6)
	tokenAmount := binary.LittleEndian.Uint64(data[8:16])
	maxSolCost := binary.LittleEndian.Uint64(data[16:24])
	solAmount := uint64(0)

	if ev := pf.tradeEvent(ctx); ev != nil {
		mint = ev.Mint.String()
		who = ev.User.String()
		tokenAmount = ev.TokenAmount
		solAmount = ev.SolAmount
	}

	toDecimals, _ := ctx.MintDecimals(mint)
	return &PumpFunBuy{
		InstructionBase:   pf.base("Buy"),
		Who:               who,
		FromToken:         WSOL_MINT.String(),
		FromTokenDecimals: SOL_DECIMALS,
		ToToken:           mint,
		ToTokenDecimals:   toDecimals,
		FromTokenAmount:   solAmount,
		ToTokenAmount:     tokenAmount,
		MaxSolCost:        maxSolCost,
	}
}

// Sell accounts: 2=mint, 6=user. Args: amount, min_sol_output.
func (pf *pumpFunProgram) decodeSell(ctx *Context, ix normalizer.Instruction) ParsedInstruction {
	data := ix.Data
	if len(data) < 24 {
		return pf.unknownInstruction(data)
	}

	mint := ctx.Account(ix, 2)
	who := ctx.Account(ix, 6)
	tokenAmount := binary.LittleEndian.Uint64(data[8:16])
	minSolOutput := binary.LittleEndian.Uint64(data[16:24])
	solAmount := uint64(0)

	if ev := pf.tradeEvent(ctx); ev != nil {
		mint = ev.Mint.String()
		who = ev.User.String()
		tokenAmount = ev.TokenAmount
		solAmount = ev.SolAmount
	}

	fromDecimals, _ := ctx.MintDecimals(mint)
	return &PumpFunSell{
		InstructionBase:   pf.base("Sell"),
		Who:               who,
		FromToken:         mint,
		FromTokenDecimals: fromDecimals,
		ToToken:           WSOL_MINT.String(),
		ToTokenDecimals:   SOL_DECIMALS,
		FromTokenAmount:   tokenAmount,
		ToTokenAmount:     solAmount,
		MinSolOutput:      minSolOutput,
	}
}

// Create accounts: 0=mint, 1=mint authority, 2=bonding curve, 3=associated
// bonding curve, 5=mpl token metadata, 6=metadata, 7=user.
func (pf *pumpFunProgram) decodeCreate(ctx *Context, ix normalizer.Instruction) ParsedInstruction {
	var lay struct {
		Name   string
		Symbol string
		URI    string
	}
	dec := ag_binary.NewBorshDecoder(ix.Data[8:])
	if err := dec.Decode(&lay); err != nil {
		return pf.unknownInstruction(ix.Data)
	}

	return &PumpFunCreate{
		InstructionBase:        pf.base("Create"),
		Who:                    ctx.Account(ix, 7),
		Mint:                   ctx.Account(ix, 0),
		MintAuthority:          ctx.Account(ix, 1),
		BondingCurve:           ctx.Account(ix, 2),
		AssociatedBondingCurve: ctx.Account(ix, 3),
		MplTokenMetadata:       ctx.Account(ix, 5),
		Metadata:               ctx.Account(ix, 6),
		TokenName:              lay.Name,
		Symbol:                 lay.Symbol,
		URI:                    lay.URI,
	}
}

// tradeEvent scans the current outer instruction's inner group for the
// program's TradeEvent self-CPI and decodes its borsh payload.
func (pf *pumpFunProgram) tradeEvent(ctx *Context) *PumpfunTradeEvent {
	for _, inner := range ctx.InnerInstructions() {
		if inner.ProgramIDIndex < 0 || inner.ProgramIDIndex >= len(ctx.Accounts) {
			continue
		}
		if ctx.Accounts[inner.ProgramIDIndex] != pf.ID() {
			continue
		}
		if len(inner.Data) < 16 || !bytes.Equal(inner.Data[:16], pumpfunTradeEventDiscriminator[:]) {
			continue
		}

		var ev PumpfunTradeEvent
		dec := ag_binary.NewBorshDecoder(inner.Data[16:])
		if err := dec.Decode(&ev); err != nil {
			continue
		}
		return &ev
	}
	return nil
}

func (pf *pumpFunProgram) unknownInstruction(data []byte) *PumpFunUnknown {
	return &PumpFunUnknown{
		InstructionBase: pf.base("Unknown"),
		Data:            data,
	}
}
