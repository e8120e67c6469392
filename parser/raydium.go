package parser

import (
	"encoding/binary"

	"github.com/soltxs/soltxs-go/normalizer"
)

// Raydium CPMM (constant-product) pool program. Anchor-style 8-byte
// discriminants. Swap output amounts are observed from the two inner token
// transfers (user -> input vault, output vault -> user).

var (
	raydiumSwapBaseInputDiscriminator  = anchorDiscriminator("global:swap_base_input")
	raydiumSwapBaseOutputDiscriminator = anchorDiscriminator("global:swap_base_output")
	raydiumDepositDiscriminator        = anchorDiscriminator("global:deposit")
	raydiumWithdrawDiscriminator       = anchorDiscriminator("global:withdraw")
)

type RaydiumSwap struct {
	InstructionBase
	Who               string
	PoolState         string
	FromToken         string
	FromTokenDecimals uint8
	ToToken           string
	ToTokenDecimals   uint8
	FromTokenAmount   uint64
	ToTokenAmount     uint64
	MinimumAmountOut  uint64
}

type RaydiumDeposit struct {
	InstructionBase
	Who                 string
	PoolState           string
	LpTokenAmount       uint64
	MaximumToken0Amount uint64
	MaximumToken1Amount uint64
}

type RaydiumWithdraw struct {
	InstructionBase
	Who                 string
	PoolState           string
	LpTokenAmount       uint64
	MinimumToken0Amount uint64
	MinimumToken1Amount uint64
}

type RaydiumUnknown struct {
	InstructionBase
	Data []byte
}

type raydiumCPMMProgram struct{}

func newRaydiumCPMMProgram() *raydiumCPMMProgram { return &raydiumCPMMProgram{} }

func (*raydiumCPMMProgram) ID() string   { return RAYDIUM_CPMM_PROGRAM_ID.String() }
func (*raydiumCPMMProgram) Name() string { return "RaydiumCPMM" }

func (rp *raydiumCPMMProgram) base(name string) InstructionBase {
	return InstructionBase{ProgramID: rp.ID(), ProgramName: rp.Name(), InstructionName: name}
}

func (rp *raydiumCPMMProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	data := ix.Data
	if len(data) < 8 {
		return rp.unknownInstruction(data), nil
	}

	var disc [8]byte
	copy(disc[:], data[:8])
	switch disc {
	case raydiumSwapBaseInputDiscriminator:
		return rp.decodeSwap(ctx, ix, true), nil
	case raydiumSwapBaseOutputDiscriminator:
		return rp.decodeSwap(ctx, ix, false), nil
	case raydiumDepositDiscriminator:
		return rp.decodeDeposit(ctx, ix), nil
	case raydiumWithdrawDiscriminator:
		return rp.decodeWithdraw(ctx, ix), nil
	default:
		return rp.unknownInstruction(data), nil
	}
}

// Swap accounts: 0=payer, 3=pool state, 4=input token account, 5=output
// token account, 10=input mint, 11=output mint.
// swap_base_input args: amount_in, minimum_amount_out.
// swap_base_output args: max_amount_in, amount_out.
func (rp *raydiumCPMMProgram) decodeSwap(ctx *Context, ix normalizer.Instruction, baseInput bool) ParsedInstruction {
	data := ix.Data
	if len(data) < 24 {
		return rp.unknownInstruction(data)
	}

	arg0 := binary.LittleEndian.Uint64(data[8:16])
	arg1 := binary.LittleEndian.Uint64(data[16:24])

	swap := &RaydiumSwap{
		InstructionBase: rp.base("Swap"),
		Who:             ctx.Account(ix, 0),
		PoolState:       ctx.Account(ix, 3),
		FromToken:       ctx.Account(ix, 10),
		ToToken:         ctx.Account(ix, 11),
	}
	if baseInput {
		swap.FromTokenAmount = arg0
		swap.MinimumAmountOut = arg1
	} else {
		swap.ToTokenAmount = arg1
	}
	swap.FromTokenDecimals, _ = ctx.MintDecimals(swap.FromToken)
	swap.ToTokenDecimals, _ = ctx.MintDecimals(swap.ToToken)

	rp.fillAmountsFromTransfers(ctx, ix, swap)
	return swap
}

// fillAmountsFromTransfers reads the observed per-leg amounts from the inner
// token-program transfers of this swap: the first transfer out of the user's
// input account and the first transfer into the user's output account.
func (rp *raydiumCPMMProgram) fillAmountsFromTransfers(ctx *Context, ix normalizer.Instruction, swap *RaydiumSwap) {
	inputAccount := ctx.Account(ix, 4)
	outputAccount := ctx.Account(ix, 5)

	for _, inner := range ctx.InnerInstructions() {
		if inner.ProgramIDIndex < 0 || inner.ProgramIDIndex >= len(ctx.Accounts) {
			continue
		}
		if ctx.Accounts[inner.ProgramIDIndex] != TOKEN_PROGRAM_ID.String() {
			continue
		}
		if len(inner.Data) < 9 || (inner.Data[0] != 3 && inner.Data[0] != 12) {
			continue
		}
		if len(inner.Accounts) < 2 {
			continue
		}

		amount := binary.LittleEndian.Uint64(inner.Data[1:9])
		source := ctx.Account(inner, 0)
		// TransferChecked carries the mint at position 1; the destination
		// shifts to position 2.
		destPos := 1
		if inner.Data[0] == 12 {
			destPos = 2
		}
		dest := ctx.Account(inner, destPos)

		switch {
		case source == inputAccount && swap.FromTokenAmount == 0:
			swap.FromTokenAmount = amount
		case dest == outputAccount && swap.ToTokenAmount == 0:
			swap.ToTokenAmount = amount
		}
	}
}

// Deposit accounts: 0=owner, 2=pool state. Args: lp_token_amount,
// maximum_token_0_amount, maximum_token_1_amount.
func (rp *raydiumCPMMProgram) decodeDeposit(ctx *Context, ix normalizer.Instruction) ParsedInstruction {
	data := ix.Data
	if len(data) < 32 {
		return rp.unknownInstruction(data)
	}
	return &RaydiumDeposit{
		InstructionBase:     rp.base("Deposit"),
		Who:                 ctx.Account(ix, 0),
		PoolState:           ctx.Account(ix, 2),
		LpTokenAmount:       binary.LittleEndian.Uint64(data[8:16]),
		MaximumToken0Amount: binary.LittleEndian.Uint64(data[16:24]),
		MaximumToken1Amount: binary.LittleEndian.Uint64(data[24:32]),
	}
}

// Withdraw accounts: 0=owner, 2=pool state. Args: lp_token_amount,
// minimum_token_0_amount, minimum_token_1_amount.
func (rp *raydiumCPMMProgram) decodeWithdraw(ctx *Context, ix normalizer.Instruction) ParsedInstruction {
	data := ix.Data
	if len(data) < 32 {
		return rp.unknownInstruction(data)
	}
	return &RaydiumWithdraw{
		InstructionBase:     rp.base("Withdraw"),
		Who:                 ctx.Account(ix, 0),
		PoolState:           ctx.Account(ix, 2),
		LpTokenAmount:       binary.LittleEndian.Uint64(data[8:16]),
		MinimumToken0Amount: binary.LittleEndian.Uint64(data[16:24]),
		MinimumToken1Amount: binary.LittleEndian.Uint64(data[24:32]),
	}
}

func (rp *raydiumCPMMProgram) unknownInstruction(data []byte) *RaydiumUnknown {
	return &RaydiumUnknown{
		InstructionBase: rp.base("Unknown"),
		Data:            data,
	}
}
