package parser

import (
	"fmt"

	"github.com/soltxs/soltxs-go/normalizer"
)

// ParsedInstruction is the closed union over every decoded instruction
// variant. Concrete variants embed InstructionBase; program decoders outside
// this package participate the same way.
type ParsedInstruction interface {
	Base() InstructionBase
}

// InstructionBase identifies which program and instruction a variant decodes.
type InstructionBase struct {
	ProgramID       string
	ProgramName     string
	InstructionName string
}

func (b InstructionBase) Base() InstructionBase { return b }

// Unknown is the cross-program fallback: no decoder matched the program, the
// discriminant was unrecognized, or decoding failed. Raw bytes and account
// indices are preserved untouched so no information is dropped.
type Unknown struct {
	InstructionBase
	Data           []byte
	AccountIndexes []int
	Accounts       []string
}

// DecodeError is an instruction-scoped failure: malformed discriminant,
// truncated data, or an out-of-range account index. It never propagates past
// the router; the instruction degrades to Unknown.
type DecodeError struct {
	ProgramID string
	Reason    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s instruction: %s", e.ProgramID, e.Reason)
}

// Program decodes instructions for a single program ID.
type Program interface {
	ID() string
	Name() string
	// Decode maps one instruction to a typed variant. Unrecognized
	// discriminants and short buffers return the program's Unknown variant,
	// not an error; errors are reserved for conditions the router should
	// downgrade itself.
	Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error)
}

// Context is the read-only view decoders get of the transaction being parsed.
// It is built once per Parse call and shared by every decoder invocation.
type Context struct {
	Tx       *normalizer.Transaction
	Accounts []string // resolved account table, static ++ writable ++ readonly

	// OuterIndex is the index of the outer instruction currently being
	// decoded; inner instructions carry their owning outer index.
	OuterIndex int

	tokenInfo map[string]tokenAccountInfo
}

// tokenAccountInfo associates a token account address with its mint, owner
// and decimals, assembled from the pre/post token balance snapshots.
type tokenAccountInfo struct {
	Mint     string
	Owner    string
	Decimals uint8
}

// Account resolves the n-th account of an instruction to its address, or ""
// when the position or index is out of range.
func (c *Context) Account(ix normalizer.Instruction, n int) string {
	if n >= len(ix.Accounts) {
		return ""
	}
	idx := ix.Accounts[n]
	if idx < 0 || idx >= len(c.Accounts) {
		return ""
	}
	return c.Accounts[idx]
}

// InnerInstructions returns the inner instructions emitted under the
// currently decoded outer instruction.
func (c *Context) InnerInstructions() []normalizer.Instruction {
	for _, set := range c.Tx.Meta.InnerInstructions {
		if set.Index == c.OuterIndex {
			return set.Instructions
		}
	}
	return nil
}

// TokenAccount looks up mint/owner/decimals for a token account address.
func (c *Context) TokenAccount(address string) (mint, owner string, decimals uint8, ok bool) {
	info, ok := c.tokenInfo[address]
	return info.Mint, info.Owner, info.Decimals, ok
}

// MintDecimals returns the decimals recorded for a mint in the balance
// snapshots, or (0, false) when the mint never appears.
func (c *Context) MintDecimals(mint string) (uint8, bool) {
	if mint == WSOL_MINT.String() {
		return SOL_DECIMALS, true
	}
	for _, tb := range c.Tx.Meta.PreTokenBalances {
		if tb.Mint == mint {
			return tb.UITokenAmount.Decimals, true
		}
	}
	for _, tb := range c.Tx.Meta.PostTokenBalances {
		if tb.Mint == mint {
			return tb.UITokenAmount.Decimals, true
		}
	}
	return 0, false
}

func buildTokenInfo(tx *normalizer.Transaction, accounts []string) map[string]tokenAccountInfo {
	info := make(map[string]tokenAccountInfo)
	record := func(balances []normalizer.TokenBalance) {
		for _, tb := range balances {
			if tb.AccountIndex < 0 || tb.AccountIndex >= len(accounts) {
				continue
			}
			info[accounts[tb.AccountIndex]] = tokenAccountInfo{
				Mint:     tb.Mint,
				Owner:    tb.Owner,
				Decimals: tb.UITokenAmount.Decimals,
			}
		}
	}
	// Post balances win on conflict: they reflect accounts created this tx.
	record(tx.Meta.PreTokenBalances)
	record(tx.Meta.PostTokenBalances)
	return info
}
