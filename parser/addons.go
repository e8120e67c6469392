package parser

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/soltxs/soltxs-go/normalizer"
)

// Addons are cross-instruction summaries derived after decoding. Every field
// is optional: nil means the transaction carried no material for that
// extractor.
type Addons struct {
	ComputeUnits     *ComputeUnitsAddon
	InstructionCount *InstructionCountAddon
	LoadedAddresses  *LoadedAddressesAddon
	Platform         *PlatformAddon
	TokenTransfers   *TokenTransferSummary
	Status           *TransactionStatus
}

// ComputeUnitsAddon combines the consumed units reported in meta with the
// limit and price requested by the transaction's own Compute Budget
// instructions.
type ComputeUnitsAddon struct {
	ComputeUnitsConsumed          *uint64
	ComputeUnitLimit              *uint32
	ComputeUnitPriceMicroLamports *uint64
	// ComputeCostSOL is the priority fee ceiling in SOL, limit times price.
	ComputeCostSOL *float64
	// RealizedComputeCostSOL is the priority fee actually paid in SOL,
	// consumed units times price.
	RealizedComputeCostSOL *float64
	RemainingComputeUnits  *uint64
}

type InstructionCountAddon struct {
	// Total counts outer and inner instructions together.
	Total     int
	ByProgram map[string]int
}

// LoadedAddressesAddon echoes the address-table resolution so consumers do
// not need the normalized transaction to see it.
type LoadedAddressesAddon struct {
	Writable []string
	Readonly []string
}

// PlatformAddon names the venue a transaction interacted with: the first
// recognized AMM program in the configured priority order, or a known
// frontend wallet seen in the account table.
type PlatformAddon struct {
	Name      string
	ProgramID string
}

// TokenTransferDelta is the net balance movement for one (owner, mint) pair
// over the whole transaction. Amount is in base units and signed.
type TokenTransferDelta struct {
	Owner    string
	Mint     string
	Amount   int64
	Decimals uint8
}

// TokenTransferSummary aggregates pre/post token balances into net deltas.
// Pairs whose balance did not change are omitted.
type TokenTransferSummary struct {
	Transfers []TokenTransferDelta
}

type TransactionStatus struct {
	Slot uint64
	// Timestamp is the block time in RFC 3339, nil when the payload carried
	// no blockTime.
	Timestamp *string
	Fee       uint64
	Failed    bool
}

// microLamportsPerSOL converts a compute budget (units times price in
// micro-lamports per unit) into SOL.
const microLamportsPerSOL = 1e15

func (p *Parser) enrich(ctx *Context, parsed []ParsedInstruction) Addons {
	return Addons{
		ComputeUnits:     extractComputeUnits(ctx, parsed),
		InstructionCount: extractInstructionCount(parsed),
		LoadedAddresses:  extractLoadedAddresses(ctx),
		Platform:         p.extractPlatform(ctx, parsed),
		TokenTransfers:   extractTokenTransfers(ctx),
		Status:           extractStatus(ctx),
	}
}

func extractComputeUnits(ctx *Context, parsed []ParsedInstruction) *ComputeUnitsAddon {
	addon := &ComputeUnitsAddon{
		ComputeUnitsConsumed: ctx.Tx.Meta.ComputeUnitsConsumed,
	}
	for _, ins := range parsed {
		switch v := ins.(type) {
		case *ComputeBudgetSetComputeUnitLimit:
			addon.ComputeUnitLimit = pointer.ToUint32(v.ComputeUnitLimit)
		case *ComputeBudgetSetComputeUnitPrice:
			addon.ComputeUnitPriceMicroLamports = pointer.ToUint64(v.MicroLamports)
		}
	}
	if addon.ComputeUnitsConsumed == nil && addon.ComputeUnitLimit == nil && addon.ComputeUnitPriceMicroLamports == nil {
		return nil
	}
	if addon.ComputeUnitLimit != nil && addon.ComputeUnitPriceMicroLamports != nil {
		cost := float64(*addon.ComputeUnitLimit) * float64(*addon.ComputeUnitPriceMicroLamports) / microLamportsPerSOL
		addon.ComputeCostSOL = pointer.ToFloat64(cost)
	}
	if addon.ComputeUnitsConsumed != nil && addon.ComputeUnitPriceMicroLamports != nil {
		realized := float64(*addon.ComputeUnitsConsumed) * float64(*addon.ComputeUnitPriceMicroLamports) / microLamportsPerSOL
		addon.RealizedComputeCostSOL = pointer.ToFloat64(realized)
	}
	if addon.ComputeUnitLimit != nil && addon.ComputeUnitsConsumed != nil {
		limit := uint64(*addon.ComputeUnitLimit)
		if limit >= *addon.ComputeUnitsConsumed {
			addon.RemainingComputeUnits = pointer.ToUint64(limit - *addon.ComputeUnitsConsumed)
		}
	}
	return addon
}

func extractInstructionCount(parsed []ParsedInstruction) *InstructionCountAddon {
	if len(parsed) == 0 {
		return nil
	}
	byProgram := make(map[string]int)
	for _, ins := range parsed {
		base := ins.Base()
		name := base.ProgramName
		if name == "" || name == "Unknown" {
			name = base.ProgramID
		}
		byProgram[name]++
	}
	return &InstructionCountAddon{
		Total:     len(parsed),
		ByProgram: byProgram,
	}
}

func extractLoadedAddresses(ctx *Context) *LoadedAddressesAddon {
	loaded := ctx.Tx.LoadedAddresses
	if len(loaded.Writable) == 0 && len(loaded.Readonly) == 0 {
		return nil
	}
	return &LoadedAddressesAddon{
		Writable: loaded.Writable,
		Readonly: loaded.Readonly,
	}
}

func (p *Parser) extractPlatform(ctx *Context, parsed []ParsedInstruction) *PlatformAddon {
	seen := make(map[string]bool, len(parsed))
	for _, ins := range parsed {
		seen[ins.Base().ProgramID] = true
	}
	for _, programID := range p.platformPriority {
		if !seen[programID] {
			continue
		}
		name := programID
		if prog, ok := p.registry[programID]; ok {
			name = prog.Name()
		}
		return &PlatformAddon{Name: name, ProgramID: programID}
	}
	for _, account := range ctx.Accounts {
		if name, ok := knownFrontends[account]; ok {
			return &PlatformAddon{Name: name, ProgramID: account}
		}
	}
	return nil
}

func extractTokenTransfers(ctx *Context) *TokenTransferSummary {
	meta := ctx.Tx.Meta
	if len(meta.PreTokenBalances) == 0 && len(meta.PostTokenBalances) == 0 {
		return nil
	}

	type pairKey struct {
		owner string
		mint  string
	}
	deltas := make(map[pairKey]*TokenTransferDelta)

	apply := func(bals []normalizer.TokenBalance, sign int64) {
		for _, bal := range bals {
			amount, err := strconv.ParseUint(bal.UITokenAmount.Amount, 10, 64)
			if err != nil {
				continue
			}
			key := pairKey{owner: bal.Owner, mint: bal.Mint}
			entry, ok := deltas[key]
			if !ok {
				entry = &TokenTransferDelta{Owner: bal.Owner, Mint: bal.Mint, Decimals: bal.UITokenAmount.Decimals}
				deltas[key] = entry
			}
			entry.Amount = saturatingAdd(entry.Amount, signedDelta(amount, sign))
		}
	}
	apply(meta.PreTokenBalances, -1)
	apply(meta.PostTokenBalances, 1)

	transfers := make([]TokenTransferDelta, 0, len(deltas))
	for _, entry := range deltas {
		if entry.Amount == 0 {
			continue
		}
		transfers = append(transfers, *entry)
	}
	if len(transfers) == 0 {
		return nil
	}
	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].Owner != transfers[j].Owner {
			return transfers[i].Owner < transfers[j].Owner
		}
		return transfers[i].Mint < transfers[j].Mint
	})
	return &TokenTransferSummary{Transfers: transfers}
}

// signedDelta converts a base-unit amount into a signed delta. Amounts past
// the int64 range saturate instead of wrapping.
func signedDelta(amount uint64, sign int64) int64 {
	if amount > math.MaxInt64 {
		if sign < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return sign * int64(amount)
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	if b > 0 && sum < a {
		return math.MaxInt64
	}
	if b < 0 && sum > a {
		return math.MinInt64
	}
	return sum
}

func extractStatus(ctx *Context) *TransactionStatus {
	status := &TransactionStatus{
		Slot:   ctx.Tx.Slot,
		Fee:    ctx.Tx.Meta.Fee,
		Failed: ctx.Tx.Meta.Err != nil,
	}
	if bt := ctx.Tx.BlockTime; bt != nil {
		status.Timestamp = pointer.ToString(time.Unix(*bt, 0).UTC().Format(time.RFC3339))
	}
	return status
}
