// Package resolver pattern-matches parsed transactions into domain-level
// swap events. A transaction that matches no known pattern yields no events;
// resolution never fails.
package resolver

import (
	"math"

	"github.com/soltxs/soltxs-go/parser"
)

// NativeSOLMint is the sentinel mint identifier for swap legs settled in
// lamports rather than through a token account.
const NativeSOLMint = "11111111111111111111111111111111"

// Event is the closed union over resolved economic events.
type Event interface {
	EventType() string
}

// PumpFunSwap is a trade against a PumpFun bonding curve. Amounts are
// decimal-scaled; the SOL leg uses NativeSOLMint.
type PumpFunSwap struct {
	Type       string // "buy" or "sell"
	Who        string
	FromToken  string
	FromAmount float64
	ToToken    string
	ToAmount   float64
}

func (*PumpFunSwap) EventType() string { return "PumpFunSwap" }

// RaydiumSwap is a swap through a Raydium CPMM pool. Legs come from the
// transaction's token balance deltas, so amounts reflect what the acting
// account actually paid and received.
type RaydiumSwap struct {
	Type             string // "buy", "sell" or "swap"
	Who              string
	FromToken        string
	FromAmount       float64
	ToToken          string
	ToAmount         float64
	MinimumAmountOut float64
}

func (*RaydiumSwap) EventType() string { return "RaydiumSwap" }

// Resolve scans the parsed instruction list for swap shapes and returns the
// matched events, zero or more. It never returns an error.
func Resolve(parsed *parser.ParsedTransaction) []Event {
	if parsed == nil {
		return nil
	}
	var events []Event
	for _, ins := range parsed.Instructions {
		switch v := ins.(type) {
		case *parser.PumpFunBuy:
			events = append(events, &PumpFunSwap{
				Type:       "buy",
				Who:        v.Who,
				FromToken:  NativeSOLMint,
				FromAmount: scale(v.FromTokenAmount, v.FromTokenDecimals),
				ToToken:    v.ToToken,
				ToAmount:   scale(v.ToTokenAmount, v.ToTokenDecimals),
			})
		case *parser.PumpFunSell:
			events = append(events, &PumpFunSwap{
				Type:       "sell",
				Who:        v.Who,
				FromToken:  v.FromToken,
				FromAmount: scale(v.FromTokenAmount, v.FromTokenDecimals),
				ToToken:    NativeSOLMint,
				ToAmount:   scale(v.ToTokenAmount, v.ToTokenDecimals),
			})
		case *parser.RaydiumSwap:
			if ev := resolveRaydiumSwap(parsed, v); ev != nil {
				events = append(events, ev)
			}
		}
	}
	return events
}

// resolveRaydiumSwap requires the token transfer summary to hold exactly two
// legs for the acting account, one paid and one received. Anything else is
// not a matchable swap and yields no event.
func resolveRaydiumSwap(parsed *parser.ParsedTransaction, v *parser.RaydiumSwap) Event {
	summary := parsed.Addons.TokenTransfers
	if summary == nil {
		return nil
	}

	var legs []parser.TokenTransferDelta
	for _, t := range summary.Transfers {
		if t.Owner == v.Who {
			legs = append(legs, t)
		}
	}
	if len(legs) != 2 {
		return nil
	}

	var from, to parser.TokenTransferDelta
	switch {
	case legs[0].Amount < 0 && legs[1].Amount > 0:
		from, to = legs[0], legs[1]
	case legs[1].Amount < 0 && legs[0].Amount > 0:
		from, to = legs[1], legs[0]
	default:
		return nil
	}

	eventType := "swap"
	if isSOL(from.Mint) {
		eventType = "buy"
	} else if isSOL(to.Mint) {
		eventType = "sell"
	}

	return &RaydiumSwap{
		Type:             eventType,
		Who:              v.Who,
		FromToken:        from.Mint,
		FromAmount:       scale(uint64(-from.Amount), from.Decimals),
		ToToken:          to.Mint,
		ToAmount:         scale(uint64(to.Amount), to.Decimals),
		MinimumAmountOut: scale(v.MinimumAmountOut, to.Decimals),
	}
}

func isSOL(mint string) bool {
	return mint == NativeSOLMint || mint == parser.WSOL_MINT.String()
}

func scale(raw uint64, decimals uint8) float64 {
	return float64(raw) / math.Pow10(int(decimals))
}
