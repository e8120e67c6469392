package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltxs/soltxs-go/parser"
)

const (
	mintA = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R"
	mintB = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	whoW  = "GThUX1Atko4tqhN2NaiTazWSeFWMuiUvfFnyJyUghFMJ"
)

func TestResolveRaydiumSwap(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.RaydiumSwap{
				Who:              whoW,
				FromToken:        mintA,
				ToToken:          mintB,
				MinimumAmountOut: 900,
			},
		},
		Addons: parser.Addons{
			TokenTransfers: &parser.TokenTransferSummary{
				Transfers: []parser.TokenTransferDelta{
					{Owner: whoW, Mint: mintA, Amount: -5, Decimals: 0},
					{Owner: whoW, Mint: mintB, Amount: 1000, Decimals: 0},
				},
			},
		},
	}

	events := Resolve(parsed)
	require.Len(t, events, 1)

	swap, ok := events[0].(*RaydiumSwap)
	require.True(t, ok)
	assert.Equal(t, "swap", swap.Type)
	assert.Equal(t, whoW, swap.Who)
	assert.Equal(t, mintA, swap.FromToken)
	assert.Equal(t, float64(5), swap.FromAmount)
	assert.Equal(t, mintB, swap.ToToken)
	assert.Equal(t, float64(1000), swap.ToAmount)
	assert.Equal(t, float64(900), swap.MinimumAmountOut)
}

func TestResolveRaydiumBuyDirection(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.RaydiumSwap{Who: whoW, FromToken: parser.WSOL_MINT.String(), ToToken: mintB},
		},
		Addons: parser.Addons{
			TokenTransfers: &parser.TokenTransferSummary{
				Transfers: []parser.TokenTransferDelta{
					{Owner: whoW, Mint: parser.WSOL_MINT.String(), Amount: -1_000_000_000, Decimals: 9},
					{Owner: whoW, Mint: mintB, Amount: 2_500_000, Decimals: 6},
				},
			},
		},
	}

	events := Resolve(parsed)
	require.Len(t, events, 1)
	swap := events[0].(*RaydiumSwap)
	assert.Equal(t, "buy", swap.Type)
	assert.Equal(t, float64(1), swap.FromAmount)
	assert.Equal(t, float64(2.5), swap.ToAmount)
}

func TestResolveRaydiumRequiresTwoLegs(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.RaydiumSwap{Who: whoW, FromToken: mintA, ToToken: mintB},
		},
		Addons: parser.Addons{
			TokenTransfers: &parser.TokenTransferSummary{
				Transfers: []parser.TokenTransferDelta{
					{Owner: whoW, Mint: mintA, Amount: -5},
				},
			},
		},
	}
	assert.Empty(t, Resolve(parsed))

	parsed.Addons.TokenTransfers = nil
	assert.Empty(t, Resolve(parsed))
}

func TestResolvePumpFunBuy(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.PumpFunBuy{
				Who:               whoW,
				FromToken:         parser.WSOL_MINT.String(),
				FromTokenDecimals: 9,
				ToToken:           mintB,
				ToTokenDecimals:   6,
				FromTokenAmount:   1_500_000_000,
				ToTokenAmount:     500_000,
			},
		},
	}

	events := Resolve(parsed)
	require.Len(t, events, 1)

	swap, ok := events[0].(*PumpFunSwap)
	require.True(t, ok)
	assert.Equal(t, "buy", swap.Type)
	assert.Equal(t, whoW, swap.Who)
	assert.Equal(t, NativeSOLMint, swap.FromToken)
	assert.Equal(t, float64(1.5), swap.FromAmount)
	assert.Equal(t, mintB, swap.ToToken)
	assert.Equal(t, float64(0.5), swap.ToAmount)
}

func TestResolvePumpFunSell(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.PumpFunSell{
				Who:               whoW,
				FromToken:         mintB,
				FromTokenDecimals: 6,
				ToToken:           parser.WSOL_MINT.String(),
				ToTokenDecimals:   9,
				FromTokenAmount:   500_000,
				ToTokenAmount:     1_200_000_000,
			},
		},
	}

	events := Resolve(parsed)
	require.Len(t, events, 1)
	swap := events[0].(*PumpFunSwap)
	assert.Equal(t, "sell", swap.Type)
	assert.Equal(t, NativeSOLMint, swap.ToToken)
	assert.Equal(t, float64(1.2), swap.ToAmount)
}

func TestResolveNoSwapYieldsNothing(t *testing.T) {
	parsed := &parser.ParsedTransaction{
		Instructions: []parser.ParsedInstruction{
			&parser.SystemTransfer{Lamports: 1_000_000},
			&parser.ComputeBudgetSetComputeUnitLimit{ComputeUnitLimit: 200_000},
		},
	}
	assert.Empty(t, Resolve(parsed))
	assert.Empty(t, Resolve(nil))
}
