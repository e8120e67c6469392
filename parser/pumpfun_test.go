package parser

import (
	"bytes"
	"testing"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltxs/soltxs-go/normalizer"
)

func tradeEventData(t *testing.T, ev PumpfunTradeEvent) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := ag_binary.NewBorshEncoder(&buf)
	require.NoError(t, enc.Encode(ev))
	return append(pumpfunTradeEventDiscriminator[:], buf.Bytes()...)
}

func pumpfunAccounts(mint, user string) []string {
	accounts := make([]string, 0, 9)
	for i := byte(0); i < 8; i++ {
		accounts = append(accounts, testKey(0x20+i))
	}
	accounts[2] = mint
	accounts[6] = user
	return append(accounts, PUMP_FUN_PROGRAM_ID.String())
}

func TestPumpFunBuyWithTradeEvent(t *testing.T) {
	mint := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x51}, 32))
	user := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x61}, 32))
	accounts := pumpfunAccounts(mint.String(), user.String())

	data := append(pumpfunBuyDiscriminator[:], u64LE(500_000)...)
	data = append(data, u64LE(2_000_000_000)...)

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 8, Accounts: []int{0, 1, 2, 3, 4, 5, 6, 7}, Data: data},
	})
	uiAmount := 0.5
	tx.Meta.PostTokenBalances = []normalizer.TokenBalance{
		{AccountIndex: 1, Mint: mint.String(), Owner: user.String(), UITokenAmount: normalizer.TokenAmount{Amount: "500000", Decimals: 6, UIAmount: &uiAmount}},
	}
	tx.Meta.InnerInstructions = []normalizer.InnerInstructionSet{
		{Index: 0, Instructions: []normalizer.Instruction{
			{ProgramIDIndex: 8, Data: tradeEventData(t, PumpfunTradeEvent{
				Mint:        mint,
				SolAmount:   1_500_000_000,
				TokenAmount: 500_000,
				IsBuy:       true,
				User:        user,
				Timestamp:   1727376000,
			})},
		}},
	}

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 2)

	buy, ok := parsed.Instructions[0].(*PumpFunBuy)
	require.True(t, ok)
	assert.Equal(t, user.String(), buy.Who)
	assert.Equal(t, WSOL_MINT.String(), buy.FromToken)
	// SOL leg comes from the TradeEvent, not the instruction args.
	assert.Equal(t, uint64(1_500_000_000), buy.FromTokenAmount)
	assert.Equal(t, mint.String(), buy.ToToken)
	assert.Equal(t, uint64(500_000), buy.ToTokenAmount)
	assert.Equal(t, uint8(6), buy.ToTokenDecimals)
	assert.Equal(t, uint64(2_000_000_000), buy.MaxSolCost)
}

func TestPumpFunSellWithoutTradeEvent(t *testing.T) {
	mint := testKey(0x52)
	user := testKey(0x62)
	accounts := pumpfunAccounts(mint, user)

	data := append(pumpfunSellDiscriminator[:], u64LE(750_000)...)
	data = append(data, u64LE(900_000_000)...)

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 8, Accounts: []int{0, 1, 2, 3, 4, 5, 6, 7}, Data: data},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 1)

	sell, ok := parsed.Instructions[0].(*PumpFunSell)
	require.True(t, ok)
	assert.Equal(t, user, sell.Who)
	assert.Equal(t, mint, sell.FromToken)
	assert.Equal(t, uint64(750_000), sell.FromTokenAmount)
	assert.Equal(t, WSOL_MINT.String(), sell.ToToken)
	// No TradeEvent means the SOL leg is unobserved.
	assert.Equal(t, uint64(0), sell.ToTokenAmount)
	assert.Equal(t, uint64(900_000_000), sell.MinSolOutput)
}

func TestPumpFunUnknownDiscriminant(t *testing.T) {
	accounts := pumpfunAccounts(testKey(0x53), testKey(0x63))
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 8, Data: data},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	unknown, ok := parsed.Instructions[0].(*PumpFunUnknown)
	require.True(t, ok)
	assert.Equal(t, data, unknown.Data)
}

func TestAnchorDiscriminator(t *testing.T) {
	assert.Equal(t, [8]byte{102, 6, 61, 18, 1, 218, 235, 234}, anchorDiscriminator("global:buy"))
	assert.Equal(t, [8]byte{51, 230, 133, 164, 1, 127, 131, 173}, anchorDiscriminator("global:sell"))
}
