package parser

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltxs/soltxs-go/normalizer"
)

// testKey builds a deterministic base58 account key from a filler byte.
func testKey(filler byte) string {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{filler}, 32)).String()
}

func u32LE(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

func u64LE(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func newTestTx(accounts []string, instructions []normalizer.Instruction) *normalizer.Transaction {
	blockTime := int64(1727376000)
	return &normalizer.Transaction{
		Slot:       294525023,
		BlockTime:  &blockTime,
		Signatures: []string{"5j2mQeXfTvFpXgifizCkZhs5bTD2nkXtjS3iCCo5ZWgxEmRmEuJ6rB29sg8zgkzabSnkwSAEeW7LM2pZ8rQCBn5c"},
		Message: normalizer.Message{
			AccountKeys:  accounts,
			Instructions: instructions,
		},
		Meta: normalizer.Meta{
			Fee: 5000,
		},
	}
}

func TestComputeBudgetAndTransfer(t *testing.T) {
	payer := testKey(1)
	dest := testKey(2)
	accounts := []string{payer, dest, COMPUTE_BUDGET_PROGRAM_ID.String(), SYSTEM_PROGRAM_ID.String()}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 2, Data: append([]byte{2}, u32LE(1_000_000)...)},
		{ProgramIDIndex: 3, Accounts: []int{0, 1}, Data: append(u32LE(2), u64LE(1_000_000)...)},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 2)

	limit, ok := parsed.Instructions[0].(*ComputeBudgetSetComputeUnitLimit)
	require.True(t, ok)
	assert.Equal(t, uint32(1_000_000), limit.ComputeUnitLimit)

	transfer, ok := parsed.Instructions[1].(*SystemTransfer)
	require.True(t, ok)
	assert.Equal(t, uint64(1_000_000), transfer.Lamports)
	assert.Equal(t, payer, transfer.FromAccount)
	assert.Equal(t, dest, transfer.ToAccount)

	require.NotNil(t, parsed.Addons.InstructionCount)
	assert.Equal(t, 2, parsed.Addons.InstructionCount.Total)
}

func TestUnknownProgramPreservesRawData(t *testing.T) {
	unknownProgram := testKey(9)
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	accounts := []string{testKey(1), unknownProgram}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 1, Accounts: []int{0}, Data: raw},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 1)

	unknown, ok := parsed.Instructions[0].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, unknownProgram, unknown.ProgramID)
	assert.Equal(t, raw, unknown.Data)
	assert.Equal(t, []int{0}, unknown.AccountIndexes)
	assert.Equal(t, []string{testKey(1)}, unknown.Accounts)
}

func TestTruncatedTokenInstructionDegradesAlone(t *testing.T) {
	accounts := []string{testKey(1), testKey(2), testKey(3), TOKEN_PROGRAM_ID.String(), SYSTEM_PROGRAM_ID.String()}

	tx := newTestTx(accounts, []normalizer.Instruction{
		// Transfer discriminant but only one byte of the amount.
		{ProgramIDIndex: 3, Accounts: []int{0, 1, 2}, Data: []byte{3, 0x01}},
		{ProgramIDIndex: 4, Accounts: []int{0, 1}, Data: append(u32LE(2), u64LE(42)...)},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 2)

	degraded, ok := parsed.Instructions[0].(*TokenUnknown)
	require.True(t, ok)
	assert.Equal(t, []byte{3, 0x01}, degraded.Data)
	assert.Equal(t, "TokenProgram", degraded.ProgramName)

	_, ok = parsed.Instructions[1].(*SystemTransfer)
	assert.True(t, ok)
}

func TestOutOfRangeAccountIndexDegrades(t *testing.T) {
	accounts := []string{testKey(1), SYSTEM_PROGRAM_ID.String()}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 1, Accounts: []int{0, 17}, Data: append(u32LE(2), u64LE(42)...)},
	})

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 1)
	_, ok := parsed.Instructions[0].(*Unknown)
	assert.True(t, ok)
}

func TestTotalityWithInnerInstructions(t *testing.T) {
	accounts := []string{testKey(1), testKey(2), testKey(3), TOKEN_PROGRAM_ID.String(), testKey(9)}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 4, Accounts: []int{0}, Data: []byte{1, 2, 3}},
		{ProgramIDIndex: 4, Accounts: []int{0}, Data: []byte{4, 5, 6}},
	})
	tx.Meta.InnerInstructions = []normalizer.InnerInstructionSet{
		{Index: 0, Instructions: []normalizer.Instruction{
			{ProgramIDIndex: 3, Accounts: []int{0, 1, 2}, Data: append([]byte{3}, u64LE(10)...)},
			{ProgramIDIndex: 3, Accounts: []int{1, 0, 2}, Data: append([]byte{3}, u64LE(20)...)},
		}},
		{Index: 1, Instructions: []normalizer.Instruction{
			{ProgramIDIndex: 3, Accounts: []int{0, 1, 2}, Data: append([]byte{3}, u64LE(30)...)},
		}},
	}

	parsed, err := Parse(tx)
	require.NoError(t, err)
	assert.Len(t, parsed.Instructions, 5)

	// Inner instructions follow their owning outer instruction.
	_, ok := parsed.Instructions[0].(*Unknown)
	assert.True(t, ok)
	first, ok := parsed.Instructions[1].(*TokenTransfer)
	require.True(t, ok)
	assert.Equal(t, uint64(10), first.Amount)
	last, ok := parsed.Instructions[4].(*TokenTransfer)
	require.True(t, ok)
	assert.Equal(t, uint64(30), last.Amount)
}

func TestTotalityWithOrphanInnerGroup(t *testing.T) {
	accounts := []string{testKey(1), testKey(2), SYSTEM_PROGRAM_ID.String()}

	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 2, Accounts: []int{0, 1}, Data: append(u32LE(2), u64LE(100)...)},
	})
	// An inner group pointing at an outer index that does not exist still
	// contributes its instructions to the output.
	tx.Meta.InnerInstructions = []normalizer.InnerInstructionSet{
		{Index: 5, Instructions: []normalizer.Instruction{
			{ProgramIDIndex: 2, Accounts: []int{1, 0}, Data: append(u32LE(2), u64LE(25)...)},
		}},
	}

	parsed, err := Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 2)

	orphan, ok := parsed.Instructions[1].(*SystemTransfer)
	require.True(t, ok)
	assert.Equal(t, uint64(25), orphan.Lamports)
	assert.Equal(t, testKey(2), orphan.FromAccount)

	require.NotNil(t, parsed.Addons.InstructionCount)
	assert.Equal(t, 2, parsed.Addons.InstructionCount.Total)
}

func TestParseIsIdempotent(t *testing.T) {
	accounts := []string{testKey(1), testKey(2), SYSTEM_PROGRAM_ID.String()}
	tx := newTestTx(accounts, []normalizer.Instruction{
		{ProgramIDIndex: 2, Accounts: []int{0, 1}, Data: append(u32LE(2), u64LE(7)...)},
	})

	first, err := Parse(tx)
	require.NoError(t, err)
	second, err := Parse(tx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type staticProgram struct {
	id string
}

func (s *staticProgram) ID() string   { return s.id }
func (s *staticProgram) Name() string { return "Static" }
func (s *staticProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	return &Unknown{
		InstructionBase: InstructionBase{ProgramID: s.id, ProgramName: s.Name(), InstructionName: "Static"},
		Data:            ix.Data,
	}, nil
}

func TestWithProgramExtendsRegistry(t *testing.T) {
	programID := testKey(42)
	p := New(WithProgram(&staticProgram{id: programID}))

	tx := newTestTx([]string{testKey(1), programID}, []normalizer.Instruction{
		{ProgramIDIndex: 1, Data: []byte{1}},
	})

	parsed, err := p.Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 1)
	assert.Equal(t, "Static", parsed.Instructions[0].Base().InstructionName)
}

type panickyProgram struct {
	id string
}

func (s *panickyProgram) ID() string   { return s.id }
func (s *panickyProgram) Name() string { return "Panicky" }
func (s *panickyProgram) Decode(ctx *Context, ix normalizer.Instruction) (ParsedInstruction, error) {
	panic("boom")
}

func TestDecoderPanicIsContained(t *testing.T) {
	programID := testKey(43)
	p := New(WithProgram(&panickyProgram{id: programID}))

	tx := newTestTx([]string{testKey(1), programID, SYSTEM_PROGRAM_ID.String()}, []normalizer.Instruction{
		{ProgramIDIndex: 1, Data: []byte{1, 2, 3}},
		{ProgramIDIndex: 2, Accounts: []int{0, 0}, Data: append(u32LE(2), u64LE(11)...)},
	})

	parsed, err := p.Parse(tx)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 2)

	unknown, ok := parsed.Instructions[0].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, unknown.Data)
	_, ok = parsed.Instructions[1].(*SystemTransfer)
	assert.True(t, ok)
}
