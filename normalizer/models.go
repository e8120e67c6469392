package normalizer

// Transaction is the canonical representation every supported payload shape is
// normalized into. All downstream packages consume this model and nothing else.
type Transaction struct {
	Slot       uint64
	BlockTime  *int64
	Signatures []string
	Message    Message
	Meta       Meta
	LoadedAddresses LoadedAddresses

	// UnresolvedAccounts is set when address-table lookups reference tables
	// whose resolved addresses are missing or inconsistent. Instructions that
	// index past the static keys then degrade to Unknown during parsing.
	// UnresolvedAccountErr carries the detail of the mismatch when set.
	UnresolvedAccounts   bool
	UnresolvedAccountErr *UnresolvedAccountError
}

// AllAccounts returns the resolved account table: static message keys followed
// by writable then readonly loaded addresses. This ordering is the index space
// instructions use and must not change.
func (tx *Transaction) AllAccounts() []string {
	combined := make([]string, 0, len(tx.Message.AccountKeys)+len(tx.LoadedAddresses.Writable)+len(tx.LoadedAddresses.Readonly))
	combined = append(combined, tx.Message.AccountKeys...)
	combined = append(combined, tx.LoadedAddresses.Writable...)
	combined = append(combined, tx.LoadedAddresses.Readonly...)
	return combined
}

type Message struct {
	AccountKeys         []string
	RecentBlockhash     string
	Instructions        []Instruction
	AddressTableLookups []AddressTableLookup
}

// Instruction is a compiled instruction with its opaque data already decoded
// to raw bytes. Accounts are indices into the resolved account table.
type Instruction struct {
	ProgramIDIndex int
	Data           []byte
	Accounts       []int
	StackHeight    *int
}

type AddressTableLookup struct {
	AccountKey      string
	WritableIndexes []int
	ReadonlyIndexes []int
}

type Meta struct {
	Fee                  uint64
	PreBalances          []uint64
	PostBalances         []uint64
	PreTokenBalances     []TokenBalance
	PostTokenBalances    []TokenBalance
	InnerInstructions    []InnerInstructionSet
	LogMessages          []string
	Err                  any
	ComputeUnitsConsumed *uint64
}

// InnerInstructionSet groups the instructions emitted while executing the
// outer instruction at Index.
type InnerInstructionSet struct {
	Index        int
	Instructions []Instruction
}

type TokenBalance struct {
	AccountIndex  int
	Mint          string
	Owner         string
	ProgramID     string
	UITokenAmount TokenAmount
}

type TokenAmount struct {
	Amount         string
	Decimals       uint8
	UIAmount       *float64
	UIAmountString string
}

type LoadedAddresses struct {
	Writable []string
	Readonly []string
}
