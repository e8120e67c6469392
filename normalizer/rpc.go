package normalizer

import "encoding/json"

// Standard JSON-RPC getTransaction response shape. Fields arrive camelCased,
// instruction data as base58/base64 blobs, meta under legacy field names.

type rpcResult struct {
	Slot        *uint64        `json:"slot"`
	BlockTime   *int64         `json:"blockTime"`
	Transaction rpcTransaction `json:"transaction"`
	Meta        *rpcMeta       `json:"meta"`
}

type rpcTransaction struct {
	Signatures []string   `json:"signatures"`
	Message    rpcMessage `json:"message"`
}

type rpcMessage struct {
	AccountKeys         []pubkey         `json:"accountKeys"`
	RecentBlockhash     string           `json:"recentBlockhash"`
	Instructions        []rpcInstruction `json:"instructions"`
	AddressTableLookups []rpcLookup      `json:"addressTableLookups"`
}

type rpcInstruction struct {
	ProgramIDIndex int       `json:"programIdIndex"`
	Accounts       indexList `json:"accounts"`
	Data           dataBlob  `json:"data"`
	StackHeight    *int      `json:"stackHeight"`
}

type rpcLookup struct {
	AccountKey      pubkey `json:"accountKey"`
	WritableIndexes []int  `json:"writableIndexes"`
	ReadonlyIndexes []int  `json:"readonlyIndexes"`
}

type rpcMeta struct {
	Fee                  uint64            `json:"fee"`
	PreBalances          []uint64          `json:"preBalances"`
	PostBalances         []uint64          `json:"postBalances"`
	PreTokenBalances     []rpcTokenBalance `json:"preTokenBalances"`
	PostTokenBalances    []rpcTokenBalance `json:"postTokenBalances"`
	InnerInstructions    []rpcInnerSet     `json:"innerInstructions"`
	LogMessages          []string          `json:"logMessages"`
	Err                  any               `json:"err"`
	ComputeUnitsConsumed *uint64           `json:"computeUnitsConsumed"`
	LoadedAddresses      *rpcLoaded        `json:"loadedAddresses"`
}

type rpcInnerSet struct {
	Index        int              `json:"index"`
	Instructions []rpcInstruction `json:"instructions"`
}

type rpcTokenBalance struct {
	AccountIndex  int            `json:"accountIndex"`
	Mint          pubkey         `json:"mint"`
	Owner         pubkey         `json:"owner"`
	ProgramID     pubkey         `json:"programId"`
	UITokenAmount rpcTokenAmount `json:"uiTokenAmount"`
}

type rpcTokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

type rpcLoaded struct {
	Writable []pubkey `json:"writable"`
	Readonly []pubkey `json:"readonly"`
}

func normalizeRPC(raw []byte) (*Transaction, error) {
	var res rpcResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &ValidationError{Reason: "malformed RPC result: " + err.Error()}
	}

	if res.Slot == nil {
		return nil, &ValidationError{Field: "slot", Reason: "missing"}
	}
	if len(res.Transaction.Signatures) == 0 {
		return nil, &ValidationError{Field: "signatures", Reason: "missing"}
	}
	if len(res.Transaction.Message.AccountKeys) == 0 {
		return nil, &ValidationError{Field: "accountKeys", Reason: "missing"}
	}

	tx := &Transaction{
		Slot:       *res.Slot,
		BlockTime:  res.BlockTime,
		Signatures: res.Transaction.Signatures,
		Message: Message{
			AccountKeys:         pubkeyStrings(res.Transaction.Message.AccountKeys),
			RecentBlockhash:     res.Transaction.Message.RecentBlockhash,
			Instructions:        convertRPCInstructions(res.Transaction.Message.Instructions),
			AddressTableLookups: convertRPCLookups(res.Transaction.Message.AddressTableLookups),
		},
	}

	if res.Meta != nil {
		tx.Meta = Meta{
			Fee:                  res.Meta.Fee,
			PreBalances:          orEmptyUint64(res.Meta.PreBalances),
			PostBalances:         orEmptyUint64(res.Meta.PostBalances),
			PreTokenBalances:     convertRPCTokenBalances(res.Meta.PreTokenBalances),
			PostTokenBalances:    convertRPCTokenBalances(res.Meta.PostTokenBalances),
			InnerInstructions:    convertRPCInnerSets(res.Meta.InnerInstructions),
			LogMessages:          orEmptyStrings(res.Meta.LogMessages),
			Err:                  res.Meta.Err,
			ComputeUnitsConsumed: res.Meta.ComputeUnitsConsumed,
		}
		if res.Meta.LoadedAddresses != nil {
			tx.LoadedAddresses = LoadedAddresses{
				Writable: pubkeyStrings(res.Meta.LoadedAddresses.Writable),
				Readonly: pubkeyStrings(res.Meta.LoadedAddresses.Readonly),
			}
		}
	}
	fillMetaDefaults(&tx.Meta)

	tx.LoadedAddresses, tx.UnresolvedAccountErr = resolveLoadedAddresses(tx.Message.AddressTableLookups, tx.LoadedAddresses)
	tx.UnresolvedAccounts = tx.UnresolvedAccountErr != nil
	return tx, nil
}

func convertRPCInstructions(in []rpcInstruction) []Instruction {
	out := make([]Instruction, len(in))
	for i, instr := range in {
		out[i] = Instruction{
			ProgramIDIndex: instr.ProgramIDIndex,
			Data:           instr.Data,
			Accounts:       orEmptyInts(instr.Accounts),
			StackHeight:    instr.StackHeight,
		}
	}
	return out
}

func convertRPCLookups(in []rpcLookup) []AddressTableLookup {
	out := make([]AddressTableLookup, len(in))
	for i, lu := range in {
		out[i] = AddressTableLookup{
			AccountKey:      string(lu.AccountKey),
			WritableIndexes: orEmptyInts(lu.WritableIndexes),
			ReadonlyIndexes: orEmptyInts(lu.ReadonlyIndexes),
		}
	}
	return out
}

func convertRPCInnerSets(in []rpcInnerSet) []InnerInstructionSet {
	out := make([]InnerInstructionSet, len(in))
	for i, set := range in {
		out[i] = InnerInstructionSet{
			Index:        set.Index,
			Instructions: convertRPCInstructions(set.Instructions),
		}
	}
	return out
}

func convertRPCTokenBalances(in []rpcTokenBalance) []TokenBalance {
	out := make([]TokenBalance, len(in))
	for i, tb := range in {
		out[i] = TokenBalance{
			AccountIndex: tb.AccountIndex,
			Mint:         string(tb.Mint),
			Owner:        string(tb.Owner),
			ProgramID:    string(tb.ProgramID),
			UITokenAmount: TokenAmount{
				Amount:         tb.UITokenAmount.Amount,
				Decimals:       tb.UITokenAmount.Decimals,
				UIAmount:       tb.UITokenAmount.UIAmount,
				UIAmountString: tb.UITokenAmount.UIAmountString,
			},
		}
	}
	return out
}
