package normalizer

import "encoding/json"

// Streaming (Geyser-style) shape: flatter than the RPC envelope, snake_cased
// keys, binary fields either pre-decoded byte arrays or packed strings, and
// optional fields such as block_time frequently absent. Meta may sit at the
// top level or inside the transaction object depending on the producer.

type geyserPayload struct {
	Slot        *uint64           `json:"slot"`
	BlockTime   *int64            `json:"block_time"`
	Transaction geyserTransaction `json:"transaction"`
	Meta        *geyserMeta       `json:"meta"`
}

type geyserTransaction struct {
	Signatures []dataBlob    `json:"signatures"`
	Message    geyserMessage `json:"message"`
	Meta       *geyserMeta   `json:"meta"`
}

type geyserMessage struct {
	AccountKeys         []pubkey            `json:"account_keys"`
	RecentBlockhash     dataBlob            `json:"recent_blockhash"`
	Instructions        []geyserInstruction `json:"instructions"`
	AddressTableLookups []geyserLookup      `json:"address_table_lookups"`
}

type geyserInstruction struct {
	ProgramIDIndex int       `json:"program_id_index"`
	Accounts       indexList `json:"accounts"`
	Data           dataBlob  `json:"data"`
	StackHeight    *int      `json:"stack_height"`
}

type geyserLookup struct {
	AccountKey      pubkey    `json:"account_key"`
	WritableIndexes indexList `json:"writable_indexes"`
	ReadonlyIndexes indexList `json:"readonly_indexes"`
}

type geyserMeta struct {
	Fee                  uint64               `json:"fee"`
	PreBalances          []uint64             `json:"pre_balances"`
	PostBalances         []uint64             `json:"post_balances"`
	PreTokenBalances     []geyserTokenBalance `json:"pre_token_balances"`
	PostTokenBalances    []geyserTokenBalance `json:"post_token_balances"`
	InnerInstructions    []geyserInnerSet     `json:"inner_instructions"`
	LogMessages          []string             `json:"log_messages"`
	Err                  any                  `json:"err"`
	ComputeUnitsConsumed *uint64              `json:"compute_units_consumed"`
	LoadedWritable       []pubkey             `json:"loaded_writable_addresses"`
	LoadedReadonly       []pubkey             `json:"loaded_readonly_addresses"`
	LoadedAddresses      *geyserLoaded        `json:"loaded_addresses"`
}

type geyserLoaded struct {
	Writable []pubkey `json:"writable"`
	Readonly []pubkey `json:"readonly"`
}

type geyserInnerSet struct {
	Index        int                 `json:"index"`
	Instructions []geyserInstruction `json:"instructions"`
}

type geyserTokenBalance struct {
	AccountIndex  int            `json:"account_index"`
	Mint          pubkey         `json:"mint"`
	Owner         pubkey         `json:"owner"`
	ProgramID     pubkey         `json:"program_id"`
	UITokenAmount rpcTokenAmount `json:"ui_token_amount"`
}

func normalizeGeyser(raw []byte) (*Transaction, error) {
	var p geyserPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ValidationError{Reason: "malformed streaming payload: " + err.Error()}
	}

	if p.Slot == nil {
		return nil, &ValidationError{Field: "slot", Reason: "missing"}
	}
	if len(p.Transaction.Signatures) == 0 {
		return nil, &ValidationError{Field: "signatures", Reason: "missing"}
	}
	if len(p.Transaction.Message.AccountKeys) == 0 {
		return nil, &ValidationError{Field: "account_keys", Reason: "missing"}
	}

	meta := p.Meta
	if meta == nil {
		meta = p.Transaction.Meta
	}

	tx := &Transaction{
		Slot:       *p.Slot,
		BlockTime:  p.BlockTime,
		Signatures: blobSignatures(p.Transaction.Signatures),
		Message: Message{
			AccountKeys:         pubkeyStrings(p.Transaction.Message.AccountKeys),
			RecentBlockhash:     blobBase58(p.Transaction.Message.RecentBlockhash),
			Instructions:        convertGeyserInstructions(p.Transaction.Message.Instructions),
			AddressTableLookups: convertGeyserLookups(p.Transaction.Message.AddressTableLookups),
		},
	}

	if meta != nil {
		tx.Meta = Meta{
			Fee:                  meta.Fee,
			PreBalances:          orEmptyUint64(meta.PreBalances),
			PostBalances:         orEmptyUint64(meta.PostBalances),
			PreTokenBalances:     convertGeyserTokenBalances(meta.PreTokenBalances),
			PostTokenBalances:    convertGeyserTokenBalances(meta.PostTokenBalances),
			InnerInstructions:    convertGeyserInnerSets(meta.InnerInstructions),
			LogMessages:          orEmptyStrings(meta.LogMessages),
			Err:                  meta.Err,
			ComputeUnitsConsumed: meta.ComputeUnitsConsumed,
		}
		switch {
		case meta.LoadedAddresses != nil:
			tx.LoadedAddresses = LoadedAddresses{
				Writable: pubkeyStrings(meta.LoadedAddresses.Writable),
				Readonly: pubkeyStrings(meta.LoadedAddresses.Readonly),
			}
		default:
			tx.LoadedAddresses = LoadedAddresses{
				Writable: pubkeyStrings(meta.LoadedWritable),
				Readonly: pubkeyStrings(meta.LoadedReadonly),
			}
		}
	}
	fillMetaDefaults(&tx.Meta)

	tx.LoadedAddresses, tx.UnresolvedAccountErr = resolveLoadedAddresses(tx.Message.AddressTableLookups, tx.LoadedAddresses)
	tx.UnresolvedAccounts = tx.UnresolvedAccountErr != nil
	return tx, nil
}

func convertGeyserInstructions(in []geyserInstruction) []Instruction {
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

func convertGeyserLookups(in []geyserLookup) []AddressTableLookup {
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

func convertGeyserInnerSets(in []geyserInnerSet) []InnerInstructionSet {
	out := make([]InnerInstructionSet, len(in))
	for i, set := range in {
		out[i] = InnerInstructionSet{
			Index:        set.Index,
			Instructions: convertGeyserInstructions(set.Instructions),
		}
	}
	return out
}

func convertGeyserTokenBalances(in []geyserTokenBalance) []TokenBalance {
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
