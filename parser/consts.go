package parser

import "github.com/gagliardetto/solana-go"

var (
	SYSTEM_PROGRAM_ID         = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	TOKEN_PROGRAM_ID          = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	COMPUTE_BUDGET_PROGRAM_ID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	PUMP_FUN_PROGRAM_ID       = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	RAYDIUM_CPMM_PROGRAM_ID   = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")

	WSOL_MINT = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

const SOL_DECIMALS = 9

// knownFrontends maps wallet/bot frontend fee accounts to display names. A
// transaction touching one of these was submitted through that frontend.
var knownFrontends = map[string]string{
	"tro46jTMkb56A3wPepo5HT7JcvX9wFWvR8VaJzgdjEf":  "Trojan",
	"9RYJ3qr5eU5xAooqVcbmdeusjcViL5Nkiq7Gske3tiKq": "BullX",
	"AVUCZyuT35YSuj4RH7fwiyPu82Djn2Hfg7y2ND2XcnZH": "Photon",
}
