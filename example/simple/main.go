package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/soltxs/soltxs-go/normalizer"
	"github.com/soltxs/soltxs-go/parser"
	"github.com/soltxs/soltxs-go/resolver"
)

// A minimal RPC-shaped payload: one compute budget instruction and one
// system transfer of 1,000,000 lamports.
const payload = `{
  "result": {
    "slot": 294525023,
    "blockTime": 1727376000,
    "transaction": {
      "signatures": ["5j2mQeXfTvFpXgifizCkZhs5bTD2nkXtjS3iCCo5ZWgxEmRmEuJ6rB29sg8zgkzabSnkwSAEeW7LM2pZ8rQCBn5c"],
      "message": {
        "accountKeys": [
          "GThUX1Atko4tqhN2NaiTazWSeFWMuiUvfFnyJyUghFMJ",
          "8psNvWTrdNTiVRNzAgsou9kETXNJm2SXZyaKuJraVRtf",
          "ComputeBudget111111111111111111111111111111",
          "11111111111111111111111111111111"
        ],
        "recentBlockhash": "9zMJLt8iN2H4RZp6hM3rN3QcVJskqBCT2XGqPXvjaVaK",
        "instructions": [
          {"programIdIndex": 2, "accounts": [], "data": "FjL4FH"},
          {"programIdIndex": 3, "accounts": [0, 1], "data": "3Bxs4Bc3VYuGVB19"}
        ]
      }
    },
    "meta": {
      "fee": 5000,
      "preBalances": [2000000000, 0, 1, 1],
      "postBalances": [1998995000, 1000000, 1, 1],
      "preTokenBalances": [],
      "postTokenBalances": [],
      "innerInstructions": [],
      "logMessages": [],
      "err": null,
      "computeUnitsConsumed": 450
    }
  }
}`

func main() {
	tx, err := normalizer.Normalize([]byte(payload))
	if err != nil {
		log.Fatalf("failed to normalize tx: %s", err)
	}

	parsed, err := parser.Parse(tx)
	if err != nil {
		log.Fatalf("failed to parse tx: %s", err)
	}

	marshalled, _ := json.MarshalIndent(parsed, "", "  ")
	fmt.Println(string(marshalled))

	events := resolver.Resolve(parsed)
	marshalledEvents, _ := json.MarshalIndent(events, "", "  ")
	fmt.Println(string(marshalledEvents))
}
