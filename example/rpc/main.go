package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"

	"github.com/soltxs/soltxs-go/soltxs"
)

func main() {
	godotenv.Load()

	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.MainNetBeta.RPC
	}
	rpcClient := rpc.New(rpcURL)

	txSig := solana.MustSignatureFromBase58("4Cod1cNGv6RboJ7rSB79yeVCR4Lfd25rFgLY3eiPJfTJjTGyYP1r2i1upAYZHQsWDqUbGd1bhTRm1bpSQcpWMnEz")

	var maxTxVersion uint64 = 0
	tx, err := rpcClient.GetTransaction(
		context.TODO(),
		txSig,
		&rpc.GetTransactionOpts{
			Encoding:                       solana.EncodingJSON,
			Commitment:                     rpc.CommitmentConfirmed,
			MaxSupportedTransactionVersion: &maxTxVersion,
		},
	)
	if err != nil {
		log.Fatalf("error getting tx: %s", err)
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		log.Fatalf("error marshalling tx: %s", err)
	}

	events, err := soltxs.Process(payload)
	if err != nil {
		log.Fatalf("error processing tx: %s", err)
	}

	marshalledEvents, _ := json.MarshalIndent(events, "", "  ")
	fmt.Println(string(marshalledEvents))
}
