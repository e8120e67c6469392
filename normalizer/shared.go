package normalizer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// systemProgram33 is the 33-ones spelling of the system program key that some
// payload producers emit. It is canonicalized to the 32-ones key.
const (
	systemProgram33 = "111111111111111111111111111111111"
	systemProgram32 = "11111111111111111111111111111111"
)

// dataBlob accepts the four encodings instruction data arrives in across
// payload shapes: a base58 string, a base64 string, a [data, encoding] tuple,
// or a raw JSON byte array (pre-decoded streaming payloads).
type dataBlob []byte

func (d *dataBlob) UnmarshalJSON(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		*d = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*d = decodeBlobString(s, "")
		return nil
	}

	// [data, "base64"] / [data, "base58"] tuple.
	var tuple []string
	if err := json.Unmarshal(raw, &tuple); err == nil && len(tuple) == 2 {
		*d = decodeBlobString(tuple[0], tuple[1])
		return nil
	}

	// Raw byte array. json maps []byte to base64 strings, so the array form
	// needs an explicit integer slice.
	var nums []uint16
	if err := json.Unmarshal(raw, &nums); err == nil {
		out := make([]byte, len(nums))
		for i, n := range nums {
			if n > 0xff {
				*d = nil
				return nil
			}
			out[i] = byte(n)
		}
		*d = out
		return nil
	}

	// Unrecognized encodings degrade to empty data; the affected instruction
	// parses to Unknown downstream instead of failing the transaction.
	*d = nil
	return nil
}

func decodeBlobString(s, encoding string) []byte {
	if s == "" {
		return nil
	}
	switch encoding {
	case "base64":
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			return b
		}
		return nil
	case "base58":
		if b, err := base58.Decode(s); err == nil {
			return b
		}
		return nil
	}

	if b, err := base58.Decode(s); err == nil {
		return b
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}
	return nil
}

// pubkey accepts an account key as either a base58 string or a raw 32-byte
// array and stores the base58 form.
type pubkey string

func (p *pubkey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*p = pubkey(s)
		return nil
	}
	var blob dataBlob
	if err := blob.UnmarshalJSON(raw); err == nil && len(blob) > 0 {
		*p = pubkey(base58.Encode(blob))
		return nil
	}
	*p = ""
	return nil
}

func pubkeyStrings(keys []pubkey) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = unifyProgramID(string(k))
	}
	return out
}

// unifyProgramID canonicalizes the 33-ones system program spelling.
func unifyProgramID(key string) string {
	if key == systemProgram33 {
		return systemProgram32
	}
	return key
}

// resolveLoadedAddresses validates the loaded-address lists against the
// message's address-table lookups. The lists stay authoritative for the
// account table either way; a mismatch only records an UnresolvedAccountError
// on the transaction so downstream parsing degrades instead of aborting.
func resolveLoadedAddresses(lookups []AddressTableLookup, loaded LoadedAddresses) (LoadedAddresses, *UnresolvedAccountError) {
	if len(lookups) == 0 {
		return loaded, nil
	}

	wantWritable, wantReadonly := 0, 0
	for _, lu := range lookups {
		wantWritable += len(lu.WritableIndexes)
		wantReadonly += len(lu.ReadonlyIndexes)
	}

	if wantWritable != len(loaded.Writable) || wantReadonly != len(loaded.Readonly) {
		return loaded, &UnresolvedAccountError{
			TableKey: lookups[0].AccountKey,
			Reason: fmt.Sprintf("lookups reference %d writable and %d readonly addresses, meta loaded %d and %d",
				wantWritable, wantReadonly, len(loaded.Writable), len(loaded.Readonly)),
		}
	}
	return loaded, nil
}
