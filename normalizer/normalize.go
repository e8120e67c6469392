// Package normalizer canonicalizes heterogeneous Solana transaction payloads
// (standard JSON-RPC responses and Geyser-style streaming messages) into one
// Transaction model with all binary fields decoded and every optional field
// given an explicit default.
package normalizer

import (
	"encoding/json"

	"github.com/mr-tron/base58"
)

// Normalize detects the payload shape by structural probing and converts it
// into the canonical Transaction. It returns a *ValidationError when the
// shape is unrecognized or the required identity fields (slot, signatures,
// account keys) are absent; anything else degrades to defaults.
func Normalize(payload []byte) (*Transaction, error) {
	var probe struct {
		Result      json.RawMessage `json:"result"`
		Transaction json.RawMessage `json:"transaction"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, &ValidationError{Reason: "not a JSON object: " + err.Error()}
	}

	// Standard RPC responses wrap the result; callers may also hand us the
	// unwrapped result object directly.
	if len(probe.Result) > 0 && string(probe.Result) != "null" {
		return normalizeRPC(probe.Result)
	}

	if len(probe.Transaction) == 0 || string(probe.Transaction) == "null" {
		return nil, &ValidationError{Reason: "unrecognized payload shape"}
	}

	var msgProbe struct {
		Message struct {
			CamelKeys []json.RawMessage `json:"accountKeys"`
			SnakeKeys []json.RawMessage `json:"account_keys"`
		} `json:"message"`
	}
	if err := json.Unmarshal(probe.Transaction, &msgProbe); err != nil {
		return nil, &ValidationError{Reason: "unrecognized payload shape"}
	}

	switch {
	case len(msgProbe.Message.SnakeKeys) > 0:
		return normalizeGeyser(payload)
	case len(msgProbe.Message.CamelKeys) > 0:
		return normalizeRPC(payload)
	default:
		return nil, &ValidationError{Field: "accountKeys", Reason: "missing"}
	}
}

// indexList accepts account indices as a JSON int array or as a packed byte
// string (base64, as protobuf JSON emits bytes fields).
type indexList []int

func (l *indexList) UnmarshalJSON(raw []byte) error {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err == nil {
		*l = ints
		return nil
	}
	var packed dataBlob
	if err := packed.UnmarshalJSON(raw); err == nil && packed != nil {
		out := make([]int, len(packed))
		for i, b := range packed {
			out[i] = int(b)
		}
		*l = out
		return nil
	}
	*l = nil
	return nil
}

func blobBase58(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base58.Encode(b)
}

func blobSignatures(sigs []dataBlob) []string {
	out := make([]string, 0, len(sigs))
	for _, s := range sigs {
		if enc := blobBase58(s); enc != "" {
			out = append(out, enc)
		}
	}
	return out
}

// fillMetaDefaults replaces nil collections so no "maybe present" ambiguity
// escapes the normalizer boundary.
func fillMetaDefaults(m *Meta) {
	if m.PreBalances == nil {
		m.PreBalances = []uint64{}
	}
	if m.PostBalances == nil {
		m.PostBalances = []uint64{}
	}
	if m.PreTokenBalances == nil {
		m.PreTokenBalances = []TokenBalance{}
	}
	if m.PostTokenBalances == nil {
		m.PostTokenBalances = []TokenBalance{}
	}
	if m.InnerInstructions == nil {
		m.InnerInstructions = []InnerInstructionSet{}
	}
	if m.LogMessages == nil {
		m.LogMessages = []string{}
	}
}

func orEmptyUint64(in []uint64) []uint64 {
	if in == nil {
		return []uint64{}
	}
	return in
}

func orEmptyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func orEmptyInts(in []int) []int {
	if in == nil {
		return []int{}
	}
	return in
}
