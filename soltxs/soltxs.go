// Package soltxs composes the normalizer, parser and resolver into one call
// for callers that only want the resulting events.
package soltxs

import (
	"github.com/soltxs/soltxs-go/normalizer"
	"github.com/soltxs/soltxs-go/parser"
	"github.com/soltxs/soltxs-go/resolver"
)

// Process runs a raw transaction payload through the full pipeline and
// returns the resolved events, zero or more. The only hard failure is a
// payload whose identity fields cannot be normalized.
func Process(payload []byte) ([]resolver.Event, error) {
	return ProcessWith(nil, payload)
}

// ProcessWith is Process with a caller-configured Parser, for callers that
// registered extra program decoders or changed the platform priority. A nil
// parser uses the package default.
func ProcessWith(p *parser.Parser, payload []byte) ([]resolver.Event, error) {
	tx, err := normalizer.Normalize(payload)
	if err != nil {
		return nil, err
	}

	var parsed *parser.ParsedTransaction
	if p != nil {
		parsed, err = p.Parse(tx)
	} else {
		parsed, err = parser.Parse(tx)
	}
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(parsed), nil
}

// Normalize re-exports the normalizer stage.
func Normalize(payload []byte) (*normalizer.Transaction, error) {
	return normalizer.Normalize(payload)
}

// Parse re-exports the parser stage with the default Parser.
func Parse(tx *normalizer.Transaction) (*parser.ParsedTransaction, error) {
	return parser.Parse(tx)
}

// Resolve re-exports the resolver stage.
func Resolve(parsed *parser.ParsedTransaction) []resolver.Event {
	return resolver.Resolve(parsed)
}
