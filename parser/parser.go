// Package parser routes every instruction of a normalized transaction to a
// program-specific decoder and derives cross-instruction addon summaries.
// One malformed instruction never aborts the rest of the transaction: it
// degrades to an Unknown variant carrying the original bytes.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/soltxs/soltxs-go/normalizer"
)

// ParsedTransaction is the output of Parse: one ParsedInstruction per walked
// instruction (outer and inner, in execution order) plus addon summaries.
type ParsedTransaction struct {
	Signatures   []string
	Instructions []ParsedInstruction
	Addons       Addons
}

// Parser holds the decoder registry and parse-time configuration. The
// registry is populated at construction and read-only afterwards, so one
// Parser is safe to share across concurrent workers.
type Parser struct {
	registry         map[string]Program
	platformPriority []string
	log              *logrus.Logger
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithProgram registers an additional program decoder. Supporting a new
// program is registering an entry, not modifying the router.
func WithProgram(p Program) Option {
	return func(ps *Parser) { ps.registry[p.ID()] = p }
}

// WithPlatformPriority sets the program-ID priority order used by the
// platform addon when several recognized AMM programs appear in one
// transaction. The default prefers PumpFun over Raydium.
func WithPlatformPriority(programIDs ...string) Option {
	return func(ps *Parser) { ps.platformPriority = programIDs }
}

// WithLogger replaces the parser's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(ps *Parser) { ps.log = log }
}

// New builds a Parser with the built-in decoders (System, Token,
// Compute Budget, PumpFun, Raydium CPMM) plus any options.
func New(opts ...Option) *Parser {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(logrus.WarnLevel)

	p := &Parser{
		registry: make(map[string]Program),
		platformPriority: []string{
			PUMP_FUN_PROGRAM_ID.String(),
			RAYDIUM_CPMM_PROGRAM_ID.String(),
		},
		log: log,
	}
	for _, prog := range []Program{
		newSystemProgram(),
		newTokenProgram(),
		newComputeBudgetProgram(),
		newPumpFunProgram(),
		newRaydiumCPMMProgram(),
	} {
		p.registry[prog.ID()] = prog
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses with a default Parser instance.
func Parse(tx *normalizer.Transaction) (*ParsedTransaction, error) {
	return defaultParser.Parse(tx)
}

// Parse walks every outer instruction followed by its inner group and
// produces exactly one ParsedInstruction for each, then runs the addon
// extractors over the full decoded list.
func (p *Parser) Parse(tx *normalizer.Transaction) (*ParsedTransaction, error) {
	accounts := tx.AllAccounts()
	ctx := &Context{
		Tx:        tx,
		Accounts:  accounts,
		tokenInfo: buildTokenInfo(tx, accounts),
	}

	var parsed []ParsedInstruction
	for i, outer := range tx.Message.Instructions {
		ctx.OuterIndex = i
		parsed = append(parsed, p.route(ctx, outer))
		for _, set := range tx.Meta.InnerInstructions {
			if set.Index != i {
				continue
			}
			for _, inner := range set.Instructions {
				parsed = append(parsed, p.route(ctx, inner))
			}
		}
	}

	// Inner groups whose index matches no outer instruction are still walked,
	// so the output stays total: one ParsedInstruction per input instruction.
	for _, set := range tx.Meta.InnerInstructions {
		if set.Index >= 0 && set.Index < len(tx.Message.Instructions) {
			continue
		}
		ctx.OuterIndex = set.Index
		for _, inner := range set.Instructions {
			parsed = append(parsed, p.route(ctx, inner))
		}
	}

	return &ParsedTransaction{
		Signatures:   tx.Signatures,
		Instructions: parsed,
		Addons:       p.enrich(ctx, parsed),
	}, nil
}

// route dispatches one instruction to its decoder. Any failure (unknown
// program, out-of-range account index, decode error, decoder panic) is
// contained here and yields an Unknown variant.
func (p *Parser) route(ctx *Context, ix normalizer.Instruction) (out ParsedInstruction) {
	programID := ""
	if ix.ProgramIDIndex >= 0 && ix.ProgramIDIndex < len(ctx.Accounts) {
		programID = ctx.Accounts[ix.ProgramIDIndex]
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Warnf("decoder panic for program %s: %v", programID, r)
			out = p.unknown(ctx, programID, ix)
		}
	}()

	if programID == "" {
		p.log.Debugf("program index %d outside account table (%d entries)", ix.ProgramIDIndex, len(ctx.Accounts))
		return p.unknown(ctx, programID, ix)
	}

	for _, idx := range ix.Accounts {
		if idx < 0 || idx >= len(ctx.Accounts) {
			p.log.Debugf("account index %d outside account table for program %s", idx, programID)
			return p.unknown(ctx, programID, ix)
		}
	}

	prog, ok := p.registry[programID]
	if !ok {
		return p.unknown(ctx, programID, ix)
	}

	decoded, err := prog.Decode(ctx, ix)
	if err != nil {
		p.log.Debugf("decode failed: %v", &DecodeError{ProgramID: programID, Reason: err.Error()})
		return p.unknown(ctx, programID, ix)
	}
	return decoded
}

func (p *Parser) unknown(ctx *Context, programID string, ix normalizer.Instruction) *Unknown {
	resolved := make([]string, 0, len(ix.Accounts))
	for _, idx := range ix.Accounts {
		if idx >= 0 && idx < len(ctx.Accounts) {
			resolved = append(resolved, ctx.Accounts[idx])
		}
	}
	return &Unknown{
		InstructionBase: InstructionBase{
			ProgramID:       programID,
			ProgramName:     "Unknown",
			InstructionName: "Unknown",
		},
		Data:           ix.Data,
		AccountIndexes: ix.Accounts,
		Accounts:       resolved,
	}
}
