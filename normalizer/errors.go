package normalizer

import "fmt"

// ValidationError is the only hard failure Normalize returns: a required
// identity field (slot, signatures, account keys) is missing or the top-level
// payload shape is unrecognized. Everything else degrades to defaults.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid transaction payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid transaction payload: field %q: %s", e.Field, e.Reason)
}

// UnresolvedAccountError records an address-table lookup that could not be
// satisfied. It is never returned from Normalize; it is carried on the
// transaction as UnresolvedAccountErr and affected instructions degrade to
// Unknown during parsing.
type UnresolvedAccountError struct {
	TableKey string
	Reason   string
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("unresolved address table %s: %s", e.TableKey, e.Reason)
}
