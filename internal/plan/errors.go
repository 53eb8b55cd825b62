package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"contract-mapper/internal/diagnostic"
)

// DeferredError reports that a contract cannot be resolved yet because some
// symbols are not complete. It is not a failure: the contract is retried in
// the next round.
type DeferredError struct {
	Contract string
	// Symbols are the names that could not be introspected, sorted.
	Symbols []string
}

// Error implements the error interface.
func (e *DeferredError) Error() string {
	msg := fmt.Sprintf("%s: waiting for %s", diagnostic.CodeNotYetIntrospectable, strings.Join(e.Symbols, ", "))
	if e.Contract != "" {
		msg += " in " + e.Contract
	}

	return msg
}

// Diagnostic converts the deferral into a warning.
func (e *DeferredError) Diagnostic() diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     string(diagnostic.CodeNotYetIntrospectable),
		Message:  "waiting for " + strings.Join(e.Symbols, ", "),
		Contract: e.Contract,
	}
}

func newDeferred(symbols ...string) *DeferredError {
	seen := make(map[string]struct{}, len(symbols))
	uniq := make([]string, 0, len(symbols))

	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}

	sort.Strings(uniq)

	return &DeferredError{Symbols: uniq}
}

// IsDeferred reports whether err is a deferral.
func IsDeferred(err error) bool {
	var deferred *DeferredError
	return errors.As(err, &deferred)
}

// AsContractError extracts a permanent contract failure from err.
func AsContractError(err error) (*diagnostic.ContractError, bool) {
	var cerr *diagnostic.ContractError
	if errors.As(err, &cerr) {
		return cerr, true
	}

	return nil, false
}
