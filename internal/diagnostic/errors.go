package diagnostic

import (
	"fmt"
	"strings"
)

// Code classifies a contract failure.
type Code string

const (
	// CodeMissingCounterpart - a constructor parameter has no source member and no fallback.
	CodeMissingCounterpart Code = "missing_counterpart"
	// CodeConfiguration - the contract's own declaration is inconsistent.
	CodeConfiguration Code = "configuration_error"
	// CodeUnresolvedConversion - no strategy produced a plan for a type pair.
	CodeUnresolvedConversion Code = "unresolved_conversion"
	// CodeNotYetIntrospectable - a symbol is not complete yet; the contract is deferred.
	CodeNotYetIntrospectable Code = "not_yet_introspectable"
	// CodeMalformedOverride - a literal override is not in the accepted form.
	CodeMalformedOverride Code = "malformed_override_expression"
	// CodeEmission - the contract resolved but its mapper could not be emitted.
	CodeEmission Code = "emission_failed"
)

// ContractError is a permanent failure of one contract.
type ContractError struct {
	Code     Code
	Contract string
	// Param is the target constructor parameter being populated (if any).
	Param  string
	Source string
	Target string
	// Message describes the failure without the contract prefix.
	Message     string
	Suggestions []string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)

	if e.Contract != "" {
		fmt.Fprintf(&b, " in %s", e.Contract)
	}

	if e.Param != "" {
		fmt.Fprintf(&b, " (parameter %s)", e.Param)
	}

	return b.String()
}

// TypePair renders the source/target pair as "S->T", or "" when unknown.
func (e *ContractError) TypePair() string {
	if e.Source == "" && e.Target == "" {
		return ""
	}

	return e.Source + "->" + e.Target
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *ContractError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity:    DiagnosticError,
		Code:        string(e.Code),
		Message:     e.Message,
		Contract:    e.Contract,
		TypePair:    e.TypePair(),
		FieldPath:   e.Param,
		Suggestions: e.Suggestions,
	}
}

// WithContract returns a copy of the error attributed to the given contract
// when it does not carry one already.
func (e *ContractError) WithContract(id string) *ContractError {
	if e.Contract != "" {
		return e
	}

	cp := *e
	cp.Contract = id

	return &cp
}
