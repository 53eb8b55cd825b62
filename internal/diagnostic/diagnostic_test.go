package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsAddRoutesBySeverity(t *testing.T) {
	var d Diagnostics

	d.Add(Diagnostic{Severity: DiagnosticInfo, Message: "resolved"})
	d.Add(Diagnostic{Severity: DiagnosticWarning, Message: "deferred"})
	d.Add(Diagnostic{Severity: DiagnosticError, Message: "failed"})

	assert.Len(t, d.Infos, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Errors, 1)
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())
	require.Error(t, d.Error())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Code:        string(CodeMissingCounterpart),
		Message:     "no counterpart for firstName",
		Contract:    "PersonMapper.map(model.Person)",
		TypePair:    "model.Person->dto.Person",
		FieldPath:   "firstName",
		Suggestions: []string{"firstname"},
	}

	assert.Equal(t,
		"PersonMapper.map(model.Person) [model.Person->dto.Person] firstName: "+
			"[missing_counterpart] no counterpart for firstName (did you mean firstname?)",
		d.String())
}

func TestContractError(t *testing.T) {
	err := &ContractError{
		Code:    CodeUnresolvedConversion,
		Param:   "age",
		Source:  "Int?",
		Target:  "Int",
		Message: "no conversion from Int? to Int",
	}

	attributed := err.WithContract("M.map(S)")
	assert.Empty(t, err.Contract)
	assert.Equal(t, "M.map(S)", attributed.Contract)
	assert.Same(t, attributed, attributed.WithContract("other"))

	wrapped := fmt.Errorf("round 2: %w", attributed)

	var target *ContractError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, CodeUnresolvedConversion, target.Code)
	assert.Equal(t, "unresolved_conversion: no conversion from Int? to Int in M.map(S) (parameter age)", target.Error())

	diag := target.Diagnostic()
	assert.Equal(t, DiagnosticError, diag.Severity)
	assert.Equal(t, "Int?->Int", diag.TypePair)
	assert.Equal(t, "age", diag.FieldPath)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
