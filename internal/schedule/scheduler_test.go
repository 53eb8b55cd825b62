package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// chainYAML declares n mappers. Stage k reads the document completed by
// stage k-1, which becomes visible only once stage k-1 is emitted.
func chainYAML(n int) string {
	var b strings.Builder

	b.WriteString("types:\n")
	b.WriteString("  - name: doc.Input\n    members: [{text: String}]\n")

	for k := 1; k <= n; k++ {
		fmt.Fprintf(&b, "  - name: doc.Out%d\n    members: [{text: String}]\n", k)

		if k < n {
			fmt.Fprintf(&b, "  - name: doc.Doc%d\n    members: [{text: String}]\n    generated_by: Stage%d\n", k, k)
		}
	}

	b.WriteString("mappers:\n")

	for k := 1; k <= n; k++ {
		source := "doc.Input"
		if k > 1 {
			source = fmt.Sprintf("doc.Doc%d", k-1)
		}

		fmt.Fprintf(&b, "  - name: Stage%d\n    contracts:\n", k)
		fmt.Fprintf(&b, "      - name: Next\n        param: {name: in, type: %s}\n        returns: doc.Out%d\n", source, k)
	}

	return b.String()
}

func extract(t *testing.T, src string) *mapping.Extraction {
	t.Helper()

	mf, err := mapping.Parse([]byte(src))
	require.NoError(t, err)

	ex, err := mapping.Extract(mf, nil)
	require.NoError(t, err)

	return ex
}

// emitted tracks generated mappers the way a build host would: types
// generated by a mapper appear in the round after its last contract emits.
type emitted struct {
	ex      *mapping.Extraction
	calls   map[string]int
	visible map[string]bool
}

func newEmitted(ex *mapping.Extraction) *emitted {
	return &emitted{ex: ex, calls: map[string]int{}, visible: map[string]bool{}}
}

func (e *emitted) Emit(_ context.Context, c *mapping.Contract, _ *plan.Plan) error {
	e.calls[c.ID()]++
	e.visible[c.Mapper] = true

	return nil
}

func (e *emitted) view() analyze.Universe {
	snapshot := map[string]bool{}
	for k, v := range e.visible {
		snapshot[k] = v
	}

	return analyze.Filter(e.ex.Types, func(d *analyze.Decl) bool {
		return d.GeneratedBy == "" || snapshot[d.GeneratedBy]
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "resolved", StateResolved.String())
	assert.Equal(t, "deferred", StateDeferred.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateDeferred.Terminal())
}

func TestRun_ResolvesInOneRound(t *testing.T) {
	ex := extract(t, chainYAML(1))
	sink := newEmitted(ex)

	s := New(ex.Contracts(), sink, DefaultConfig(), nil)
	require.NoError(t, s.Run(context.Background(), sink.view))

	assert.Equal(t, 1, s.Rounds())
	assert.True(t, s.Done())
	assert.Equal(t, StateResolved, s.Entries()[0].State)
	assert.Len(t, s.Diagnostics().Infos, 1)
}

func TestRun_DeferralTermination(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("chain of %d", n), func(t *testing.T) {
			ex := extract(t, chainYAML(n))
			sink := newEmitted(ex)

			s := New(ex.Contracts(), sink, DefaultConfig(), nil)
			require.NoError(t, s.Run(context.Background(), sink.view))

			// The last stage waits for n-1 others, one round each.
			assert.Equal(t, n, s.Rounds())

			for _, e := range s.Entries() {
				assert.Equal(t, StateResolved, e.State, e.Contract.ID())
				assert.Equal(t, 1, sink.calls[e.Contract.ID()], "emitted exactly once")
			}

			assert.Len(t, s.Diagnostics().Warnings, n*(n-1)/2, "one deferral notice per waiting round")
			assert.Empty(t, s.Diagnostics().Errors)
		})
	}
}

func TestRun_DeferredDowngradedToFailed(t *testing.T) {
	ex := extract(t, chainYAML(2))
	sink := newEmitted(ex)

	// Stage1 never becomes visible: nothing will unlock Stage2.
	hidden := func() analyze.Universe {
		return analyze.Filter(ex.Types, func(d *analyze.Decl) bool { return d.GeneratedBy == "" })
	}

	s := New(ex.Contracts(), sink, DefaultConfig(), nil)
	require.NoError(t, s.Run(context.Background(), hidden))

	entries := s.Entries()
	assert.Equal(t, StateResolved, entries[0].State)
	require.Equal(t, StateFailed, entries[1].State)

	cerr, ok := plan.AsContractError(entries[1].Err)
	require.True(t, ok)
	assert.Equal(t, diagnostic.CodeUnresolvedConversion, cerr.Code)
	assert.Contains(t, cerr.Message, "doc.Doc1")
	assert.Equal(t, 0, sink.calls[entries[1].Contract.ID()], "failed contracts are never emitted")

	// Round 1 resolves Stage1, round 2 makes no progress, round 3 is final.
	assert.Equal(t, 3, s.Rounds())
	assert.Len(t, s.Diagnostics().Errors, 1)
}

func TestRun_MaxRounds(t *testing.T) {
	ex := extract(t, chainYAML(4))
	sink := newEmitted(ex)

	config := DefaultConfig()
	config.MaxRounds = 2

	s := New(ex.Contracts(), sink, config, nil)
	require.NoError(t, s.Run(context.Background(), sink.view))

	assert.Equal(t, 2, s.Rounds())
	assert.Len(t, s.Failed(), 2)
	assert.True(t, s.Done())
}

func TestRound_NeverReemits(t *testing.T) {
	ex := extract(t, chainYAML(1))
	sink := newEmitted(ex)
	s := New(ex.Contracts(), sink, DefaultConfig(), nil)

	for range 3 {
		_, err := s.Round(context.Background(), sink.view(), false)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, sink.calls[ex.Contracts()[0].ID()])
	assert.Equal(t, 1, s.Entries()[0].Attempts)
}

func TestRound_FailuresAreIsolated(t *testing.T) {
	ex := extract(t, `
types:
  - name: a.In
    members: [{name: name, type: String}]
  - name: a.Out
    constructor: [{name: name, type: String}, {title: String}]
mappers:
  - name: M
    contracts:
      - name: Broken
        param: {name: in, type: a.In}
        returns: a.Out
      - name: Fine
        param: {name: in, type: a.In}
        returns: a.Out
        mappings: [{target: title, expression: 'go("t")'}]
`)
	sink := newEmitted(ex)
	s := New(ex.Contracts(), sink, DefaultConfig(), nil)

	progress, err := s.Round(context.Background(), sink.view(), false)
	require.NoError(t, err)
	assert.True(t, progress)

	assert.Equal(t, StateFailed, s.Entries()[0].State)
	assert.Equal(t, StateResolved, s.Entries()[1].State)

	report := s.Report()
	require.Len(t, report.Contracts, 2)
	assert.Equal(t, "failed", report.Contracts[0].State)
	assert.Equal(t, string(diagnostic.CodeMissingCounterpart), report.Contracts[0].Code)
	assert.Equal(t, "resolved", report.Contracts[1].State)
	assert.NotNil(t, report.Contracts[1].Plan)
}

func TestRound_Cancelled(t *testing.T) {
	ex := extract(t, chainYAML(1))
	sink := newEmitted(ex)
	s := New(ex.Contracts(), sink, DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Round(ctx, sink.view(), false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatePending, s.Entries()[0].State)
}

func TestRound_SinkError(t *testing.T) {
	ex := extract(t, chainYAML(1))

	failing := SinkFunc(func(context.Context, *mapping.Contract, *plan.Plan) error {
		return errors.New("disk full")
	})

	s := New(ex.Contracts(), failing, DefaultConfig(), nil)
	progress, err := s.Round(context.Background(), ex.Types, false)
	require.NoError(t, err)
	assert.True(t, progress)

	e := s.Entries()[0]
	assert.Equal(t, StateFailed, e.State)
	assert.Nil(t, e.Plan)

	var cerr *diagnostic.ContractError
	require.ErrorAs(t, e.Err, &cerr)
	assert.Equal(t, diagnostic.CodeEmission, cerr.Code)
	assert.Contains(t, cerr.Message, "disk full")
	assert.True(t, s.Diagnostics().HasErrors())
}

func TestRound_EmitErrorFailsNamedContracts(t *testing.T) {
	ex := extract(t, chainYAML(3))
	contracts := ex.Contracts()

	calls := 0
	sink := SinkFunc(func(_ context.Context, c *mapping.Contract, _ *plan.Plan) error {
		calls++
		if c == contracts[1] {
			return &EmitError{Contracts: contracts[:2], Err: errors.New("mapper broken")}
		}

		return nil
	})

	s := New(contracts, sink, DefaultConfig(), nil)
	_, err := s.Round(context.Background(), ex.Types, false)
	require.NoError(t, err)

	entries := s.Entries()
	assert.Equal(t, StateFailed, entries[0].State)
	assert.Equal(t, StateFailed, entries[1].State)
	assert.Equal(t, StateResolved, entries[2].State)
	assert.Len(t, s.Failed(), 2)
	assert.Equal(t, 3, calls)

	_, err = s.Round(context.Background(), ex.Types, false)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "failed emissions are not retried")
}

func TestRound_SinkCancellation(t *testing.T) {
	ex := extract(t, chainYAML(1))

	cancelled := SinkFunc(func(context.Context, *mapping.Contract, *plan.Plan) error {
		return fmt.Errorf("writing: %w", context.Canceled)
	})

	s := New(ex.Contracts(), cancelled, DefaultConfig(), nil)
	_, err := s.Round(context.Background(), ex.Types, false)
	require.ErrorIs(t, err, context.Canceled)
}
