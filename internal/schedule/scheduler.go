package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// DefaultMaxRounds bounds Run when the configuration leaves it unset.
const DefaultMaxRounds = 16

// Config holds configuration for the scheduler.
type Config struct {
	// MaxRounds is the number of the final round.
	MaxRounds int
	// Plan configures the resolver used in every round.
	Plan plan.Config
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		MaxRounds: DefaultMaxRounds,
		Plan:      plan.DefaultConfig(),
	}
}

// Sink receives resolved contracts. Emit is called at most once per contract.
type Sink interface {
	Emit(ctx context.Context, c *mapping.Contract, p *plan.Plan) error
}

// EmitError is returned by a Sink when an emission failure affects a group of
// contracts, such as every contract of a mapper rendered into one file.
// EmitError is returned by a Sink whose failure affects more contracts than
// the one being emitted, such as every contract of a mapper.
type EmitError struct {
	Contracts []*mapping.Contract
	Err       error
}

func (e *EmitError) Error() string {
	return e.Err.Error()
}

func (e *EmitError) Unwrap() error {
	return e.Err
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c *mapping.Contract, p *plan.Plan) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, c *mapping.Contract, p *plan.Plan) error {
	return f(ctx, c, p)
}

// Scheduler coordinates contract resolution across rounds.
type Scheduler struct {
	config  Config
	entries []*Entry
	sink    Sink
	logger  *slog.Logger
	round   int
	diags   diagnostic.Diagnostics
}

// New creates a scheduler for contracts. A nil logger uses slog.Default().
func New(contracts []*mapping.Contract, sink Sink, config Config, logger *slog.Logger) *Scheduler {
	if config.MaxRounds <= 0 {
		config.MaxRounds = DefaultMaxRounds
	}

	if logger == nil {
		logger = slog.Default()
	}

	entries := make([]*Entry, 0, len(contracts))
	for _, c := range contracts {
		entries = append(entries, &Entry{Contract: c})
	}

	return &Scheduler{config: config, entries: entries, sink: sink, logger: logger}
}

// Entries returns the tracked contracts in declaration order.
func (s *Scheduler) Entries() []*Entry {
	return s.entries
}

// Rounds returns the number of rounds run so far.
func (s *Scheduler) Rounds() int {
	return s.round
}

// Diagnostics returns the diagnostics collected so far.
func (s *Scheduler) Diagnostics() *diagnostic.Diagnostics {
	return &s.diags
}

// Done reports whether every contract is terminal.
func (s *Scheduler) Done() bool {
	for _, e := range s.entries {
		if !e.State.Terminal() {
			return false
		}
	}

	return true
}

// Round resolves every non-terminal contract against u. On the final round a
// contract that is still deferred fails. It reports whether any contract
// reached a terminal state. The error is reserved for cancellation; contract
// failures, including failed emissions, are recorded on the entries.
func (s *Scheduler) Round(ctx context.Context, u analyze.Universe, final bool) (bool, error) {
	s.round++
	resolver := plan.NewResolver(u, s.config.Plan)
	progress := false

	for _, e := range s.entries {
		if e.State.Terminal() {
			continue
		}

		if err := ctx.Err(); err != nil {
			return progress, err
		}

		if err := s.step(ctx, resolver, e, final); err != nil {
			return progress, err
		}

		if e.State.Terminal() {
			progress = true
		}
	}

	return progress, nil
}

func (s *Scheduler) step(ctx context.Context, resolver *plan.Resolver, e *Entry, final bool) error {
	e.Attempts++
	log := s.logger.With("contract", e.Contract.ID(), "round", s.round)

	p, err := resolver.ResolveContract(e.Contract)

	switch {
	case err == nil:
		e.State, e.Plan, e.Err = StateResolved, p, nil
		s.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticInfo,
			Code:     "resolved",
			Message:  "contract resolved as " + p.Kind.String(),
			Contract: e.Contract.ID(),
			TypePair: e.Contract.Source.String() + "->" + e.Contract.Target.String(),
		})
		log.Info("contract resolved", "plan", p.Kind.String())

		return s.emit(ctx, e)

	case plan.IsDeferred(err) && !final:
		e.State, e.Err = StateDeferred, err

		var deferred *plan.DeferredError
		if errors.As(err, &deferred) {
			s.diags.Add(deferred.Diagnostic())
		}

		log.Warn("contract deferred", "code", diagnostic.CodeNotYetIntrospectable, "reason", err.Error())

		return nil

	case plan.IsDeferred(err):
		cerr := &diagnostic.ContractError{
			Code:     diagnostic.CodeUnresolvedConversion,
			Contract: e.Contract.ID(),
			Source:   e.Contract.Source.String(),
			Target:   e.Contract.Target.String(),
			Message:  fmt.Sprintf("still not resolvable after %d rounds: %v", e.Attempts, err),
		}

		return s.fail(log, e, cerr)

	default:
		cerr, ok := plan.AsContractError(err)
		if !ok {
			cerr = &diagnostic.ContractError{
				Code:     diagnostic.CodeUnresolvedConversion,
				Contract: e.Contract.ID(),
				Message:  err.Error(),
			}
		}

		return s.fail(log, e, cerr)
	}
}

func (s *Scheduler) fail(log *slog.Logger, e *Entry, cerr *diagnostic.ContractError) error {
	e.State, e.Plan, e.Err = StateFailed, nil, cerr
	s.diags.Add(cerr.Diagnostic())
	log.Error("contract failed", "code", cerr.Code, "error", cerr.Error())

	return nil
}

// emit hands a resolved contract to the sink once. A sink failure fails the
// contract, or every contract named by an *EmitError, and scheduling goes on.
func (s *Scheduler) emit(ctx context.Context, e *Entry) error {
	if e.emitted || s.sink == nil {
		return nil
	}

	e.emitted = true

	err := s.sink.Emit(ctx, e.Contract, e.Plan)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("emitting %s: %w", e.Contract.ID(), err)
	}

	affected := []*mapping.Contract{e.Contract}

	var emitErr *EmitError
	if errors.As(err, &emitErr) && len(emitErr.Contracts) > 0 {
		affected = emitErr.Contracts
	}

	for _, c := range affected {
		entry := s.entry(c)
		if entry == nil {
			continue
		}

		entry.emitted = true

		s.fail(s.logger.With("contract", c.ID(), "round", s.round), entry, &diagnostic.ContractError{
			Code:     diagnostic.CodeEmission,
			Contract: c.ID(),
			Source:   c.Source.String(),
			Target:   c.Target.String(),
			Message:  err.Error(),
		})
	}

	return nil
}

func (s *Scheduler) entry(c *mapping.Contract) *Entry {
	for _, e := range s.entries {
		if e.Contract == c {
			return e
		}
	}

	return nil
}

// Run drives rounds until every contract is terminal. view is asked for the
// universe at the start of each round. A round without progress means no new
// information will arrive, so the next round is the final one; the configured
// maximum also forces a final round.
func (s *Scheduler) Run(ctx context.Context, view func() analyze.Universe) error {
	final := false

	for !s.Done() {
		if s.round+1 >= s.config.MaxRounds {
			final = true
		}

		progress, err := s.Round(ctx, view(), final)
		if err != nil {
			return err
		}

		if final {
			break
		}

		if !progress {
			final = true
		}
	}

	s.logger.Info("scheduling finished", "rounds", s.round, "failed", len(s.Failed()))

	return nil
}

// Failed returns the entries that failed.
func (s *Scheduler) Failed() []*Entry {
	var out []*Entry

	for _, e := range s.entries {
		if e.State == StateFailed {
			out = append(out, e)
		}
	}

	return out
}

// Report summarizes the entries for review.
func (s *Scheduler) Report() *plan.Report {
	report := &plan.Report{}

	for _, e := range s.entries {
		cr := plan.ContractReport{
			Contract: e.Contract.ID(),
			State:    e.State.String(),
			Plan:     plan.Describe(e.Plan),
		}

		if cerr, ok := plan.AsContractError(e.Err); ok {
			cr.Code = string(cerr.Code)
			cr.Error = cerr.Error()
		} else if e.Err != nil {
			cr.Code = string(diagnostic.CodeNotYetIntrospectable)
			cr.Error = e.Err.Error()
		}

		report.Contracts = append(report.Contracts, cr)
	}

	return report
}
