package host

import (
	"context"
	"fmt"
	"log/slog"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
	"contract-mapper/internal/schedule"
)

// Emitter renders a complete mapper. plans follow the mapper's contract order.
type Emitter interface {
	EmitMapper(ctx context.Context, m *mapping.Mapper, plans []*plan.Plan) error
}

// Host tracks emitted mappers across rounds.
type Host struct {
	ex      *mapping.Extraction
	emitter Emitter
	logger  *slog.Logger

	plans   map[string]map[string]*plan.Plan
	emitted map[string]bool
	order   []string
}

// New creates a Host for an extraction. A nil emitter only records plans.
func New(ex *mapping.Extraction, emitter Emitter, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}

	return &Host{
		ex:      ex,
		emitter: emitter,
		logger:  logger,
		plans:   map[string]map[string]*plan.Plan{},
		emitted: map[string]bool{},
	}
}

// View returns the universe for the next round. Visibility is fixed when the
// view is taken, so mappers emitted during a round become visible in the
// round after.
func (h *Host) View() analyze.Universe {
	snapshot := make(map[string]bool, len(h.emitted))
	for name := range h.emitted {
		snapshot[name] = true
	}

	return analyze.Filter(h.ex.Types, func(d *analyze.Decl) bool {
		return d.GeneratedBy == "" || snapshot[d.GeneratedBy]
	})
}

// Emit records a resolved contract and emits its mapper once complete. An
// emitter failure is reported as an *schedule.EmitError naming every contract
// of the mapper.
func (h *Host) Emit(ctx context.Context, c *mapping.Contract, p *plan.Plan) error {
	m, ok := h.ex.Mapper(c.Mapper)
	if !ok {
		return fmt.Errorf("unknown mapper %s", c.Mapper)
	}

	if h.plans[m.Name] == nil {
		h.plans[m.Name] = map[string]*plan.Plan{}
	}

	h.plans[m.Name][c.Name] = p

	if h.emitted[m.Name] || len(h.plans[m.Name]) < len(m.Contracts) {
		return nil
	}

	plans := make([]*plan.Plan, 0, len(m.Contracts))
	for _, mc := range m.Contracts {
		plans = append(plans, h.plans[m.Name][mc.Name])
	}

	if h.emitter != nil {
		if err := h.emitter.EmitMapper(ctx, m, plans); err != nil {
			return &schedule.EmitError{Contracts: m.Contracts, Err: fmt.Errorf("mapper %s: %w", m.Name, err)}
		}
	}

	h.emitted[m.Name] = true
	h.order = append(h.order, m.Name)
	h.logger.Info("mapper emitted", "mapper", m.Name, "contracts", len(plans))

	return nil
}

// Emitted returns the emitted mapper names in emission order.
func (h *Host) Emitted() []string {
	return h.order
}

// Run schedules every contract of the extraction until all are terminal.
func (h *Host) Run(ctx context.Context, config schedule.Config) (*schedule.Scheduler, error) {
	s := schedule.New(h.ex.Contracts(), h, config, h.logger)

	if err := s.Run(ctx, h.View); err != nil {
		return s, err
	}

	return s, nil
}
