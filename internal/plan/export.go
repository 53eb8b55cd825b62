package plan

import (
	"fmt"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Report is a reviewable summary of the planning outcome.
type Report struct {
	Contracts []ContractReport `yaml:"contracts" json:"contracts"`
}

// ContractReport describes the outcome of one contract.
type ContractReport struct {
	Contract string      `yaml:"contract" json:"contract"`
	State    string      `yaml:"state" json:"state"`
	Code     string      `yaml:"code,omitempty" json:"code,omitempty"`
	Error    string      `yaml:"error,omitempty" json:"error,omitempty"`
	Plan     *PlanReport `yaml:"plan,omitempty" json:"plan,omitempty"`
}

// PlanReport is the serializable form of a Plan.
type PlanReport struct {
	Kind      string        `yaml:"kind" json:"kind"`
	Source    string        `yaml:"source" json:"source"`
	Target    string        `yaml:"target" json:"target"`
	Call      string        `yaml:"call,omitempty" json:"call,omitempty"`
	Container string        `yaml:"container,omitempty" json:"container,omitempty"`
	Enum      string        `yaml:"enum,omitempty" json:"enum,omitempty"`
	Constants []string      `yaml:"constants,omitempty" json:"constants,omitempty"`
	Elem      *PlanReport   `yaml:"elem,omitempty" json:"elem,omitempty"`
	Key       *PlanReport   `yaml:"key,omitempty" json:"key,omitempty"`
	Value     *PlanReport   `yaml:"value,omitempty" json:"value,omitempty"`
	Inner     *PlanReport   `yaml:"inner,omitempty" json:"inner,omitempty"`
	Params    []ParamReport `yaml:"params,omitempty" json:"params,omitempty"`
	Hooks     bool          `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// ParamReport is the serializable form of a PropertyCorrelation.
type ParamReport struct {
	Param     string      `yaml:"param" json:"param"`
	From      string      `yaml:"from" json:"from"`
	Member    string      `yaml:"member,omitempty" json:"member,omitempty"`
	Literal   string      `yaml:"literal,omitempty" json:"literal,omitempty"`
	NullGuard bool        `yaml:"null_guard,omitempty" json:"null_guard,omitempty"`
	Hooks     bool        `yaml:"hooks,omitempty" json:"hooks,omitempty"`
	Plan      *PlanReport `yaml:"plan,omitempty" json:"plan,omitempty"`
}

// Describe converts a plan into its report form.
func Describe(p *Plan) *PlanReport {
	if p == nil {
		return nil
	}

	out := &PlanReport{
		Kind:   p.Kind.String(),
		Source: p.Source.String(),
		Target: p.Target.String(),
		Elem:   Describe(p.Elem),
		Key:    Describe(p.Key),
		Value:  Describe(p.Value),
		Inner:  Describe(p.Inner),
		Hooks:  p.ItemHooks != nil,
	}

	switch p.Kind {
	case KindDelegate:
		out.Call = p.Call.String()
	case KindMapContainer, KindMapEntries:
		out.Container = p.Container.String()
	case KindEnumByName:
		out.Enum = p.Enum.String()

		for _, c := range p.Constants {
			out.Constants = append(out.Constants, c.String())
		}
	case KindConstruct:
		for _, pc := range p.Params {
			out.Params = append(out.Params, ParamReport{
				Param:     pc.Param,
				From:      pc.Value.String(),
				Member:    pc.Member,
				Literal:   pc.Literal,
				NullGuard: pc.NullGuard,
				Hooks:     pc.Hooks != nil,
				Plan:      Describe(pc.Plan),
			})
		}
	}

	return out
}

// String renders the call as "helper.Func(arg, ...)".
func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))

	for _, a := range c.Args {
		if a.Kind == ArgSubject {
			args = append(args, "_")
		} else {
			args = append(args, a.Value)
		}
	}

	recv := "self"
	if c.Helper != "" {
		recv = c.Helper
	}

	return fmt.Sprintf("%s.%s(%s)", recv, c.Func, strings.Join(args, ", "))
}

// String returns the correlated constant name.
func (c ConstantPair) String() string {
	return c.Name
}

// ExportYAML renders the report as YAML.
func ExportYAML(r *Report) ([]byte, error) {
	return yaml.Marshal(r)
}

// ExportJSON renders the report as indented JSON.
func ExportJSON(r *Report) ([]byte, error) {
	return j.MarshalIndent(r, "", "  ")
}
