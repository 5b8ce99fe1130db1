package stepgate

import (
	_ "embed"
	"fmt"

	"github.com/maja42/goval"
	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var defaultSteps []byte

const DefaultMessage = "Complete este passo antes de continuar."

// GateState is everything a validator may read.
type GateState struct {
	Patrimony      float64
	TotalAllocated float64
	SelectedCount  int
	AllocatedCount int
}

func (s GateState) variables() map[string]interface{} {
	return map[string]interface{}{
		"patrimony":      s.Patrimony,
		"totalAllocated": s.TotalAllocated,
		"selectedCount":  s.SelectedCount,
		"allocatedCount": s.AllocatedCount,
	}
}

type Validator func(GateState) (bool, error)

type Step struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Rule      string    `json:"rule,omitempty"`
	Validator Validator `json:"-"`
}

func (s Step) validate(state GateState) (bool, error) {
	if s.Validator == nil {
		return true, nil
	}
	return s.Validator(state)
}

type yamlStep struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Rule    string `yaml:"rule"`
	Message string `yaml:"message"`
}

// LoadSteps returns the wizard compiled into the binary.
func LoadSteps() ([]Step, error) {
	return ParseSteps(defaultSteps)
}

func ParseSteps(data []byte) ([]Step, error) {
	raw := struct {
		Steps []yamlStep `yaml:"steps"`
	}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse steps: %w", err)
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("no steps configured")
	}

	out := []Step{}
	seen := map[string]bool{}
	for _, s := range raw.Steps {
		if s.Name == "" {
			return nil, fmt.Errorf("step without a name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate step %s", s.Name)
		}
		seen[s.Name] = true

		step := Step{
			Name:    s.Name,
			Title:   s.Title,
			Message: s.Message,
			Rule:    s.Rule,
		}
		if step.Message == "" {
			step.Message = DefaultMessage
		}
		if s.Rule != "" {
			v, err := RuleValidator(s.Rule)
			if err != nil {
				return nil, fmt.Errorf("failed to compile rule for step %s: %w", s.Name, err)
			}
			step.Validator = v
		}
		out = append(out, step)
	}
	return out, nil
}

// RuleValidator turns a goval expression into a Validator. The rule is
// evaluated once against an empty state so syntax errors surface early.
func RuleValidator(rule string) (Validator, error) {
	v := func(state GateState) (bool, error) {
		eval := goval.NewEvaluator()
		result, err := eval.Evaluate(rule, state.variables(), nil)
		if err != nil {
			return false, fmt.Errorf("failed to evaluate rule %q: %w", rule, err)
		}
		ok, isBool := result.(bool)
		if !isBool {
			return false, fmt.Errorf("rule %q returned %T, expected bool", rule, result)
		}
		return ok, nil
	}

	if _, err := v(GateState{}); err != nil {
		return nil, err
	}
	return v, nil
}
