package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/todos/internal/task"
)

// Scenario is a scripted sequence of user intents with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is raw slot content stored before the task store loads.
	Seed string `yaml:"seed,omitempty"`

	// Setup runs before the flow. Setup steps are traced but carry no
	// expectations.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow is the sequence under test.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user intent.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Args holds the action's arguments.
	Args map[string]any `yaml:"args,omitempty"`

	// FailWrite makes slot writes fail for the duration of this step.
	FailWrite bool `yaml:"fail_write,omitempty"`

	// Expect checks the step's result. Nil means no check.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected result of a step.
type ExpectClause struct {
	// Outcome is "applied" or "ignored".
	Outcome string `yaml:"outcome,omitempty"`

	// Error is a substring the step's error must contain.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Filter selects the listing for projection (default: current filter).
	Filter string `yaml:"filter,omitempty"`

	// Titles is the expected ordered list (projection, stored).
	Titles []string `yaml:"titles,omitempty"`

	// Count is the expected number (remaining, write_count, trace_count).
	Count int `yaml:"count,omitempty"`

	// Value is the expected flag (any_completed).
	Value *bool `yaml:"value,omitempty"`

	// Action names the counted action (trace_count).
	Action string `yaml:"action,omitempty"`
}

// Step actions.
const (
	ActionAdd            = "add"
	ActionToggle         = "toggle"
	ActionEdit           = "edit"
	ActionRemove         = "remove"
	ActionClearCompleted = "clear_completed"
	ActionSetFilter      = "set_filter"
)

// Assertion types.
const (
	AssertProjection   = "projection"
	AssertRemaining    = "remaining"
	AssertAnyCompleted = "any_completed"
	AssertWriteCount   = "write_count"
	AssertStored       = "stored"
	AssertTraceCount   = "trace_count"
)

// actionArgs lists the required arguments and their kinds per action.
var actionArgs = map[string]map[string]string{
	ActionAdd:            {"title": "string"},
	ActionToggle:         {"id": "string", "completed": "bool"},
	ActionEdit:           {"id": "string", "title": "string"},
	ActionRemove:         {"id": "string"},
	ActionClearCompleted: {},
	ActionSetFilter:      {"filter": "string"},
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must contain at least one step")
	}
	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	want, ok := actionArgs[step.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	for name, kind := range want {
		v, present := step.Args[name]
		if !present {
			return fmt.Errorf("%s: missing arg %q", step.Action, name)
		}
		switch kind {
		case "string":
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%s: arg %q must be a string, got %T", step.Action, name, v)
			}
		case "bool":
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%s: arg %q must be a bool, got %T", step.Action, name, v)
			}
		}
	}
	for name := range step.Args {
		if _, known := want[name]; !known {
			return fmt.Errorf("%s: unknown arg %q", step.Action, name)
		}
	}
	if e := step.Expect; e != nil {
		switch e.Outcome {
		case "", "applied", "ignored":
		default:
			return fmt.Errorf("expect.outcome must be applied or ignored, got %q", e.Outcome)
		}
		if e.Outcome != "" && e.Error != "" {
			return fmt.Errorf("expect: outcome and error are mutually exclusive")
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertProjection:
		if a.Filter != "" {
			if _, err := task.ParseFilter(a.Filter); err != nil {
				return err
			}
		}
		if a.Titles == nil {
			return fmt.Errorf("titles is required for projection")
		}
	case AssertStored:
		if a.Titles == nil {
			return fmt.Errorf("titles is required for stored")
		}
	case AssertRemaining, AssertWriteCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for %s", a.Type)
		}
	case AssertAnyCompleted:
		if a.Value == nil {
			return fmt.Errorf("value is required for any_completed")
		}
	case AssertTraceCount:
		if _, ok := actionArgs[a.Action]; !ok {
			return fmt.Errorf("trace_count: unknown action %q", a.Action)
		}
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for trace_count")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
