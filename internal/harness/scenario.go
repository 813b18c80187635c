package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/blockscan/internal/ir"
)

// Scenario describes one document and what scanning it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Document is the text to scan.
	Document string `yaml:"document"`

	// Expect checks the verdict and, optionally, the full kind sequence.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Assertions check properties of the trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Batch is an optional fixed batch token for the stored run.
	// Defaults to "test-batch-default".
	Batch string `yaml:"batch,omitempty"`
}

// Expectation is checked against the verdict and the trace kinds.
type Expectation struct {
	// Valid is the expected verdict validity. Required.
	Valid *bool `yaml:"valid"`

	// MessageContains must be a substring of the verdict message.
	// When Valid is true the message must be empty regardless.
	MessageContains string `yaml:"message_contains,omitempty"`

	// Kinds, if set, is the exact sequence of record kinds.
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion validates a property of the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind is the record kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Line optionally pins trace_contains to a line number.
	Line int `yaml:"line,omitempty"`

	// Content optionally pins trace_contains to exact line content.
	Content string `yaml:"content,omitempty"`

	// Kinds is the expected kind order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of records (trace_count).
	Count int `yaml:"count,omitempty"`

	// Max is the deepest stack allowed, in frames (max_stack_depth).
	Max int `yaml:"max,omitempty"`

	// Edges is the exact edge sequence (edge_path).
	Edges []string `yaml:"edges,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertMaxStackDepth = "max_stack_depth"
	AssertEdgePath      = "edge_path"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// validateScenario checks that required fields are present and valid.
// An empty document is allowed; it is a legitimate input.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil {
		if s.Expect.Valid == nil {
			return fmt.Errorf("expect: valid is required")
		}
		if *s.Expect.Valid && s.Expect.MessageContains != "" {
			return fmt.Errorf("expect: message_contains cannot be set when valid is true")
		}
		if err := checkKinds("expect.kinds", s.Expect.Kinds); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
		return checkKinds(fmt.Sprintf("assertions[%d]", index), []string{a.Kind})
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
		return checkKinds(fmt.Sprintf("assertions[%d]", index), a.Kinds)
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
		return checkKinds(fmt.Sprintf("assertions[%d]", index), []string{a.Kind})
	case AssertMaxStackDepth:
		if a.Max < 0 {
			return fmt.Errorf("assertions[%d]: max must be non-negative for max_stack_depth", index)
		}
	case AssertEdgePath:
		// An empty list asserts that no records were emitted.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func checkKinds(field string, kinds []string) error {
	for _, k := range kinds {
		if _, err := ir.ParseConstructKind(k); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}
