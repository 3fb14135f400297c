package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted cart session with assertions on its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the YAML or CUE catalog to load. Relative paths are
	// resolved against the scenario file's directory.
	Catalog string `yaml:"catalog"`

	// Session is the session id used for persistence. Defaults to
	// DefaultSession.
	Session string `yaml:"session,omitempty"`

	// Steps run in order against one cart.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// DefaultSession is the session id used when a scenario names none.
const DefaultSession = "scenario"

// Choice is one option toggle within a group.
type Choice struct {
	Group  string `yaml:"group"`
	Option string `yaml:"option"`
}

// Step is one user action.
type Step struct {
	// Action is one of the Step* constants.
	Action string `yaml:"action"`

	// Product and Choose describe a configuration. For add they are what
	// gets confirmed; for remove and set_quantity they locate the line.
	Product string   `yaml:"product,omitempty"`
	Choose  []Choice `yaml:"choose,omitempty"`

	// SKU targets a line directly for remove and set_quantity.
	SKU string `yaml:"sku,omitempty"`

	// Quantity is the configured quantity for add and the new quantity for
	// set_quantity.
	Quantity *int `yaml:"quantity,omitempty"`

	// Visible is the drawer state for drawer.
	Visible *bool `yaml:"visible,omitempty"`

	// Expect describes a non-happy outcome. Without it, add must be
	// accepted and place_order must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Violations are the required groups an add must report.
	Violations []string `yaml:"violations,omitempty"`

	// Error is the expected error code (see ErrorCode*).
	Error string `yaml:"error,omitempty"`
}

// Step actions.
const (
	StepAdd         = "add"
	StepRemove      = "remove"
	StepSetQuantity = "set_quantity"
	StepClear       = "clear"
	StepPlaceOrder  = "place_order"
	StepResetOrder  = "reset_order"
	StepDrawer      = "drawer"
	StepReload      = "reload"
)

// Error codes recorded in traces.
const (
	ErrorCodeEmptyCart = "empty_cart"
)

// Assertion validates the final cart.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Product, Choose and SKU locate a line (line_quantity, sku).
	Product string   `yaml:"product,omitempty"`
	Choose  []Choice `yaml:"choose,omitempty"`
	SKU     string   `yaml:"sku,omitempty"`

	// Count is the expected number of lines (line_count, persisted_lines).
	Count *int `yaml:"count,omitempty"`

	// Quantity is the expected line quantity (line_quantity).
	Quantity int `yaml:"quantity,omitempty"`

	// Equals is the expected text (subtotal, sku).
	Equals string `yaml:"equals,omitempty"`

	// Value is the expected flag (order_placed, drawer_visible).
	Value *bool `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertLineCount      = "line_count"
	AssertLineQuantity   = "line_quantity"
	AssertSubtotal       = "subtotal"
	AssertSKU            = "sku"
	AssertOrderPlaced    = "order_placed"
	AssertDrawerVisible  = "drawer_visible"
	AssertPersistedLines = "persisted_lines"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", s.Catalog)
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
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

// validateStep validates a single step based on its action.
func validateStep(index int, st *Step) error {
	switch st.Action {
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	case StepAdd:
		if st.Product == "" {
			return fmt.Errorf("steps[%d]: add requires product", index)
		}
	case StepRemove:
		if st.SKU == "" && st.Product == "" {
			return fmt.Errorf("steps[%d]: remove requires sku or product", index)
		}
	case StepSetQuantity:
		if st.SKU == "" && st.Product == "" {
			return fmt.Errorf("steps[%d]: set_quantity requires sku or product", index)
		}
		if st.Quantity == nil {
			return fmt.Errorf("steps[%d]: set_quantity requires quantity", index)
		}
	case StepDrawer:
		if st.Visible == nil {
			return fmt.Errorf("steps[%d]: drawer requires visible", index)
		}
	case StepClear, StepPlaceOrder, StepResetOrder, StepReload:
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, st.Action)
	}

	for j, c := range st.Choose {
		if c.Group == "" || c.Option == "" {
			return fmt.Errorf("steps[%d].choose[%d]: group and option are required", index, j)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertLineCount, AssertPersistedLines:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: %s requires count", index, a.Type)
		}
	case AssertLineQuantity:
		if a.SKU == "" && a.Product == "" {
			return fmt.Errorf("assertions[%d]: line_quantity requires sku or product", index)
		}
	case AssertSubtotal:
		if a.Equals == "" {
			return fmt.Errorf("assertions[%d]: subtotal requires equals", index)
		}
	case AssertSKU:
		if a.Product == "" || a.Equals == "" {
			return fmt.Errorf("assertions[%d]: sku requires product and equals", index)
		}
	case AssertOrderPlaced, AssertDrawerVisible:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: %s requires value", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
