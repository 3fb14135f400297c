package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/menucart/internal/cart"
	"github.com/roach88/menucart/internal/pricing"
	"github.com/roach88/menucart/internal/session"
	"github.com/roach88/menucart/internal/sku"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> lines=%d subtotal=%s\n",
				event.Seq, event.Action, event.Args, event.Lines, event.Subtotal)
		}
	}

	return buf.String()
}

// AssertionContext gives assertions access to the run that produced a
// result.
type AssertionContext struct {
	Ctx     context.Context
	Harness *Harness
}

// EvaluateAssertions checks every assertion and returns one message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	state := result.State

	switch a.Type {
	case AssertLineCount:
		if got := len(state.Items); got != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d lines", *a.Count),
				Actual:   fmt.Sprintf("%d lines", got),
				Trace:    result.Trace,
			}
		}

	case AssertLineQuantity:
		target, err := assertionSKU(a, actx)
		if err != nil {
			return err
		}
		line, ok := state.Find(target)
		if !ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("line %s with quantity %d", target, a.Quantity),
				Actual:   "line not found",
				Trace:    result.Trace,
			}
		}
		if line.Quantity != a.Quantity {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("line %s with quantity %d", target, a.Quantity),
				Actual:   fmt.Sprintf("quantity %d", line.Quantity),
				Trace:    result.Trace,
			}
		}

	case AssertSubtotal:
		if got := pricing.Format(state.Subtotal()); got != a.Equals {
			return &AssertionError{
				Type:     a.Type,
				Expected: a.Equals,
				Actual:   got,
				Trace:    result.Trace,
			}
		}

	case AssertSKU:
		got, err := assertionSKU(a, actx)
		if err != nil {
			return err
		}
		if got != a.Equals {
			return &AssertionError{
				Type:     a.Type,
				Expected: a.Equals,
				Actual:   got,
			}
		}
		if _, ok := state.Find(got); !ok {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("line %s in cart", got),
				Actual:   "line not found",
				Trace:    result.Trace,
			}
		}

	case AssertOrderPlaced:
		if state.OrderPlaced != *a.Value {
			return flagError(a, state.OrderPlaced, result.Trace)
		}

	case AssertDrawerVisible:
		if state.DrawerVisible != *a.Value {
			return flagError(a, state.DrawerVisible, result.Trace)
		}

	case AssertPersistedLines:
		got, err := persistedLines(actx)
		if err != nil {
			return err
		}
		if got != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d persisted lines", *a.Count),
				Actual:   fmt.Sprintf("%d persisted lines", got),
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	return nil
}

func flagError(a Assertion, got bool, trace []TraceEvent) error {
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%v", *a.Value),
		Actual:   fmt.Sprintf("%v", got),
		Trace:    trace,
	}
}

// assertionSKU resolves the line an assertion refers to.
func assertionSKU(a Assertion, actx *AssertionContext) (string, error) {
	if a.SKU != "" {
		return a.SKU, nil
	}
	p, ok := actx.Harness.catalog.Product(a.Product)
	if !ok {
		return "", fmt.Errorf("unknown product %q", a.Product)
	}
	c := cart.NewConfigurator(p)
	for _, ch := range a.Choose {
		if err := c.Toggle(ch.Group, ch.Option); err != nil {
			return "", err
		}
	}
	return sku.Resolve(sku.ProductKey(p), c.Selection()), nil
}

// persistedLines counts the lines stored in the scenario's session.
func persistedLines(actx *AssertionContext) (int, error) {
	data, err := actx.Harness.sess.Get(actx.Ctx, cart.StorageKey)
	if errors.Is(err, session.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read persisted cart: %w", err)
	}

	var items []cart.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("decode persisted cart: %w", err)
	}
	return len(items), nil
}
