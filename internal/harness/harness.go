package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/roach88/menucart/internal/cart"
	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/pricing"
	"github.com/roach88/menucart/internal/session"
	"github.com/roach88/menucart/internal/sku"
)

// Harness is the scenario execution engine.
type Harness struct {
	db      *session.DB
	sess    *session.SQLiteSession
	catalog *catalog.Catalog
	store   *cart.Store
	clock   *session.Clock
	logger  zerolog.Logger
	orders  []string
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes cart and harness logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and load the catalog
// 2. Execute steps, recording one trace event each
// 3. Evaluate assertions against the final cart
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cat, err := catalog.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	db, err := session.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory session store: %w", err)
	}
	defer db.Close()

	sessionID := scenario.Session
	if sessionID == "" {
		sessionID = DefaultSession
	}

	h := &Harness{
		db:      db,
		sess:    db.Session(sessionID),
		catalog: cat,
		clock:   session.NewClock(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	ctx := context.Background()
	h.store = h.newStore(ctx)

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
	}
	result.State = h.store.State()
	result.Orders = h.orders

	actx := &AssertionContext{Ctx: ctx, Harness: h}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) newStore(ctx context.Context) *cart.Store {
	return cart.NewStore(ctx, h.sess, cart.WithLogger(h.logger))
}

// executeStep runs one step. Returned errors abort the scenario; unmet
// expectations are recorded on result instead.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	event := TraceEvent{Seq: h.clock.Next(), Action: step.Action}

	switch step.Action {
	case StepAdd:
		c, err := h.configure(step)
		if err != nil {
			return err
		}
		event.Args = configArgs(step, c)

		item, violations := c.Confirm()
		event.Violations = violations
		if len(violations) == 0 {
			h.store.AddOrMergeItem(ctx, item)
			event.SKU = item.SKU
		}
		h.checkViolations(i, step, violations, result)

	case StepRemove:
		target, err := h.targetSKU(step)
		if err != nil {
			return err
		}
		event.Args = map[string]any{"sku": target}
		h.store.RemoveItem(ctx, target)

	case StepSetQuantity:
		target, err := h.targetSKU(step)
		if err != nil {
			return err
		}
		event.Args = map[string]any{"sku": target, "quantity": *step.Quantity}
		h.store.SetQuantity(ctx, target, *step.Quantity)

	case StepClear:
		h.store.Clear(ctx)

	case StepPlaceOrder:
		_, err := cart.PlaceOrder(ctx, h.store, cart.SubmitterFunc(h.submit))
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			event.Error = ErrorCodeEmptyCart
		case err != nil:
			return err
		}
		h.checkError(i, step, event.Error, result)

	case StepResetOrder:
		h.store.MarkOrderPlaced(ctx, false)

	case StepDrawer:
		event.Args = map[string]any{"visible": *step.Visible}
		h.store.SetDrawerVisible(ctx, *step.Visible)

	case StepReload:
		h.store = h.newStore(ctx)

	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	state := h.store.State()
	event.Lines = len(state.Items)
	event.Units = state.ItemCount()
	event.Subtotal = pricing.Format(state.Subtotal())
	event.DrawerVisible = state.DrawerVisible
	event.OrderPlaced = state.OrderPlaced
	result.Trace = append(result.Trace, event)

	h.logger.Debug().
		Int("step", i).
		Str("action", step.Action).
		Int64("seq", event.Seq).
		Int("lines", event.Lines).
		Msg("scenario step completed")
	return nil
}

func (h *Harness) submit(_ context.Context, snap cart.Snapshot) error {
	h.orders = append(h.orders, snap.Fingerprint)
	return nil
}

// configure builds a configurator for the step's product and choices.
func (h *Harness) configure(step Step) (*cart.Configurator, error) {
	p, ok := h.catalog.Product(step.Product)
	if !ok {
		return nil, fmt.Errorf("unknown product %q", step.Product)
	}
	c := cart.NewConfigurator(p)
	for _, ch := range step.Choose {
		if err := c.Toggle(ch.Group, ch.Option); err != nil {
			return nil, err
		}
	}
	if step.Quantity != nil && step.Action == StepAdd {
		c.SetQuantity(*step.Quantity)
	}
	return c, nil
}

// targetSKU is the explicit SKU, or the SKU the step's configuration
// resolves to.
func (h *Harness) targetSKU(step Step) (string, error) {
	if step.SKU != "" {
		return step.SKU, nil
	}
	c, err := h.configure(step)
	if err != nil {
		return "", err
	}
	return sku.Resolve(sku.ProductKey(c.Product()), c.Selection()), nil
}

func configArgs(step Step, c *cart.Configurator) map[string]any {
	args := map[string]any{
		"product":  step.Product,
		"quantity": c.Quantity(),
	}
	if len(step.Choose) > 0 {
		choices := make([]any, len(step.Choose))
		for i, ch := range step.Choose {
			choices[i] = ch.Group + ": " + ch.Option
		}
		args["choices"] = choices
	}
	return args
}

func (h *Harness) checkViolations(i int, step Step, got []string, result *Result) {
	var want []string
	if step.Expect != nil {
		want = step.Expect.Violations
	}
	if !slices.Equal(want, got) {
		result.AddError(fmt.Sprintf("step %d (%s): expected violations %v, got %v", i, step.Action, want, got))
	}
}

func (h *Harness) checkError(i int, step Step, got string, result *Result) {
	var want string
	if step.Expect != nil {
		want = step.Expect.Error
	}
	if want != got {
		result.AddError(fmt.Sprintf("step %d (%s): expected error %q, got %q", i, step.Action, want, got))
	}
}
