package harness

import (
	"github.com/roach88/menucart/internal/cart"
)

// TraceEvent records one executed step and the cart it left behind.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Action string         `json:"action"`
	Args   map[string]any `json:"args,omitempty"`

	// SKU is the line an add produced.
	SKU        string   `json:"sku,omitempty"`
	Violations []string `json:"violations,omitempty"`
	Error      string   `json:"error,omitempty"`

	Lines         int    `json:"lines"`
	Units         int    `json:"units"`
	Subtotal      string `json:"subtotal"`
	DrawerVisible bool   `json:"drawer_visible"`
	OrderPlaced   bool   `json:"order_placed"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// State is the final cart state.
	State cart.State `json:"state"`

	// Orders holds the fingerprints of submitted order snapshots.
	Orders []string `json:"orders,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
