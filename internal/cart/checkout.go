package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/menucart/internal/canon"
	"github.com/roach88/menucart/internal/pricing"
)

// ErrEmptyCart is returned by PlaceOrder when there is nothing to submit.
var ErrEmptyCart = errors.New("cart: cannot place an order for an empty cart")

// Snapshot is the read-only view of a cart handed to order submission.
type Snapshot struct {
	Items []LineItem
	// Subtotal is unrounded; SubtotalText is the two-decimal display form.
	Subtotal     float64
	SubtotalText string
	// Fingerprint identifies the snapshot content (lines, quantities and
	// formatted prices). Equal carts produce equal fingerprints.
	Fingerprint string
}

// NewSnapshot captures s for submission.
func NewSnapshot(s State) (Snapshot, error) {
	snap := Snapshot{
		Items:    s.Clone().Items,
		Subtotal: s.Subtotal(),
	}
	snap.SubtotalText = pricing.Format(snap.Subtotal)

	fp, err := canon.Fingerprint(canon.DomainOrder, snap.Document())
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	snap.Fingerprint = fp
	return snap, nil
}

// Document renders the snapshot as canonical-JSON-ready data. Money is
// rendered as fixed two-decimal strings.
func (s Snapshot) Document() map[string]any {
	lines := make([]any, 0, len(s.Items))
	for _, it := range s.Items {
		options := make([]any, 0)
		for _, name := range it.OptionNames() {
			options = append(options, name)
		}
		lines = append(lines, map[string]any{
			"sku":        it.SKU,
			"product_id": it.ProductID,
			"name":       it.Name,
			"quantity":   it.Quantity,
			"unit_price": pricing.Format(it.UnitPrice()),
			"total":      pricing.Format(it.Total()),
			"options":    options,
		})
	}
	return map[string]any{
		"lines":    lines,
		"subtotal": s.SubtotalText,
	}
}

// Submitter hands a snapshot to whatever accepts orders.
type Submitter interface {
	Submit(ctx context.Context, snap Snapshot) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, snap Snapshot) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

// PlaceOrder snapshots the cart, submits it and, on success, marks the order
// placed (which empties the cart). A failed submission leaves the cart as it
// was.
func PlaceOrder(ctx context.Context, store *Store, sub Submitter) (Snapshot, error) {
	state := store.State()
	if state.IsEmpty() {
		return Snapshot{}, ErrEmptyCart
	}

	snap, err := NewSnapshot(state)
	if err != nil {
		return Snapshot{}, err
	}
	if err := sub.Submit(ctx, snap); err != nil {
		return snap, fmt.Errorf("submit order: %w", err)
	}

	store.MarkOrderPlaced(ctx, true)
	return snap, nil
}
