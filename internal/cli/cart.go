package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/menucart/internal/canon"
	"github.com/roach88/menucart/internal/cart"
	"github.com/roach88/menucart/internal/modifier"
	"github.com/roach88/menucart/internal/pricing"
	"github.com/roach88/menucart/internal/sku"
)

// LineView is one cart line as printed by the CLI.
type LineView struct {
	SKU       string   `json:"sku"`
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Options   []string `json:"options"`
	UnitPrice string   `json:"unit_price"`
	Total     string   `json:"total"`
}

// CartView is the cart as printed by the CLI.
type CartView struct {
	Session     string     `json:"session"`
	Lines       []LineView `json:"lines"`
	Units       int        `json:"units"`
	Subtotal    string     `json:"subtotal"`
	OrderPlaced bool       `json:"order_placed"`
}

// OrderView is the result of place-order.
type OrderView struct {
	Session     string `json:"session"`
	Fingerprint string `json:"fingerprint"`
	Lines       int    `json:"lines"`
	Subtotal    string `json:"subtotal"`
}

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the session cart",
		Long: `Inspect and change the cart stored in the selected session.

Every command needs a session: pass --session or set MENUCART_SESSION.
Create one with 'menucart session new'.`,
	}

	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartSetQtyCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	cmd.AddCommand(newCartPlaceOrderCommand(rootOpts))

	return cmd
}

// withCart runs fn against the selected session's cart and closes it after.
func withCart(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, env *cartEnv, f *OutputFormatter) error) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openCartEnv(ctx, opts, f)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			opts.Logger.Error().Err(cerr).Msg("cli: failed to close session database")
		}
	}()

	return fn(ctx, env, f)
}

func newCartShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				return outputCart(f, opts.SessionID, env.store.State())
			})
		},
	}
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	var (
		choices  []string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Configure a product and add it to the cart",
		Long: `Configure a product and add it to the cart.

Choices are given as Group=Option and toggled in order, following each
group's selection rules. Adding a configuration already in the cart
increases that line's quantity.

Exit codes:
  0 - Line added
  1 - A required modifier group has no choice
  2 - Unknown product, group or option

Examples:
  menucart cart add 7 --choose "Spice Level=Hot"
  menucart cart add 7 --choose "Spice Level=Hot" --choose "Extras=Naan" --qty 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				return runCartAdd(ctx, env, f, args[0], choices, quantity)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&choices, "choose", "c", nil, "toggle an option, as Group=Option (repeatable)")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity to add")

	return cmd
}

func runCartAdd(ctx context.Context, env *cartEnv, f *OutputFormatter, productID string, choices []string, quantity int) error {
	cat, err := loadCatalog(env.opts, f)
	if err != nil {
		return err
	}

	p, ok := cat.Product(productID)
	if !ok {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("unknown product %q", productID), nil)
	}

	c := cart.NewConfigurator(p)
	c.SetQuantity(quantity)
	for _, choice := range choices {
		group, option, ok := strings.Cut(choice, "=")
		if !ok || group == "" || option == "" {
			return f.Fail(ExitCommandError, ErrCodeArgs, fmt.Sprintf("malformed choice %q: want Group=Option", choice), nil)
		}
		if g, found := p.Group(group); found {
			if _, known := g.Option(option); !known {
				return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("unknown option %q in group %q", option, group), nil)
			}
		}
		if err := c.Toggle(group, option); err != nil {
			if errors.Is(err, cart.ErrUnknownGroup) {
				return f.Fail(ExitCommandError, ErrCodeUnknownGroup, err.Error(), nil)
			}
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		f.VerboseLog("Toggled %s: %s", group, option)
	}

	item, violations := c.Confirm()
	env.metrics.RecordConfiguration(violations)
	if len(violations) > 0 {
		return f.Fail(ExitFailure, ErrCodeViolations,
			"required choices missing: "+strings.Join(violations, ", "),
			modifier.ViolationMessages(violations))
	}

	state := env.store.AddOrMergeItem(ctx, item)
	if !f.IsJSON() {
		fmt.Fprintf(f.Writer, "✓ Added %d × %s\n", item.Quantity, describeLine(item))
	}
	return outputCart(f, env.opts.SessionID, state)
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <sku>",
		Short:         "Remove a line from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				if _, ok := env.store.State().Find(args[0]); !ok {
					return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no line with sku %q", args[0]), nil)
				}
				return outputCart(f, opts.SessionID, env.store.RemoveItem(ctx, args[0]))
			})
		},
	}
}

func newCartSetQtyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <sku> <quantity>",
		Short: "Set a line's quantity; zero or less removes the line",
		Long: `Set a line's quantity. Zero or less removes the line.

Pass negative quantities after --, e.g. menucart cart set-qty -- <sku> -1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeArgs, fmt.Sprintf("invalid quantity %q", args[1]), nil)
				}
				if _, ok := env.store.State().Find(args[0]); !ok {
					return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no line with sku %q", args[0]), nil)
				}
				return outputCart(f, opts.SessionID, env.store.SetQuantity(ctx, args[0], qty))
			})
		},
	}
}

func newCartClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove every line from the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				return outputCart(f, opts.SessionID, env.store.Clear(ctx))
			})
		},
	}
}

func newCartPlaceOrderCommand(opts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "place-order",
		Short: "Submit the cart as an order and empty it",
		Long: `Submit the cart as an order and empty it.

The order document is canonical JSON; its fingerprint identifies the
order content. With --out the document is written to that file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(opts, cmd, func(ctx context.Context, env *cartEnv, f *OutputFormatter) error {
				return runPlaceOrder(ctx, env, f, out)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the order document to this file")

	return cmd
}

func runPlaceOrder(ctx context.Context, env *cartEnv, f *OutputFormatter, out string) error {
	submit := cart.SubmitterFunc(func(_ context.Context, snap cart.Snapshot) error {
		if out == "" {
			return nil
		}
		doc, err := canon.MarshalCanonical(snap.Document())
		if err != nil {
			return err
		}
		return os.WriteFile(out, doc, 0644)
	})

	snap, err := cart.PlaceOrder(ctx, env.store, submit)
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		return f.Fail(ExitFailure, ErrCodeEmptyCart, "cart is empty", nil)
	case err != nil:
		if ferr := f.Error(ErrCodeSubmitFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "order submission failed", err)
	}

	view := OrderView{
		Session:     env.opts.SessionID,
		Fingerprint: snap.Fingerprint,
		Lines:       len(snap.Items),
		Subtotal:    snap.SubtotalText,
	}
	text := fmt.Sprintf("✓ Order placed: %d line(s), subtotal %s\n  fingerprint %s", view.Lines, view.Subtotal, view.Fingerprint)
	if out != "" {
		text += "\n  written to " + out
	}
	return f.Success(view, text)
}

// newCartView renders state for output.
func newCartView(sessionID string, state cart.State) CartView {
	view := CartView{
		Session:     sessionID,
		Lines:       make([]LineView, 0, len(state.Items)),
		Units:       state.ItemCount(),
		Subtotal:    pricing.Format(state.Subtotal()),
		OrderPlaced: state.OrderPlaced,
	}
	for _, it := range state.Items {
		view.Lines = append(view.Lines, LineView{
			SKU:       it.SKU,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Options:   lineOptions(it),
			UnitPrice: pricing.Format(it.UnitPrice()),
			Total:     pricing.Format(it.Total()),
		})
	}
	return view
}

// lineOptions lists a line's options. Lines persisted without selections
// fall back to what their SKU encodes, provided the SKU belongs to the
// line's product.
func lineOptions(it cart.LineItem) []string {
	if names := it.OptionNames(); len(names) > 0 {
		return names
	}
	key, groups, ok := sku.Decode(it.SKU)
	if !ok || (key != it.ProductID && key != sku.ComboPrefix+it.ProductID) {
		return []string{}
	}
	names := []string{}
	for _, g := range groups {
		for _, o := range g.Options {
			names = append(names, g.Name+": "+o)
		}
	}
	return names
}

func describeLine(it cart.LineItem) string {
	opts := lineOptions(it)
	if len(opts) == 0 {
		return it.Name
	}
	return fmt.Sprintf("%s (%s)", it.Name, strings.Join(opts, ", "))
}

func outputCart(f *OutputFormatter, sessionID string, state cart.State) error {
	view := newCartView(sessionID, state)
	if f.IsJSON() {
		return f.Success(view, "")
	}

	w := f.Writer
	if len(view.Lines) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return nil
	}
	for i, it := range state.Items {
		line := view.Lines[i]
		fmt.Fprintf(w, "%3d × %-30s %8s\n", line.Quantity, describeLine(it), line.Total)
		fmt.Fprintf(w, "      %s\n", line.SKU)
	}
	fmt.Fprintf(w, "%d item(s), subtotal %s\n", view.Units, view.Subtotal)
	return nil
}
