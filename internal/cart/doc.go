// Package cart holds the shopping cart: line items, the pure reducer that
// mutates cart state, the Store that persists it to a session, the
// Configurator that turns a product plus modifier toggles into a line item,
// and the checkout hand-off to an order submitter.
//
// Data flow:
//
//	Configurator.Toggle -> modifier.Toggle
//	Configurator.Confirm -> modifier.Validate -> sku.Resolve -> LineItem
//	Store.AddOrMergeItem -> Reduce -> persist "cart_items" -> listeners
//
// A line is identified by its SKU. Adding a line whose SKU is already in the
// cart increases that line's quantity instead of appending a second line.
package cart
