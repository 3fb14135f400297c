// Package harness runs scripted cart scenarios against the real cart stack.
//
// A scenario loads a catalog, drives a cart.Store backed by an in-memory
// SQLite session through a list of steps, and checks assertions on the
// final state. Every step appends one event to a trace; traces are compared
// against golden files to catch behavior changes.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog: ../menu.yaml          # relative to the scenario file
//	session: s-1                   # optional session id
//	steps:
//	  - action: add
//	    product: "7"
//	    choose:
//	      - { group: Spice Level, option: Hot }
//	    quantity: 2
//	  - action: add
//	    product: "7"
//	    expect:
//	      violations: [Spice Level]
//	  - action: set_quantity
//	    product: "7"
//	    choose:
//	      - { group: Spice Level, option: Hot }
//	    quantity: 5
//	assertions:
//	  - type: line_count
//	    count: 1
//	  - type: subtotal
//	    equals: "60.00"
//
// # Step Actions
//
//   - add: configure product with choose, confirm, add to the cart
//   - remove, set_quantity: target the line by sku, or by product + choose
//   - clear, place_order, reset_order
//   - drawer: show or hide the drawer (visible)
//   - reload: rebuild the store from the session, as a page reload would
//
// # Assertion Types
//
//   - line_count: number of distinct lines
//   - line_quantity: quantity of one line
//   - subtotal: formatted subtotal
//   - sku: the SKU a product + choose resolves to, which must be in the cart
//   - order_placed, drawer_visible: flags
//   - persisted_lines: number of lines stored in the session
//
// # Deterministic Testing
//
// Trace sequence numbers come from a fresh logical clock and every scenario
// runs in its own ":memory:" database, so identical scenarios produce
// byte-identical canonical JSON traces.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/order_flow.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
