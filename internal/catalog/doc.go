// Package catalog is the ingestion boundary for menu content.
//
// Products arrive from the content source with loosely typed modifier group
// markers ("yes"/"no", booleans, "single"/"multi"). Everything in this package
// converts those markers into the typed Requirement and SelectionMode enums so
// the rest of the module never sees the raw strings.
//
// Prices are left loosely typed on purpose: they are read through
// pricing.NumericCoerce at every use site.
package catalog
