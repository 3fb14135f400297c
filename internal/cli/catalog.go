package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/pricing"
)

// CatalogIssue is one problem found while loading a catalog.
type CatalogIssue struct {
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// CatalogValidation holds catalog validation results.
type CatalogValidation struct {
	Valid    bool           `json:"valid"`
	Products int            `json:"products"`
	Errors   []CatalogIssue `json:"errors,omitempty"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the menu catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [catalog-file]",
		Short: "Validate a YAML or CUE catalog",
		Long: `Load a catalog and check it for malformed group markers, duplicate
product ids, duplicate group or option names and empty names.

Defaults to --catalog when no file is given.

Exit codes:
  0 - Catalog valid
  1 - Catalog invalid
  2 - Catalog file not found`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogValidate(rootOpts, catalogPath(rootOpts, args), cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "show [catalog-file]",
		Short:         "List products, modifier groups and prices",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(rootOpts, catalogPath(rootOpts, args), cmd)
		},
	})

	return cmd
}

func catalogPath(opts *RootOptions, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return opts.CatalogPath
}

func runCatalogValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cat, err := catalog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("catalog file not found: %s", path), nil)
	}
	if err != nil {
		return outputCatalogIssues(formatter, catalogIssues(err))
	}

	if formatter.IsJSON() {
		return formatter.Success(CatalogValidation{Valid: true, Products: len(cat.Products)}, "")
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d product(s)\n", len(cat.Products))
	return nil
}

// catalogIssues flattens a load error into reportable issues. Compile
// errors keep their source line; joined validation errors become one issue
// each.
func catalogIssues(err error) []CatalogIssue {
	var compileErr *catalog.CompileError
	if errors.As(err, &compileErr) {
		issue := CatalogIssue{Field: compileErr.Field, Message: compileErr.Message}
		if compileErr.Pos.IsValid() {
			issue.Line = compileErr.Pos.Line()
		}
		return []CatalogIssue{issue}
	}

	var issues []CatalogIssue
	for _, msg := range strings.Split(err.Error(), "\n") {
		if msg != "" {
			issues = append(issues, CatalogIssue{Message: msg})
		}
	}
	return issues
}

func outputCatalogIssues(formatter *OutputFormatter, issues []CatalogIssue) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("catalog invalid with %d error(s)", len(issues)))

	if formatter.IsJSON() {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   CatalogValidation{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    ErrCodeCatalog,
				Message: issues[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Catalog invalid")
	fmt.Fprintln(w)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(w, "line %d\n", issue.Line)
		}
		if issue.Field != "" {
			fmt.Fprintf(w, "  %s: %s\n\n", issue.Field, issue.Message)
		} else {
			fmt.Fprintf(w, "  %s\n\n", issue.Message)
		}
	}
	return failure
}

func runCatalogShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cat, err := catalog.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCatalog, err.Error(), map[string]string{"catalog": path})
	}

	if formatter.IsJSON() {
		return formatter.Success(cat, "")
	}

	w := formatter.Writer
	for _, p := range cat.Products {
		kind := ""
		if p.IsCombo() {
			kind = " [combo]"
		}
		fmt.Fprintf(w, "%s  %s%s  %s\n", p.ID, p.Name, kind, pricing.Format(pricing.NumericCoerce(p.BasePrice)))
		for _, g := range p.Groups {
			choices := make([]string, len(g.Options))
			for i, o := range g.Options {
				choices[i] = fmt.Sprintf("%s +%s", o.Name, pricing.Format(pricing.NumericCoerce(o.PriceDelta)))
			}
			fmt.Fprintf(w, "    %s (%s, %s): %s\n", g.Name, g.Requirement, g.Mode, strings.Join(choices, ", "))
		}
	}
	return nil
}
