package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/autotimer/internal/compiler"
	"github.com/roach88/autotimer/internal/data"
)

// ValidationIssue is one error or warning found in the data.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Hash     string            `json:"hash,omitempty"`
	Counts   map[string]int    `json:"counts,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [data-dir]",
		Short: "Validate check and tile data",
		Long: `Compile the declarative check and tile data and report every error
instead of stopping at the first one. Without a directory the data
embedded in the binary is validated.

Warnings (such as comparisons the engine cannot evaluate at runtime) are
reported but do not fail validation.

Exit codes:
  0 - Data valid
  1 - Data invalid
  2 - Command error (directory not found, no .cue files)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ds, errs := LoadData(dir, compiler.LoadModeCollectAll)
	if ds == nil && len(errs) > 0 {
		var loadErr *LoadError
		if errors.As(errs[0], &loadErr) && (loadErr.Code == ErrCodeNotFound || loadErr.Code == ErrCodeNoFiles) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
		}
	}

	result := ValidationResult{Valid: len(errs) == 0}
	for _, err := range errs {
		result.Errors = append(result.Errors, issueOf(err))
	}
	if ds != nil {
		formatter.VerboseLog("Compiled %d data file(s): %v", len(ds.Files), ds.Files)
		for _, w := range ds.Warnings {
			result.Warnings = append(result.Warnings, ValidationIssue{Code: w.Code, Field: w.Field, Message: w.Message})
		}
		if result.Valid {
			result.Hash = ds.Hash
			result.Counts = counts(ds)
		}
	}

	if opts.Format == "json" {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.Error(result.Errors[0].Code, result.Errors[0].Message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "warning %s: %s: %s\n", w.Code, w.Field, w.Message)
	}

	if !result.Valid {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		fmt.Fprintln(formatter.Writer)
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(formatter.Writer, "%s:%d\n", e.File, e.Line)
			}
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	fmt.Fprintf(formatter.Writer, "✓ Data valid: %d events, %d locations, %d items, %d actions, %d tiles\n",
		result.Counts["events"], result.Counts["locations"], result.Counts["items"],
		result.Counts["actions"], result.Counts["tiles"])
	fmt.Fprintf(formatter.Writer, "  hash %s\n", result.Hash)
	return nil
}

func issueOf(err error) ValidationIssue {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
	}
	issue := ValidationIssue{
		Code:    loadErr.Code,
		Field:   loadErr.Field,
		Message: loadErr.Message,
		Line:    loadErr.Line(),
	}
	if loadErr.Pos.IsValid() {
		issue.File = loadErr.Pos.Filename()
	}
	return issue
}

func counts(ds *data.Dataset) map[string]int {
	return map[string]int{
		compiler.FieldEvents:    len(ds.Events),
		compiler.FieldLocations: len(ds.Locations),
		compiler.FieldItems:     len(ds.Items),
		compiler.FieldActions:   len(ds.Actions),
		compiler.FieldTiles:     len(ds.Tiles),
	}
}
