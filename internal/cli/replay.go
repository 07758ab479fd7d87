package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/autotimer/internal/harness"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Canonical bool // print the canonical JSON trace instead
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a recorded snapshot sequence",
		Long: `Run a scenario of snapshot patches through the engine against an
in-memory database, print the resulting event trace and evaluate the
scenario's assertions.

Exit codes:
  0 - Replay finished and every assertion held
  1 - The session was aborted or an assertion failed
  2 - Command error (scenario not found, invalid scenario, etc.)

Examples:
  autotimer replay ./scenarios/any_percent.yaml
  autotimer replay ./scenarios/any_percent.yaml --canonical > trace.golden
  autotimer replay ./scenarios/any_percent.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print the canonical JSON trace (golden file format)")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		code := ErrCodeScanError
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("Replaying %d frame(s) of %s", len(scenario.Frames), scenario.Name)

	result, err := harness.Run(scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	switch {
	case opts.Canonical:
		data, err := harness.MarshalTrace(scenario.Name, result)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to marshal trace", err)
		}
		fmt.Fprintln(formatter.Writer, string(data))
	case opts.Format == "json":
		if err := formatter.Success(result); err != nil {
			return err
		}
	default:
		printTrace(formatter.Writer, scenario.Name, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed with %d error(s)", scenario.Name, len(result.Errors)))
	}
	return nil
}

func printTrace(w io.Writer, name string, result *harness.Result) {
	fmt.Fprintf(w, "Scenario: %s\n", name)
	if len(result.Trace) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, e := range result.Trace {
		line := fmt.Sprintf("  [%d] %8dms  %-20s %s", e.Seq, e.AtMS, e.Ref(), e.Name)
		if e.Indoors != nil {
			place := "outdoors"
			if *e.Indoors {
				place = "indoors"
			}
			line += " (" + place + ")"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(w, "Sessions: %s\n", strings.Join(result.Sessions, ", "))
	fmt.Fprintf(w, "State: %s\n", result.State)

	if result.Pass {
		fmt.Fprintln(w, "✓ PASS")
		return
	}
	fmt.Fprintln(w, "✗ FAIL")
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
