package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/autotimer/internal/compiler"
	"github.com/roach88/autotimer/internal/config"
	"github.com/roach88/autotimer/internal/engine"
	"github.com/roach88/autotimer/internal/eventlog"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/qusb"
	"github.com/roach88/autotimer/internal/snes"
	"github.com/roach88/autotimer/internal/store"
	"github.com/roach88/autotimer/internal/timing"
)

// Producer captures readings from the console. Implemented by qusb.Poller.
type Producer interface {
	Run(ctx context.Context, out chan<- snes.Reading) error
	Race() qusb.RaceStatus
}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config  config.Config
	DataDir string

	// NewProducer allows overriding the snapshot producer (for testing).
	// If nil, a qusb.Poller for the configured host and port is used.
	NewProducer func(cfg config.Config) Producer

	// SessionGenerator allows overriding session ids (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionGenerator engine.SessionIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track a live game through QUsb2Snes",
		Long: `Connect to a QUsb2Snes server, poll console memory and record every
detected event to a SQLite database.

Settings come from AUTOTIMER_* environment variables; flags override them.
Detected events are only printed with --non-race on a ROM that is not a
race ROM. Send SIGHUP to clear the event log and start a new session.

Example:
  autotimer run --db ./autotimer.db
  autotimer run --host 192.168.1.20 --port 23074 --non-race --verbosity 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = mergeFlags(cmd, cfg, flags)
			if err := opts.Config.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return runTracker(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&flags.Host, "host", "127.0.0.1", "QUsb2Snes host")
	cmd.Flags().IntVar(&flags.Port, "port", 8080, "QUsb2Snes port")
	cmd.Flags().DurationVar(&flags.PollInterval, "poll-interval", 12*time.Millisecond, "time between memory reads")
	cmd.Flags().StringVar(&flags.DB, "db", "autotimer.db", "path to SQLite database")
	cmd.Flags().BoolVar(&flags.NonRace, "non-race", false, "print detections when the ROM is not a race ROM")
	cmd.Flags().IntVar(&flags.Verbosity, "verbosity", 0, "detection verbosity (2 adds actions)")
	cmd.Flags().StringVar(&opts.DataDir, "data", "", "directory of .cue check data (default: embedded)")

	return cmd
}

// mergeFlags overrides cfg with every flag set on the command line.
func mergeFlags(cmd *cobra.Command, cfg, flags config.Config) config.Config {
	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Host = flags.Host
	}
	if changed("port") {
		cfg.Port = flags.Port
	}
	if changed("poll-interval") {
		cfg.PollInterval = flags.PollInterval
	}
	if changed("db") {
		cfg.DB = flags.DB
	}
	if changed("non-race") {
		cfg.NonRace = flags.NonRace
	}
	if changed("verbosity") {
		cfg.Verbosity = flags.Verbosity
	}
	return cfg
}

func runTracker(opts *RunOptions, cmd *cobra.Command) error {
	cfg := opts.Config

	ds, errs := LoadData(opts.DataDir, compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return WrapExitError(ExitFailure, "failed to load check data", errs[0])
	}
	slog.Info("check data loaded", "hash", ds.Hash, "files", len(ds.Files))

	slog.Info("opening database", "path", cfg.DB)
	st, err := store.Open(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	seq, err := st.MaxSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read database", err)
	}
	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run history", err)
	}

	newProducer := opts.NewProducer
	if newProducer == nil {
		newProducer = func(cfg config.Config) Producer {
			return qusb.NewPoller(qusb.URL(cfg.Host, cfg.Port), qusb.WithInterval(cfg.PollInterval))
		}
	}
	producer := newProducer(cfg)

	ids := opts.SessionGenerator
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}

	out := &printer{
		w:       cmd.OutOrStdout(),
		enabled: func() bool { return cfg.NonRace && producer.Race() == qusb.NonRaceROM },
		history: timing.RunDurations(completedRuns(runs)),
	}
	eng := engine.New(ds,
		engine.WithSink(st),
		engine.WithClock(engine.NewClockAt(seq)),
		engine.WithSessionGenerator(ids),
		engine.WithVerbosity(cfg.Verbosity),
		engine.WithObserver(out),
		engine.WithStopAtCredits(),
	)
	out.eng = eng

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		for {
			select {
			case sig := <-sigChan:
				if sig == syscall.SIGHUP {
					slog.Info("received signal, clearing event log", "signal", sig)
					eng.Submit(engine.CommandClearEventLog)
					continue
				}
				slog.Info("received signal, shutting down", "signal", sig)
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	readings := make(chan snes.Reading)
	produced := make(chan error, 1)
	go func() {
		err := producer.Run(ctx, readings)
		close(readings)
		produced <- err
	}()

	slog.Info("tracker starting", "db", cfg.DB, "host", cfg.Host, "port", cfg.Port)
	runErr := eng.Run(ctx, readings)
	cancel()
	prodErr := <-produced

	switch {
	case engine.IsFatal(runErr):
		return WrapExitError(ExitFailure, "session aborted", runErr)
	case runErr != nil && !isShutdown(runErr):
		return WrapExitError(ExitFailure, "engine error", runErr)
	case prodErr != nil && !isShutdown(prodErr):
		return WrapExitError(ExitCommandError, "snapshot producer failed", prodErr)
	}

	slog.Info("tracker stopped", "state", eng.State(), "session", eng.SessionID())
	return nil
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// printer writes detections as they happen, then the verdict and splits of
// a finished run. It runs on the engine goroutine.
type printer struct {
	w       io.Writer
	enabled func() bool
	eng     *engine.Engine
	history timing.Durations
}

func (p *printer) OnEvent(e ir.Event) {
	if !p.enabled() {
		return
	}
	events := recorded(p.eng.Events())
	run := timing.FromEvents(p.eng.SessionID(), events)
	elapsed, _ := run.Duration()
	if !e.Objective() {
		elapsed = 0
		if len(run.Splits) > 0 {
			elapsed = e.Timestamp().Sub(run.Splits[0].At)
		}
	}
	fmt.Fprintf(p.w, "%10s  %-14s %s\n", timing.FormatDuration(elapsed), e.Kind, eventLabel(e))

	if !isVictory(e.Kind, e.ID()) {
		return
	}
	verdict := p.history.Verdict(elapsed)
	fmt.Fprintln(p.w, verdict.Describe(elapsed))
	p.history = append(p.history, elapsed)

	if len(events) == 0 {
		return
	}
	start := events[0].Timestamp()
	fmt.Fprintln(p.w, "Splits:")
	for _, g := range eventlog.Compact(events) {
		at := g.Events[0].Timestamp().Sub(start)
		fmt.Fprintf(p.w, "  %10s  %s\n", timing.FormatDuration(at), g.Name)
	}
}

// recorded drops the synthetic start transition, which is never written
// to the store, so live times match the ones stats reports.
func recorded(events []ir.Event) []ir.Event {
	out := make([]ir.Event, 0, len(events))
	for _, e := range events {
		if e.Kind == ir.EventTransition && e.ID() == ir.StartTileID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func eventLabel(e ir.Event) string {
	if name := e.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", e.ID())
}
