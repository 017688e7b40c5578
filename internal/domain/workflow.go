package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"luaveil.dev/pkg/luaveil/internal/adapter"
	"luaveil.dev/pkg/luaveil/internal/controller"
	"luaveil.dev/pkg/luaveil/internal/namegen"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

const outputPerm = 0o644

// StdinName labels a script read from standard input.
const StdinName = m.Path("stdin")

// Settings are shared by every entry point that obfuscates.
type Settings struct {
	Level m.Level
	Seed  int64
	// Seeded makes Seed authoritative; otherwise a random seed is drawn.
	Seeded bool
	// ControlFlowProbability overrides the level default when >= 0.
	ControlFlowProbability float64
	Verify                 bool
	// Session is where the last run is saved. Empty disables saving.
	Session m.Path
}

// ObfuscateArgs contains the arguments for obfuscating files.
type ObfuscateArgs struct {
	Settings
	Paths   []m.Path
	Exclude []string
	// Output is the directory for obfuscated files. Empty writes next to
	// each source.
	Output  m.Path
	Threads int
	// Stdout prints results instead of writing files.
	Stdout bool
	Diff   bool
}

// StreamArgs contains the arguments for obfuscating one stream.
type StreamArgs struct {
	Settings
	Input io.Reader
}

// LastArgs selects what Last prints.
type LastArgs struct {
	Session m.Path
	Part    controller.SessionPart
}

// Workflow defines the top-level use cases behind the CLI.
type Workflow interface {
	Obfuscate(ctx context.Context, args ObfuscateArgs) error
	ObfuscateStream(ctx context.Context, args StreamArgs) error
	Levels(ctx context.Context) error
	Last(ctx context.Context, args LastArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.LuaRunnerAdapter
	adapter.SessionStore
	controller.UI
	obfuscator Obfuscator
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	runner adapter.LuaRunnerAdapter,
	sessions adapter.SessionStore,
	ui controller.UI,
	obfuscator Obfuscator,
) Workflow {
	return &workflow{
		SourceFSAdapter:  fsAdapter,
		LuaRunnerAdapter: runner,
		SessionStore:     sessions,
		UI:               ui,
		obfuscator:       obfuscator,
	}
}

// outcome carries a result together with the texts it was computed from.
type outcome struct {
	result m.Result
	source string
	output string
}

func (w *workflow) Obfuscate(ctx context.Context, args ObfuscateArgs) error {
	if !args.Level.Valid() {
		return fmt.Errorf("%w: %d", m.ErrInvalidSeverity, int(args.Level))
	}

	scripts, err := w.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return fmt.Errorf("get scripts: %w", err)
	}

	if len(scripts) == 0 {
		return fmt.Errorf("no %s scripts found", m.LuaExt)
	}

	seed := baseSeed(args.Settings)
	threads := max(args.Threads, 1)
	runID := uuid.NewString()

	slog.Info("Starting obfuscation run", "run", runID, "scripts", len(scripts), "level", int(args.Level), "seed", seed, "threads", threads)

	if !args.Stdout {
		w.DisplayRunInfo(ctx, controller.RunInfo{
			RunID: runID, Scripts: len(scripts), Level: args.Level,
			Threads: threads, Seed: seed, Verify: args.Verify,
		})
	}

	outcomes, err := w.obfuscateAll(ctx, args, scripts, seed, threads)
	if err != nil {
		return err
	}

	results := make([]m.Result, len(outcomes))
	for i, o := range outcomes {
		results[i] = o.result

		if args.Diff && o.result.Err == nil {
			w.DisplayDiff(ctx, o.result.Source, o.source, o.output)
		}

		if args.Stdout && o.result.Err == nil {
			w.DisplayScript(ctx, o.output)
		}
	}

	if !args.Stdout {
		w.DisplayResults(ctx, results)
	}

	w.saveSession(args.Settings, outcomes)

	return summarize(runID, results)
}

func (w *workflow) obfuscateAll(ctx context.Context, args ObfuscateArgs, scripts []m.Path, seed int64, threads int) ([]outcome, error) {
	outcomes := make([]outcome, len(scripts))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, script := range scripts {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			outcomes[i] = w.obfuscateFile(groupCtx, args, script, seed+int64(i))

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("obfuscate scripts: %w", err)
	}

	return outcomes, nil
}

func (w *workflow) obfuscateFile(ctx context.Context, args ObfuscateArgs, script m.Path, seed int64) outcome {
	content, err := w.ReadFile(script)
	if err != nil {
		slog.Error("Failed to read script", "path", script, "error", err)
		return outcome{result: m.Result{Source: script, Level: args.Level, Seed: seed, Err: fmt.Errorf("read: %w", err)}}
	}

	o := w.obfuscateText(ctx, args.Settings, script, string(content), seed)
	if o.result.Err != nil || args.Stdout {
		return o
	}

	target := outputPath(args.Output, script)
	if err := w.WriteFile(target, []byte(o.output), outputPerm); err != nil {
		slog.Error("Failed to write output", "path", target, "error", err)
		o.result.Err = fmt.Errorf("write %s: %w", target, err)

		return o
	}

	o.result.Output = target

	return o
}

// obfuscateText runs the pipeline on one script and optionally verifies it.
func (w *workflow) obfuscateText(ctx context.Context, s Settings, name m.Path, source string, seed int64) outcome {
	start := time.Now()
	result := m.Result{Source: name, Level: s.Level, Seed: seed, InSize: len(source)}

	out, err := w.obfuscator.Obfuscate(source, s.Level, WithSeed(seed), WithControlFlowProbability(s.ControlFlowProbability))
	if err != nil {
		slog.Error("Failed to obfuscate", "path", name, "error", err)
		result.Err = fmt.Errorf("obfuscate: %w", err)

		return outcome{result: result, source: source}
	}

	result.Metrics = ComputeMetrics(out, len(source))

	if s.Verify {
		result.Verify, result.Detail = w.verify(ctx, name, source, out)
	}

	result.Duration = time.Since(start)

	slog.Debug("Obfuscated script", "path", name, "seed", seed, "in", len(source), "out", len(out), "verify", result.Verify.String())

	return outcome{result: result, source: source, output: out}
}

// verify runs both versions of a script and compares what they return and
// print.
func (w *workflow) verify(ctx context.Context, name m.Path, original, obfuscated string) (m.VerifyStatus, string) {
	want, err := w.Run(ctx, string(name), original)
	if err != nil {
		return m.VerifyFailed, fmt.Sprintf("original: %v", err)
	}

	got, err := w.Run(ctx, string(name.Obfuscated()), obfuscated)
	if err != nil {
		return m.Diverged, fmt.Sprintf("obfuscated: %v", err)
	}

	if !slices.Equal(want.Returns, got.Returns) {
		return m.Diverged, fmt.Sprintf("returned %v, want %v", got.Returns, want.Returns)
	}

	if want.Stdout != got.Stdout {
		return m.Diverged, "printed output differs"
	}

	return m.Equivalent, ""
}

func (w *workflow) ObfuscateStream(ctx context.Context, args StreamArgs) error {
	if !args.Level.Valid() {
		return fmt.Errorf("%w: %d", m.ErrInvalidSeverity, int(args.Level))
	}

	content, err := io.ReadAll(args.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	o := w.obfuscateText(ctx, args.Settings, StdinName, string(content), baseSeed(args.Settings))
	if o.result.Err != nil {
		return o.result.Err
	}

	w.DisplayScript(ctx, o.output)
	w.saveSession(args.Settings, []outcome{o})

	if o.result.Verify == m.Diverged || o.result.Verify == m.VerifyFailed {
		return fmt.Errorf("verification %s: %s", o.result.Verify, o.result.Detail)
	}

	return nil
}

func (w *workflow) Levels(ctx context.Context) error {
	levels := make([]controller.LevelInfo, 0, len(m.Levels))

	for _, level := range m.Levels {
		plan, err := Select(level, -1)
		if err != nil {
			return err
		}

		info := controller.LevelInfo{Level: level, Passes: plan.PassNames()}

		switch level {
		case m.LevelStandard:
			info.ControlFlow = StandardControlFlowProbability
		case m.LevelMaximum:
			info.ControlFlow = MaximumControlFlowProbability
		}

		levels = append(levels, info)
	}

	w.DisplayLevels(ctx, levels)

	return nil
}

func (w *workflow) Last(ctx context.Context, args LastArgs) error {
	session, err := w.LoadSession(args.Session)
	if err != nil {
		return fmt.Errorf("no saved session: %w", err)
	}

	w.DisplaySession(ctx, session, args.Part)

	return nil
}

// saveSession stores the last successful outcome.
func (w *workflow) saveSession(s Settings, outcomes []outcome) {
	if s.Session == "" {
		return
	}

	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		if o.result.Err != nil {
			continue
		}

		err := w.SaveSession(s.Session, m.Session{Input: o.source, Output: o.output, Level: s.Level})
		if err != nil {
			slog.Error("Failed to save session", "path", s.Session, "error", err)
		}

		return
	}
}

func summarize(runID string, results []m.Result) error {
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}

		if r.Verify == m.Diverged || r.Verify == m.VerifyFailed {
			errs = append(errs, fmt.Errorf("%s: verification %s", r.Source, r.Verify))
		}
	}

	if len(errs) == 0 {
		slog.Info("Obfuscation run finished", "run", runID, "scripts", len(results))
		return nil
	}

	slog.Error("Obfuscation run finished with errors", "run", runID, "failed", len(errs))

	return fmt.Errorf("%d of %d script(s) failed: %w", len(errs), len(results), errors.Join(errs...))
}

func baseSeed(s Settings) int64 {
	if s.Seeded {
		return s.Seed
	}

	return namegen.RandomSeed()
}

// outputPath places the obfuscated file next to its source, or under dir
// keeping the source's path with any root and leading ".." removed.
func outputPath(dir, script m.Path) m.Path {
	name := script.Obfuscated()
	if dir == "" {
		return name
	}

	sep := string(filepath.Separator)
	rel := filepath.Clean(string(name))
	rel = strings.TrimPrefix(rel, filepath.VolumeName(rel))
	rel = strings.TrimLeft(rel, sep)

	for rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		rel = strings.TrimLeft(strings.TrimPrefix(rel, ".."), sep)
	}

	return m.Path(filepath.Join(string(dir), rel))
}
