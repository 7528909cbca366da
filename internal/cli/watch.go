package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/pipeline"
	"github.com/matzehuels/famtree/pkg/scheduler"
)

// defaultWatchDebounce is the quiet period after the last file event
// before a re-render.
const defaultWatchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var flags renderFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <tree-file>",
		Short: "Re-render a tree whenever it or its style override changes",
		Long: `Watch renders once, then re-renders every time the tree file or the
--override file is saved. Bursts of saves collapse into a single render.
Render errors are reported and watching continues; stop with Ctrl+C.`,
		Example: `  famtree watch ada.yaml -f svg,png
  famtree watch ada.json --override mine.toml --debounce 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.watch(cmd.Context(), flags.options(args[0]), flags.output, flags.noCache, debounce)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultWatchDebounce, "quiet period before re-rendering")
	return cmd
}

// watch renders opts and re-renders on every change of the watched files
// until ctx ends.
func (c *CLI) watch(ctx context.Context, opts pipeline.Options, output string, noCache bool, debounce time.Duration) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, so watch the
	// parent directories and filter by name.
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range []string{opts.TreePath, opts.OverridePath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	render := func(trigger scheduler.Trigger) {
		res, paths, err := c.renderFiles(ctx, runner, opts, output)
		if err != nil {
			if ctx.Err() == nil {
				printError("Render failed: %v", err)
			}
			return
		}
		printSuccess("Rendered %s (%s)", res.Tree.DisplayName(), trigger)
		for _, p := range paths {
			printFile(p)
		}
		printStats(res.Stats.MemberCount, res.Stats.SegmentCount, res.CacheInfo.RenderHit)
	}

	sched := scheduler.New(scheduler.NewTimerClock(debounce), render, scheduler.WithLogger(c.Logger))
	defer sched.Close()

	changed := scheduler.NewSignal(scheduler.TriggerFileChange)
	sched.Listen(changed)

	sched.RunNow(scheduler.TriggerInitial)
	printInfo("Watching %d file(s), press Ctrl+C to stop", len(watched))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			c.Logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			changed.Emit()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch error: %v", err)
		}
	}
}
