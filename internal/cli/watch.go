package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce collapses the burst of events an editor produces for one save.
const debounce = 100 * time.Millisecond

// watchCommand creates the watch command, which recomputes the layout every
// time the snapshot changes on disk.
func (c *CLI) watchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [snapshot.json]",
		Short: "Recompute the layout whenever a snapshot changes",
		Long: `Recompute the layout whenever a snapshot changes.

The layout is written once at start and again after every save. A snapshot
that fails validation is reported and the previous layout file is kept.
Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input, output string) error {
	logger := snapshotLogger(ctx, input)
	path := outputPath(output, input, ".layout.json")

	relayout := func() {
		e, err := c.layoutFile(ctx, input)
		if err != nil {
			logger.Error("snapshot rejected", "path", input, "err", err)
			return
		}
		if err := writeLayout(e, path); err != nil {
			logger.Error("write failed", "err", err)
			return
		}
		logger.Info("layout updated", "nodes", e.Graph().NodeCount(), "crossings", e.Layout().Crossings)
	}

	w, err := newFileWatcher(input)
	if err != nil {
		return err
	}
	defer w.Close()

	relayout()
	printInfo("Watching %s", input)
	printFile(path)
	return watchLoop(ctx, w, input, relayout)
}

// newFileWatcher watches the directory holding path. Editors often save by
// renaming a temporary file over the original, which a watch on the file
// itself would lose.
func newFileWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("snapshot watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("snapshot watcher add %s: %w", dir, err)
	}
	return w, nil
}

// watchLoop calls fn after writes to path settle, until ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fn func()) error {
	logger := loggerFromContext(ctx)
	target := filepath.Clean(path)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				logger.Debug("snapshot changed", "op", ev.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
