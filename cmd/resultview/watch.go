package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay batches bursts of editor writes into one render.
const debounceDelay = 200 * time.Millisecond

// watcher re-renders result files when they change.
type watcher struct {
	root   string
	output string
	pool   Pool
	job    *renderJob
	env    *Environment
	log    *zap.Logger
	quiet  bool

	// outputs holds files this watcher wrote, so they never retrigger.
	outputs map[string]bool
}

// run watches root until ctx is cancelled.
func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	if err := w.addDirs(fw, w.root, info); err != nil {
		return err
	}
	if w.outputs == nil {
		w.outputs = make(map[string]bool)
	}

	if !w.quiet {
		fmt.Fprintf(w.env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.root)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounceDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.addDirs(fw, event.Name, fi)
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(debounceDelay)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.flush(ctx, pending)
			clear(pending)
		}
	}
}

// addDirs registers dir and its subdirectories; a file root registers its
// parent, since editors often replace files instead of writing in place.
func (w *watcher) addDirs(fw *fsnotify.Watcher, path string, info fs.FileInfo) error {
	if !info.IsDir() {
		return fw.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fw.Add(p); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
		}
		return nil
	})
}

// relevant reports whether an event concerns an input this watcher renders.
func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !isInputFile(event.Name) || strings.Contains(filepath.Base(event.Name), ".rendered.") {
		return false
	}
	if w.outputs[filepath.Clean(event.Name)] {
		return false
	}
	if fi, err := os.Stat(w.root); err == nil && !fi.IsDir() {
		return filepath.Clean(event.Name) == filepath.Clean(w.root)
	}
	return true
}

// flush renders every pending file once.
func (w *watcher) flush(ctx context.Context, pending map[string]bool) {
	baseDir := ""
	if fi, err := os.Stat(w.root); err == nil && fi.IsDir() {
		baseDir = w.root
	}

	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]fileToRender, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue // removed or renamed away
		}
		out := resolveOutputPath(p, w.output, baseDir, formatExt(w.job.format))
		w.outputs[filepath.Clean(out)] = true
		files = append(files, fileToRender{InputPath: p, OutputPath: out})
	}

	results := renderBatch(ctx, w.pool, files, w.job)
	printOutcomes(results, w.quiet, true, w.env)
}
