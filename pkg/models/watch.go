package models

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/diorama/pkg/render"
)

// Reload is the result of reloading a watched mesh file.
type Reload struct {
	Path string
	Mesh *Mesh
	Err  error
}

// Watcher reloads mesh files when they change on disk. Directories are
// watched rather than files so editors that replace files on save are
// still seen.
type Watcher struct {
	fs      *fsnotify.Watcher
	paths   map[string]bool
	reloads chan Reload
}

// NewWatcher starts watching paths. Call Run to process events and Close to
// release the underlying watcher.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		paths:   make(map[string]bool, len(paths)),
		reloads: make(chan Reload, len(paths)+1),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.paths[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Reloads delivers reloaded meshes. Consumers poll it between frames.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || !w.paths[path] {
				continue
			}
			m, err := Load(path)
			render.Logger().Info("mesh file changed", "path", path, "err", err)
			select {
			case w.reloads <- Reload{Path: path, Mesh: m, Err: err}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			render.Logger().Warn("mesh watcher error", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
