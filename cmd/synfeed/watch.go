package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/umputun/synfeed/pkg/feed"
)

// watch re-parses file sources when they change and renders each reload, until ctx is done.
// Urls and stdin are loaded once and never watched.
func watch(ctx context.Context, mgr *feed.Manager, out *renderer, sources []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// directories are watched, editors often replace files instead of writing them in place
	files := map[string]string{}
	for _, src := range sources {
		if src == "-" || feed.IsURL(src) {
			continue
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src, err)
		}
		files[abs] = src
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", src, err)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to watch, only file sources can be watched")
	}
	log.Printf("[INFO] watching %d files", len(files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			src, known := files[filepath.Clean(ev.Name)]
			if !known || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			log.Printf("[DEBUG] %s changed, %s", src, ev.Op)
			if err := out.Render(mgr.LoadAll(ctx, []string{src})); err != nil {
				log.Printf("[WARN] can't render %s: %v", src, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", err)
		}
	}
}
