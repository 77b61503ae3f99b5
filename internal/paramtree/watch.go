package paramtree

import (
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SeedWatcher watches a static parameter seed file and invokes onReload
// with the freshly decoded tree whenever the file changes, so the caller
// can push the reload through the normal Set + on_param_update path (the
// same way any other write is seen by subscribers). This is explicitly not
// persistence of the live tree (§1 Non-goals): it is a one-way reload
// input, grounded on the teacher's use of fsnotify for config hot-reload.
type SeedWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	log     *zap.Logger
	done    chan struct{}
}

// WatchSeed starts watching path. onReload is called from a background
// goroutine on every write event; callers must synchronize their own
// access to the tree.
func WatchSeed(path string, log *zap.Logger, onReload func(Value)) (*SeedWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	sw := &SeedWatcher{watcher: w, path: path, log: log, done: make(chan struct{})}
	go sw.loop(onReload)
	return sw, nil
}

func (sw *SeedWatcher) loop(onReload func(Value)) {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			v, err := LoadSeed(sw.path)
			if err != nil {
				sw.log.Warn("param seed reload failed", zap.String("path", sw.path), zap.Error(err))
				continue
			}
			onReload(v)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("param seed watcher error", zap.Error(err))
		case <-sw.done:
			return
		}
	}
}

// Close stops the watcher.
func (sw *SeedWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
