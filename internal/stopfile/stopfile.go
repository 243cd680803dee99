// Package stopfile detects the cooperative-stop sentinel: a flag file
// whose mere existence requests cancellation. Workers poll with Exists
// at fixed candidate intervals; the controller may additionally run a
// Watcher so the latch flips as soon as the file appears instead of at
// the next poll. Neither path creates or removes the file.
package stopfile

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Exists reports whether the stop flag file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Watcher invokes a callback once when the flag file appears.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch observes the flag file's directory and calls onDetect the first
// time the file is created or written. If the file already exists,
// onDetect fires immediately. Watch fails when the directory cannot be
// observed; callers fall back to polling alone.
func Watch(path string, onDetect func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		if Exists(path) {
			onDetect()
			return
		}
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Name == path && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					onDetect()
					return
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w, nil
}

// Close stops watching and waits for the callback goroutine to drain.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
