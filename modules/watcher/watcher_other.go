//go:build !linux

package watcher

import (
	"fmt"
	"github.com/fsnotify/fsnotify"
	"path/filepath"
	"sync"
)

// MarkEventFlags is the set of changes that fire a watch. fsnotify has no close-write
// operation, a content write is reported as Write.
const MarkEventFlags = uint32(fsnotify.Write | fsnotify.Remove | fsnotify.Rename)

// fsnotify is keyed by path, so handles are handed out here.
type fsnotifyNotifier struct {
	watcher *fsnotify.Watcher
	handles map[string]Handle
	paths   map[Handle]string
	next    Handle
	mu      *sync.Mutex
}

func newNotifier() (notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &fsnotifyNotifier{
		watcher: w,
		handles: make(map[string]Handle),
		paths:   make(map[Handle]string),
		next:    1,
		mu:      &sync.Mutex{},
	}, nil
}

func (n *fsnotifyNotifier) Add(path string) (Handle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.watcher == nil {
		return 0, ErrClosed
	}

	key := filepath.Clean(path)
	if h, ok := n.handles[key]; ok {
		return h, nil
	}

	err := n.watcher.Add(key)
	if err != nil {
		return 0, fmt.Errorf("failed to add watch: %w", err)
	}

	h := n.next
	n.next++
	n.handles[key] = h
	n.paths[h] = key

	return h, nil
}

func (n *fsnotifyNotifier) Remove(h Handle) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.watcher == nil {
		return ErrClosed
	}

	key, ok := n.paths[h]
	if !ok {
		return fmt.Errorf("unknown watch handle %d", h)
	}
	delete(n.paths, h)
	delete(n.handles, key)

	return n.watcher.Remove(key)
}

func (n *fsnotifyNotifier) Next() (Event, error) {
	n.mu.Lock()
	w := n.watcher
	n.mu.Unlock()

	if w == nil {
		return Event{}, ErrClosed
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return Event{}, ErrClosed
			}
			if uint32(event.Op)&MarkEventFlags == 0 {
				continue
			}

			n.mu.Lock()
			h, known := n.handles[filepath.Clean(event.Name)]
			n.mu.Unlock()
			if !known {
				h = -1
			}

			return Event{Handle: h, Mask: uint32(event.Op)}, nil
		case err, ok := <-w.Errors:
			if !ok {
				return Event{}, ErrClosed
			}
			return Event{}, fmt.Errorf("watcher returned error: %w", err)
		}
	}
}

func (n *fsnotifyNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.watcher == nil {
		return nil
	}

	err := n.watcher.Close()
	n.watcher = nil

	return err
}
