package watcher

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"os"
)

// NoMatch is returned by Resolve for a handle that was never registered.
const NoMatch = "<no match>"

var (
	ErrNotRegular     = errors.New("not a regular file")
	ErrAlreadyWatched = errors.New("path is already watched")
	ErrClosed         = errors.New("watch list is closed")
	ErrShortRead      = errors.New("short event read")
	ErrEventTooLarge  = errors.New("event record exceeds read buffer")
)

// TrackedFile is one successfully registered watch. Name is kept exactly as the
// caller supplied it.
type TrackedFile struct {
	Handle Handle
	Name   string
}

// WatchList owns one notifier session and every watch registered through it.
// It is not safe for concurrent use.
type WatchList struct {
	n       notifier
	entries []TrackedFile
	byWatch map[Handle]string
	closed  bool
}

// New opens a notifier session with room for capacity candidates.
func New(capacity int) (*WatchList, error) {
	n, err := newNotifier()
	if err != nil {
		return nil, err
	}

	return newWithNotifier(n, capacity), nil
}

func newWithNotifier(n notifier, capacity int) *WatchList {
	if capacity < 0 {
		capacity = 0
	}

	return &WatchList{
		n:       n,
		entries: make([]TrackedFile, 0, capacity),
		byWatch: make(map[Handle]string, capacity),
	}
}

// Add validates path and registers a watch for it. Candidates are accepted only if
// they exist, are regular files (after following symlinks) and are readable.
func (wl *WatchList) Add(path string) error {
	if wl.closed {
		return ErrClosed
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, info.Mode().Type())
	}

	err = checkReadable(path)
	if err != nil {
		return fmt.Errorf("cannot read: %w", err)
	}

	h, err := wl.n.Add(path)
	if err != nil {
		return fmt.Errorf("cannot watch: %w", err)
	}

	// inotify hands out the same descriptor for a second path to the same inode.
	if prev, ok := wl.byWatch[h]; ok {
		return fmt.Errorf("%w as %q", ErrAlreadyWatched, prev)
	}

	wl.entries = append(wl.entries, TrackedFile{Handle: h, Name: path})
	wl.byWatch[h] = path

	return nil
}

// Register is Add for batch use: a rejected candidate is logged and skipped.
func (wl *WatchList) Register(path string) bool {
	err := wl.Add(path)
	if err != nil {
		log.Warn().Caller().Err(err).Str("path", path).Msg("skipping candidate")
		return false
	}

	log.Debug().Str("path", path).Msg("added watch")
	return true
}

// RegisterAll registers every candidate and returns how many were accepted.
func (wl *WatchList) RegisterAll(paths []string) int {
	var count int

	for _, p := range paths {
		if wl.Register(p) {
			count++
		}
	}

	return count
}

// Resolve maps a fired handle back to the name it was registered with.
func (wl *WatchList) Resolve(h Handle) string {
	if name, ok := wl.byWatch[h]; ok {
		return name
	}

	return NoMatch
}

func (wl *WatchList) Len() int {
	return len(wl.entries)
}

// Files returns the tracked entries in registration order.
func (wl *WatchList) Files() []TrackedFile {
	files := make([]TrackedFile, len(wl.entries))
	copy(files, wl.entries)

	return files
}

// Close removes every watch and closes the session. Removal failures are ignored.
// Calling Close more than once is a no-op.
func (wl *WatchList) Close() error {
	if wl.closed {
		return nil
	}
	wl.closed = true

	for _, f := range wl.entries {
		_ = wl.n.Remove(f.Handle)
	}

	wl.entries = nil
	wl.byWatch = map[Handle]string{}

	return wl.n.Close()
}
