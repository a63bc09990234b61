//go:build !linux

package watcher

import (
	"github.com/fsnotify/fsnotify"
)

// Kind reports which class of change fired the watch.
func (e Event) Kind() string {
	if e.Mask&uint32(fsnotify.Write) == uint32(fsnotify.Write) {
		return KindChange
	} else if e.Mask&uint32(fsnotify.Remove) == uint32(fsnotify.Remove) {
		return KindDelete
	} else if e.Mask&uint32(fsnotify.Rename) == uint32(fsnotify.Rename) {
		return KindDelete
	}

	return KindUnknown
}
