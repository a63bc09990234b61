//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Kind reports which class of change fired the watch.
func (e Event) Kind() string {
	switch {
	case e.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0:
		return KindChange
	case e.Mask&(unix.IN_DELETE_SELF|unix.IN_MOVE_SELF) != 0:
		return KindDelete
	}

	return KindUnknown
}
