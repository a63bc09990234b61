//go:build linux

package watcher

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"golang.org/x/sys/unix"
)

const (
	InitFlags = unix.IN_CLOEXEC
	// MarkEventFlags is the set of changes that fire a watch.
	MarkEventFlags = unix.IN_MODIFY |
		unix.IN_CLOSE_WRITE |
		unix.IN_DELETE_SELF |
		unix.IN_MOVE_SELF

	// EventBufferSize bounds a single read, not the number of watches.
	EventBufferSize = 4096
	maxNameLen      = 255
)

// A read must fit one header and the longest name the kernel may append to it.
var _ = [EventBufferSize - (unix.SizeofInotifyEvent + maxNameLen + 1)]struct{}{}

type inotifyNotifier struct {
	fd int
}

func newNotifier() (notifier, error) {
	fd, err := unix.InotifyInit1(InitFlags)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inotify: %w", err)
	}

	return &inotifyNotifier{fd: fd}, nil
}

func (n *inotifyNotifier) Add(path string) (Handle, error) {
	if n.fd < 0 {
		return 0, ErrClosed
	}

	wd, err := unix.InotifyAddWatch(n.fd, path, MarkEventFlags)
	if err != nil {
		return 0, fmt.Errorf("failed to add inotify watch: %w", err)
	}

	return Handle(wd), nil
}

func (n *inotifyNotifier) Remove(h Handle) error {
	if n.fd < 0 {
		return ErrClosed
	}

	_, err := unix.InotifyRmWatch(n.fd, uint32(h))
	return err
}

func (n *inotifyNotifier) Next() (Event, error) {
	if n.fd < 0 {
		return Event{}, ErrClosed
	}

	buf := make([]byte, EventBufferSize)

	var (
		size int
		err  error
	)
	for {
		size, err = unix.Read(n.fd, buf)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		return Event{}, fmt.Errorf("failed to read event: %w", err)
	}

	return decodeFirstEvent(buf[:size])
}

func (n *inotifyNotifier) Close() error {
	if n.fd < 0 {
		return nil
	}

	err := unix.Close(n.fd)
	n.fd = -1

	return err
}

// decodeFirstEvent only looks at the leading record. Anything queued behind it in the
// same read is dropped, a single fire is reported.
func decodeFirstEvent(buf []byte) (Event, error) {
	if len(buf) < unix.SizeofInotifyEvent {
		return Event{}, ErrShortRead
	}

	var raw unix.InotifyEvent

	err := binary.Read(bytes.NewReader(buf), binary.NativeEndian, &raw)
	if err != nil {
		return Event{}, fmt.Errorf("failed to read event header: %w", err)
	}

	end := unix.SizeofInotifyEvent + int(raw.Len)
	if end > len(buf) {
		return Event{}, fmt.Errorf("%w: record needs %d bytes, read returned %d", ErrEventTooLarge, end, len(buf))
	}

	return Event{
		Handle: Handle(raw.Wd),
		Mask:   raw.Mask,
	}, nil
}
