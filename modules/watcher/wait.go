package watcher

import (
	"github.com/rs/zerolog/log"
)

// Next blocks until the first qualifying event arrives. There is no timeout.
func (wl *WatchList) Next() (Event, error) {
	if wl.closed {
		return Event{}, ErrClosed
	}

	return wl.n.Next()
}

// WaitForFirstEvent blocks for one event and returns the name of the file that fired.
// A failed read yields an empty name.
func (wl *WatchList) WaitForFirstEvent() string {
	event, err := wl.Next()
	if err != nil {
		log.Error().Caller().Err(err).Msg("failed to read event")
		return ""
	}

	name := wl.Resolve(event.Handle)
	log.Debug().
		Str("path", name).
		Str("kind", event.Kind()).
		Uint32("mask", event.Mask).
		Msg("watch fired")

	return name
}
