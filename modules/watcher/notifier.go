package watcher

// notifier is the operating system change notification session a WatchList owns.
type notifier interface {
	Add(path string) (Handle, error)
	Remove(h Handle) error
	// Next blocks until the session delivers at least one record and returns the first.
	Next() (Event, error)
	Close() error
}
