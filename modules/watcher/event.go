package watcher

const (
	KindChange  = "CHANGE"
	KindDelete  = "DELETE"
	KindUnknown = "UNKNOWN"
)

// Handle identifies one registered watch inside a notifier session.
type Handle int

// Event is the decoded first record of a read against the notifier.
type Event struct {
	Handle Handle
	Mask   uint32
}
