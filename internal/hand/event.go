package hand

type EventKind string

const (
	Opened     EventKind = "opened"
	Unlocked   EventKind = "unlocked"
	BatchReady EventKind = "batch_ready"
)

// Event reports a change in the store. Price is set for Unlocked events.
type Event struct {
	Kind      EventKind
	Hand      Hand
	Total     int
	BatchSize int
	Price     float64
}

type EventHandler func(Event)
