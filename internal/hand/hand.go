package hand

const (
	DefaultBatchSize = 10
	freeHandSlots    = 2
)

// Hand is one opened buy tracked with its own entry price, size and lock.
type Hand struct {
	ID     int     `json:"id"`
	Price  float64 `json:"price"`
	Size   float64 `json:"size"`
	Locked bool    `json:"locked"`
}

// Store owns the ordered list of hands. Insertion order is open order.
// A Store is not safe for concurrent use; one decision loop owns it.
type Store struct {
	hands     []Hand
	freeHands int
	batchSize int
	onEvent   EventHandler
}

func NewStore(batchSize int, onEvent EventHandler) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		batchSize: batchSize,
		onEvent:   onEvent,
	}
}

// Open appends a hand. The first two hands ever opened are free; every later
// hand is created locked regardless of price or size.
func (s *Store) Open(price, size float64) Hand {
	h := Hand{
		ID:     len(s.hands) + 1,
		Price:  price,
		Size:   size,
		Locked: s.shouldLock(),
	}
	s.hands = append(s.hands, h)

	s.emit(Event{Kind: Opened, Hand: h, Total: len(s.hands), BatchSize: s.batchSize})
	if len(s.hands)%s.batchSize == 0 {
		s.emit(Event{Kind: BatchReady, Hand: h, Total: len(s.hands), BatchSize: s.batchSize})
	}
	return h
}

func (s *Store) shouldLock() bool {
	if s.freeHands < freeHandSlots {
		s.freeHands++
		return false
	}
	return true
}

// UnlockEligible applies LockRules.UnlockBatch to the owned hands and reports
// each newly unlocked hand as an event.
func (s *Store) UnlockEligible(price float64) []Hand {
	unlocked := LockRules{}.UnlockBatch(s.hands, price)
	for _, h := range unlocked {
		s.emit(Event{Kind: Unlocked, Hand: h, Total: len(s.hands), BatchSize: s.batchSize, Price: price})
	}
	return unlocked
}

func (s *Store) TotalLocked() int {
	count := 0
	for _, h := range s.hands {
		if h.Locked {
			count++
		}
	}
	return count
}

func (s *Store) Len() int {
	return len(s.hands)
}

func (s *Store) BatchSize() int {
	return s.batchSize
}

// Hands returns a copy of the hands in open order.
func (s *Store) Hands() []Hand {
	out := make([]Hand, len(s.hands))
	copy(out, s.hands)
	return out
}

func (s *Store) emit(ev Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}
