package hand

const (
	// LockBandUSD is the band used by IsLocked.
	LockBandUSD = 0.2
	// UnlockRiseUSD is the rise from entry that releases a locked hand.
	UnlockRiseUSD = 0.5
)

// LockRules is stateless; it only flips Locked on hands it is handed.
//
// IsLocked and UnlockBatch use different bands (LockBandUSD vs UnlockRiseUSD).
// Which one is authoritative is an open question for the strategy owner; the
// driver only calls UnlockBatch.
type LockRules struct{}

func (LockRules) IsLocked(h Hand, price float64) bool {
	return h.Locked && price < h.Price+LockBandUSD
}

// UnlockBatch unlocks every locked hand whose entry is at least UnlockRiseUSD
// below price and returns those hands in encounter order.
func (LockRules) UnlockBatch(hands []Hand, price float64) []Hand {
	var unlocked []Hand
	for i := range hands {
		if hands[i].Locked && price >= hands[i].Price+UnlockRiseUSD {
			hands[i].Locked = false
			unlocked = append(unlocked, hands[i])
		}
	}
	return unlocked
}
