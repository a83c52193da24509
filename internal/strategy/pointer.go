package strategy

// Pointer holds a floating reference price. The reference is anchored by the
// first observation and walks to the current price every time a signal fires.
type Pointer struct {
	BuyTriggerUSD  float64
	SellTriggerUSD float64

	reference float64
	anchored  bool
}

func NewPointer(buyTriggerUSD, sellTriggerUSD float64) *Pointer {
	return &Pointer{
		BuyTriggerUSD:  buyTriggerUSD,
		SellTriggerUSD: sellTriggerUSD,
	}
}

// Update evaluates one price observation and returns at most one signal.
// Movements are absolute USD distances, not percentages.
func (p *Pointer) Update(price float64) (Signal, bool) {
	if !p.anchored {
		p.reference = price
		p.anchored = true
		return 0, false
	}

	diff := price - p.reference

	if diff <= -p.BuyTriggerUSD {
		p.reference = price
		return BuyStep, true
	}
	if diff >= p.SellTriggerUSD {
		p.reference = price
		return SellStep, true
	}
	return 0, false
}

// Reference returns the current anchor; ok is false before the first Update.
func (p *Pointer) Reference() (float64, bool) {
	return p.reference, p.anchored
}
