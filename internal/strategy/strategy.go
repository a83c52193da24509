package strategy

type Action string

const (
	Hold Action = "HOLD"
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Signal is a step decision emitted by the Pointer when the price crosses a
// trigger distance from the reference.
type Signal int

const (
	BuyStep Signal = iota + 1
	SellStep
)

func (s Signal) String() string {
	switch s {
	case BuyStep:
		return "BUY_STEP"
	case SellStep:
		return "SELL_STEP"
	default:
		return "NONE"
	}
}

func (s Signal) Action() Action {
	switch s {
	case BuyStep:
		return Buy
	case SellStep:
		return Sell
	default:
		return Hold
	}
}
