package state

import (
	"sync"
	"time"

	"handbot/internal/broker"
	"handbot/internal/hand"
	"handbot/internal/md"
)

type Account struct {
	Equity      float64 `json:"equity"`
	BuyingPower float64 `json:"buying_power"`
	PositionQty float64 `json:"position_qty"`
}

// Snapshot is the read-only view served on /status.
type Snapshot struct {
	Symbol        string         `json:"symbol"`
	Price         float64        `json:"price"`
	Reference     float64        `json:"reference"`
	Anchored      bool           `json:"anchored"`
	Hands         []hand.Hand    `json:"hands"`
	LockedHands   int            `json:"locked_hands"`
	LastTickTime  time.Time      `json:"last_tick_time"`
	LastTradeTime time.Time      `json:"last_trade_time"`
	Window        md.WindowStats `json:"window"`
	Account       *Account       `json:"account,omitempty"`
	Fills         []broker.Fill  `json:"fills,omitempty"`
}

// Store is written by the decision loop and read by the status handler.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

func NewStore(symbol string) *Store {
	return &Store{snapshot: Snapshot{Symbol: symbol, Hands: []hand.Hand{}}}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copy := s.snapshot
	copy.Hands = append([]hand.Hand(nil), s.snapshot.Hands...)
	copy.Fills = append([]broker.Fill(nil), s.snapshot.Fills...)
	if s.snapshot.Account != nil {
		account := *s.snapshot.Account
		copy.Account = &account
	}
	return copy
}

func (s *Store) UpdateTick(price float64, at time.Time, window md.WindowStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Price = price
	s.snapshot.LastTickTime = at
	s.snapshot.Window = window
}

func (s *Store) SetReference(reference float64, anchored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Reference = reference
	s.snapshot.Anchored = anchored
}

// SetHands stores hands, which must already be a copy owned by the caller.
func (s *Store) SetHands(hands []hand.Hand, locked int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Hands = hands
	s.snapshot.LockedHands = locked
}

func (s *Store) SetLastTradeTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastTradeTime = t
}

func (s *Store) LastTradeTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.LastTradeTime
}

func (s *Store) SetAccount(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Account = &account
}

// SetFills stores the most recent executor fills, oldest first.
func (s *Store) SetFills(fills []broker.Fill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Fills = fills
}
