// Package pricefeed keeps the latest streamed prices in memory.
package pricefeed

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type entry struct {
	price     decimal.Decimal
	updatedAt time.Time
}

// MemoryPriceStore holds the last price per "exchange|token".
type MemoryPriceStore struct {
	mu     sync.RWMutex
	maxAge time.Duration
	data   map[string]entry
	now    func() time.Time
}

// NewPriceStore creates a store. Prices older than maxAge are treated as
// missing; maxAge <= 0 keeps them forever.
func NewPriceStore(maxAge time.Duration) *MemoryPriceStore {
	return &MemoryPriceStore{
		maxAge: maxAge,
		data:   make(map[string]entry),
		now:    time.Now,
	}
}

func key(exchange, token string) string {
	return exchange + "|" + token
}

func (s *MemoryPriceStore) Set(exchange, token string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(exchange, token)] = entry{price: price, updatedAt: s.now()}
}

// LatestPrice implements strategy.PriceSource.
func (s *MemoryPriceStore) LatestPrice(exchange, token string) (decimal.Decimal, bool) {
	s.mu.RLock()
	e, ok := s.data[key(exchange, token)]
	s.mu.RUnlock()

	if !ok {
		return decimal.Zero, false
	}
	if s.maxAge > 0 && s.now().Sub(e.updatedAt) > s.maxAge {
		return decimal.Zero, false
	}
	return e.price, true
}

// Count returns the number of instruments with a stored price.
func (s *MemoryPriceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
