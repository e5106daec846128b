package inventory

import (
	"sync"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

// Book tracks the treasury balance and module holdings. All methods are
// safe for concurrent use; Snapshot returns copies so readers never observe
// a partially applied update.
type Book struct {
	mu       sync.RWMutex
	treasury decimal.Decimal
	holdings map[models.RAMType]int
}

func NewBook(treasury decimal.Decimal) *Book {
	return &Book{
		treasury: treasury,
		holdings: make(map[models.RAMType]int),
	}
}

func (b *Book) Snapshot() (decimal.Decimal, []models.Holding) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	holdings := make([]models.Holding, 0, len(b.holdings))
	for t, n := range b.holdings {
		holdings = append(holdings, models.Holding{Type: t, Units: n})
	}
	return b.treasury, holdings
}

func (b *Book) Treasury() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.treasury
}

// Debit reduces the treasury by amount and returns false if the balance
// would go negative, leaving it unchanged.
func (b *Book) Debit(amount decimal.Decimal) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if amount.GreaterThan(b.treasury) {
		return false
	}
	b.treasury = b.treasury.Sub(amount)
	return true
}

func (b *Book) Credit(amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.treasury = b.treasury.Add(amount)
}

// AddUnits records acquired modules. Negative deltas release units; the
// count never goes below zero.
func (b *Book) AddUnits(t models.RAMType, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.holdings[t] + delta
	if n <= 0 {
		delete(b.holdings, t)
		return
	}
	b.holdings[t] = n
}
