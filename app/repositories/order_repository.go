package repositories

import (
	"errors"
	"sync"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
)

// ErrOrderNotFound is returned by FindByID for an id that was never created.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is the append-only order store. Orders are never deleted
// or edited.
type OrderRepository interface {
	Append(order models.Order) error
	FindByID(id string) (models.Order, error)
	ListAll() ([]models.Order, error)
}

// MemoryOrderRepository keeps orders in an in-process slice, oldest first.
// State is lost on restart. The RWMutex makes it safe under Go's
// concurrent request handling.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

// Append adds the order at the end. Identifiers are trusted to be unique
// because the lifecycle generates them.
func (r *MemoryOrderRepository) Append(order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}

// FindByID scans for the order. Linear scan is fine at this scale; this is
// not a storage engine.
func (r *MemoryOrderRepository) FindByID(id string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// ListAll returns orders in insertion order.
func (r *MemoryOrderRepository) ListAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}
