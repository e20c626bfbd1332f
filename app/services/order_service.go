package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/event"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/metrics"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/workerpool"
)

// EventOrderCreated is fired after an order is appended to the store.
const EventOrderCreated = "order.created"

// ErrInvalidOrderData is returned for any submission that fails validation,
// carries an unusable cart, or names an unknown payment method. Callers
// surface it as a single generic client error.
var ErrInvalidOrderData = errors.New("invalid order data")

// CheckoutSubmission is the raw checkout payload. Items arrives as a JSON
// string because the form posts the serialized cart in a hidden field.
// Contact fields are checked for presence only; email and phone are stored
// as typed, and the total is trusted as submitted.
type CheckoutSubmission struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	City    string  `json:"city" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Note    string  `json:"note" validate:"nullable"`
	Items   string  `json:"items" validate:"required,json"`
	Total   float64 `json:"total"`
	Method  string  `json:"method" validate:"required"`
}

// OrderService owns the order lifecycle: validate, assign identifiers,
// persist, then notify.
type OrderService struct {
	orders   repositories.OrderRepository
	catalog  *repositories.CatalogRepository
	payments *models.PaymentSettings
	pool     *workerpool.Pool

	numMu    sync.Mutex
	lastBase string
	lastSeq  int

	now func() time.Time
}

func NewOrderService(
	orders repositories.OrderRepository,
	catalog *repositories.CatalogRepository,
	payments *models.PaymentSettings,
	pool *workerpool.Pool,
) *OrderService {
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		payments: payments,
		pool:     pool,
		now:      time.Now,
	}
}

// Create turns a checkout submission into a stored order.
//
// The submitted unit prices and total are kept as-is; a mismatch against the
// catalogue is logged but never corrected. Notification listeners run after
// the order is stored: synchronously for cash on delivery so the receipt is
// sent before the shopper is redirected to the waybill, asynchronously for
// everything else.
func (s *OrderService) Create(ctx context.Context, sub CheckoutSubmission) (models.Order, error) {
	log := logger.WithCtx(ctx)

	items, err := s.parseItems(sub.Items)
	if err != nil {
		log.Warn("checkout rejected", "reason", err)
		return models.Order{}, ErrInvalidOrderData
	}

	method, ok := s.payments.Find(sub.Method)
	if !ok {
		log.Warn("checkout rejected", "reason", "unknown payment method", "payment_method", sub.Method)
		return models.Order{}, ErrInvalidOrderData
	}

	s.checkPrices(log, items, sub.Total)

	created := s.now()
	order := models.Order{
		ID:     uuid.NewString(),
		Number: s.nextNumber(created),
		Name:   sub.Name,
		Email:  sub.Email,
		Phone:  sub.Phone,
		Shipping: models.Shipping{
			City:    sub.City,
			Address: sub.Address,
			Note:    sub.Note,
		},
		Items:     items,
		Total:     sub.Total,
		Method:    method.Key,
		Status:    statusFor(method),
		CreatedAt: created,
	}

	if err := s.orders.Append(order); err != nil {
		log.Error("order append failed", "order_id", order.ID, "error", err)
		return models.Order{}, fmt.Errorf("store order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(order.Method).Inc()
	log.Info("order created",
		"order_id", order.ID,
		"order_number", order.Number,
		"payment_method", order.Method,
		"total", order.Total,
	)

	s.notify(log, order)
	return order, nil
}

// Find returns a stored order by id.
func (s *OrderService) Find(id string) (models.Order, error) {
	return s.orders.FindByID(id)
}

// List returns all orders in creation order.
func (s *OrderService) List() ([]models.Order, error) {
	return s.orders.ListAll()
}

func (s *OrderService) parseItems(raw string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("malformed cart: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("empty cart")
	}
	for _, it := range items {
		if it.ID == "" || it.Qty <= 0 {
			return nil, errors.New("bad cart line")
		}
	}
	return items, nil
}

// checkPrices compares the submitted amounts against the catalogue. Only
// logs; the stored order always keeps what the client sent.
func (s *OrderService) checkPrices(log *slog.Logger, items []models.OrderItem, total float64) {
	var expected float64
	known := true
	for _, it := range items {
		p, ok := s.catalog.Find(it.ID)
		if !ok {
			known = false
			continue
		}
		expected += p.Price * float64(it.Qty)
		if math.Abs(p.Price-it.Price) > 0.004 {
			log.Warn("submitted price differs from catalogue",
				"product_id", it.ID, "submitted", it.Price, "catalogue", p.Price)
		}
	}
	if known && math.Abs(expected-total) > 0.004 {
		log.Warn("submitted total differs from catalogue",
			"submitted", total, "catalogue", expected)
	}
}

// nextNumber builds a human-readable order number from the creation time.
// Two orders in the same second get "-2", "-3" suffixes.
func (s *OrderService) nextNumber(t time.Time) string {
	base := "ORD-BG-" + t.Format("20060102-150405")

	s.numMu.Lock()
	defer s.numMu.Unlock()

	if base != s.lastBase {
		s.lastBase = base
		s.lastSeq = 1
		return base
	}
	s.lastSeq++
	return fmt.Sprintf("%s-%d", base, s.lastSeq)
}

func statusFor(m models.PaymentMethod) string {
	if m.Type == models.PaymentTypeOffline {
		return models.StatusAwaitingShipment
	}
	return models.StatusPending
}

// notify dispatches the created event. Cash on delivery waits for listeners
// so the receipt lands before the waybill redirect; link methods go through
// the pool and never delay the response.
func (s *OrderService) notify(log *slog.Logger, order models.Order) {
	if order.IsCOD() || s.pool == nil {
		event.Fire(EventOrderCreated, order)
		return
	}

	if err := s.pool.Submit(func() {
		event.Fire(EventOrderCreated, order)
	}); err != nil {
		log.Warn("notification dropped", "order_id", order.ID, "error", err)
		metrics.ReceiptEmails.WithLabelValues("skipped").Inc()
	}
}
