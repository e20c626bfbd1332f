package listeners_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Kiko4ko1/magnetsbg-store/app/listeners"
	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/mail"
)

// recordingSender captures built messages instead of delivering them.
type recordingSender struct {
	sent []*mail.Message
	err  error
}

func (s *recordingSender) Send(m *mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func sampleOrder() models.Order {
	return models.Order{
		ID:     "id-1",
		Number: "ORD-BG-20260901-120000",
		Email:  "ivan@example.com",
		Items: []models.OrderItem{
			{ID: "p1", Qty: 2, Price: 9.99},
			{ID: "ghost", Qty: 1, Price: 1.00},
		},
		Total:    20.98,
		Method:   "cod",
		Status:   models.StatusAwaitingShipment,
		Shipping: models.Shipping{City: "София", Address: "ул. Витоша 1"},
	}
}

func newReceiptListener() *listeners.ReceiptListener {
	return listeners.NewReceiptListener(
		repositories.NewCatalogRepository(),
		services.NewPricing(),
	)
}

func TestReceiptSent(t *testing.T) {
	sender := &recordingSender{}
	mail.SetSender(sender)
	defer mail.SetSender(nil)

	newReceiptListener().Handle(sampleOrder())

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
}

func TestReceiptFailureDoesNotPanic(t *testing.T) {
	mail.SetSender(&recordingSender{err: errors.New("smtp down")})
	defer mail.SetSender(nil)

	// Must log and count, never propagate.
	newReceiptListener().Handle(sampleOrder())
}

func TestReceiptSkippedWhenUnconfigured(t *testing.T) {
	mail.SetSender(nil)

	newReceiptListener().Handle(sampleOrder())
}

func TestReceiptResolvesTitles(t *testing.T) {
	catalog := repositories.NewCatalogRepository()
	pricing := services.NewPricing()
	l := listeners.NewReceiptListener(catalog, pricing)

	html := l.RenderHTML(sampleOrder())

	if !strings.Contains(html, "Магнит — Рила") {
		t.Error("expected catalogue title in receipt")
	}
	// Unknown product ids fall back to the raw id.
	if !strings.Contains(html, "ghost") {
		t.Error("expected raw id fallback in receipt")
	}
	if !strings.Contains(html, "ORD-BG-20260901-120000") {
		t.Error("expected order number in receipt")
	}
	if !strings.Contains(html, "20.98 лв.") {
		t.Error("expected BGN total in receipt")
	}
	if !strings.Contains(html, "10.73 €") {
		t.Error("expected EUR total in receipt")
	}
}
