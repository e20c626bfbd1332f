// Package listeners holds the order.created subscribers. Both listeners are
// best-effort: a failed or unconfigured email never fails the order.
package listeners

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/config"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/event"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/mail"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/metrics"
)

// ReceiptListener emails the shopper a receipt for each new order.
type ReceiptListener struct {
	catalog *repositories.CatalogRepository
	pricing *services.Pricing
}

func NewReceiptListener(catalog *repositories.CatalogRepository, pricing *services.Pricing) *ReceiptListener {
	return &ReceiptListener{catalog: catalog, pricing: pricing}
}

// Register subscribes the listener to order.created.
func (l *ReceiptListener) Register() {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		l.Handle(order)
	})
}

// Handle sends the receipt. Outcomes are counted and logged only.
func (l *ReceiptListener) Handle(order models.Order) {
	err := mail.To(order.Email).
		From(config.EmailFrom()).
		Subject("Разписка: " + order.Number).
		Body(l.RenderHTML(order)).
		Send()

	switch {
	case err == nil:
		metrics.ReceiptEmails.WithLabelValues("sent").Inc()
		logger.Info("receipt sent", "order_id", order.ID, "to", order.Email)
	case err == mail.ErrNotConfigured:
		metrics.ReceiptEmails.WithLabelValues("skipped").Inc()
		logger.Debug("receipt skipped, mail not configured", "order_id", order.ID)
	default:
		metrics.ReceiptEmails.WithLabelValues("failed").Inc()
		logger.Error("receipt send failed", "order_id", order.ID, "error", err)
	}
}

// itemTitle resolves a catalogue title, falling back to the raw id for
// products that no longer exist.
func (l *ReceiptListener) itemTitle(id string) string {
	if p, ok := l.catalog.Find(id); ok {
		return p.Title
	}
	return id
}

// RenderHTML builds the receipt body.
func (l *ReceiptListener) RenderHTML(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Благодарим за поръчката!</h2>")
	fmt.Fprintf(&b, "<p>Номер на поръчка: <strong>%s</strong></p>", template.HTMLEscapeString(order.Number))
	fmt.Fprintf(&b, "<p>Метод: %s</p>", template.HTMLEscapeString(order.Method))
	b.WriteString("<ul>")
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<li>%s × %d — %s %s</li>",
			template.HTMLEscapeString(l.itemTitle(it.ID)), it.Qty,
			l.pricing.FormatBGN(it.Price*float64(it.Qty)),
			l.pricing.FormatEUR(it.Price*float64(it.Qty)))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Общо: <strong>%s %s</strong></p>",
		l.pricing.FormatBGN(order.Total), l.pricing.FormatEUR(order.Total))
	fmt.Fprintf(&b, "<p>Доставка: %s, %s</p>",
		template.HTMLEscapeString(order.Shipping.City),
		template.HTMLEscapeString(order.Shipping.Address))
	return b.String()
}
