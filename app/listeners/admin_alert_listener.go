package listeners

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/config"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/event"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/mail"
)

// AdminAlertListener copies every new order to the shop owner's inbox.
// Disabled when ADMIN_NOTIFY_EMAIL is empty.
type AdminAlertListener struct {
	pricing *services.Pricing
}

func NewAdminAlertListener(pricing *services.Pricing) *AdminAlertListener {
	return &AdminAlertListener{pricing: pricing}
}

func (l *AdminAlertListener) Register() {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		l.Handle(order)
	})
}

func (l *AdminAlertListener) Handle(order models.Order) {
	to := config.AdminNotifyEmail()
	if to == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Нова поръчка %s</h3>", template.HTMLEscapeString(order.Number))
	fmt.Fprintf(&b, "<p>%s — %s, %s</p>",
		template.HTMLEscapeString(order.Name),
		template.HTMLEscapeString(order.Phone),
		template.HTMLEscapeString(order.Email))
	fmt.Fprintf(&b, "<p>%s, %s</p>",
		template.HTMLEscapeString(order.Shipping.City),
		template.HTMLEscapeString(order.Shipping.Address))
	fmt.Fprintf(&b, "<p>Метод: %s, Общо: %s</p>",
		template.HTMLEscapeString(order.Method), l.pricing.FormatBGN(order.Total))

	err := mail.To(to).
		From(config.EmailFrom()).
		Subject("Нова поръчка: " + order.Number).
		Body(b.String()).
		Send()
	if err != nil && err != mail.ErrNotConfigured {
		logger.Error("admin alert failed", "order_id", order.ID, "error", err)
	}
}
