package models

import "github.com/Kiko4ko1/magnetsbg-store/pkg/collection"

// Payment method types. Link methods show an informational payment link;
// the offline method is collected in cash at delivery and produces a
// waybill.
const (
	PaymentTypeLink    = "link"
	PaymentTypeOffline = "offline"
)

// MethodCOD is the cash-on-delivery method key.
const MethodCOD = "cod"

// PaymentMethod is one configured way to pay.
type PaymentMethod struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// PaymentSettings is the process-wide method configuration, initialised
// once at startup and read-only thereafter.
type PaymentSettings struct {
	methods []PaymentMethod
}

// NewPaymentSettings fixes the method list. Order is preserved for display.
func NewPaymentSettings(methods ...PaymentMethod) *PaymentSettings {
	return &PaymentSettings{methods: methods}
}

// DefaultPaymentSettings mirrors the store's live configuration: two link
// methods and cash on delivery.
func DefaultPaymentSettings() *PaymentSettings {
	return NewPaymentSettings(
		PaymentMethod{Key: "paypal", Label: "PayPal", Type: PaymentTypeLink, Enabled: true},
		PaymentMethod{Key: "revolut", Label: "Revolut", Type: PaymentTypeLink, Enabled: true},
		PaymentMethod{Key: MethodCOD, Label: "Наложен платеж", Type: PaymentTypeOffline, Enabled: true},
	)
}

// Visible returns the enabled methods, in configuration order.
func (s *PaymentSettings) Visible() []PaymentMethod {
	return collection.Filter(s.methods, func(m PaymentMethod) bool { return m.Enabled })
}

// Find returns an enabled method by key.
func (s *PaymentSettings) Find(key string) (PaymentMethod, bool) {
	return collection.First(s.methods, func(m PaymentMethod) bool {
		return m.Enabled && m.Key == key
	})
}
