// Package controllers maps HTTP requests onto the services. Controllers do
// no business logic themselves; they bind input, call a service and render
// the result.
package controllers

import (
	"net/http"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/app/views"
)

// StoreController serves the public storefront pages.
type StoreController struct {
	catalog  *repositories.CatalogRepository
	payments *models.PaymentSettings
	pricing  *services.Pricing
	views    *views.Views
}

func NewStoreController(
	catalog *repositories.CatalogRepository,
	payments *models.PaymentSettings,
	pricing *services.Pricing,
	v *views.Views,
) *StoreController {
	return &StoreController{catalog: catalog, payments: payments, pricing: pricing, views: v}
}

// Home lists the catalogue.
func (c *StoreController) Home(w http.ResponseWriter, r *http.Request) {
	c.views.Render(w, http.StatusOK, "home", map[string]interface{}{
		"Products": c.catalog.All(),
	})
}

// Checkout renders the order form with quantity inputs per product and the
// enabled payment methods.
func (c *StoreController) Checkout(w http.ResponseWriter, r *http.Request) {
	c.views.Render(w, http.StatusOK, "checkout", map[string]interface{}{
		"Products": c.catalog.All(),
		"Methods":  c.payments.Visible(),
		"Rate":     c.pricing.Rate(),
	})
}
