package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/app/views"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/bind"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/response"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/router"
)

// OrderController handles checkout submissions and waybill display.
type OrderController struct {
	orders  *services.OrderService
	catalog *repositories.CatalogRepository
	views   *views.Views
	routes  *router.Router
}

func NewOrderController(
	orders *services.OrderService,
	catalog *repositories.CatalogRepository,
	v *views.Views,
	routes *router.Router,
) *OrderController {
	return &OrderController{orders: orders, catalog: catalog, views: v, routes: routes}
}

// Create accepts the checkout form (urlencoded or JSON). Every kind of bad
// input collapses to the same generic 400 so the endpoint leaks nothing
// about validation internals. Cash on delivery redirects to the waybill;
// link methods get a JSON acknowledgement.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var sub services.CheckoutSubmission

	errs, err := bind.Request(r, &sub)
	if err != nil || len(errs) > 0 {
		if err != nil {
			logger.WithCtx(r.Context()).Warn("checkout bind failed", "error", err)
		}
		response.Error(w, http.StatusBadRequest, "Invalid order data")
		return
	}

	order, err := c.orders.Create(r.Context(), sub)
	if errors.Is(err, services.ErrInvalidOrderData) {
		response.Error(w, http.StatusBadRequest, "Invalid order data")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	if order.IsCOD() {
		url, err := c.routes.URL("waybill.show", map[string]string{"orderId": order.ID})
		if err != nil {
			url = "/waybill/" + order.ID
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	response.OK(w, map[string]interface{}{"ok": true, "orderId": order.ID})
}

// Waybill renders the printable cash-on-delivery slip.
func (c *OrderController) Waybill(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Find(chi.URLParam(r, "orderId"))
	if errors.Is(err, repositories.ErrOrderNotFound) {
		response.HTML(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load order")
		return
	}

	c.views.Render(w, http.StatusOK, "waybill", map[string]interface{}{
		"Order": order,
		"Items": c.resolveItems(order.Items),
	})
}

// waybillItem is an order line with its catalogue title resolved.
type waybillItem struct {
	Title string
	Qty   int
}

func (c *OrderController) resolveItems(items []models.OrderItem) []waybillItem {
	out := make([]waybillItem, 0, len(items))
	for _, it := range items {
		title := it.ID
		if p, ok := c.catalog.Find(it.ID); ok {
			title = p.Title
		}
		out = append(out, waybillItem{Title: title, Qty: it.Qty})
	}
	return out
}
