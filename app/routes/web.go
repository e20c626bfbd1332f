// Package routes declares the HTTP surface. Route names are used for URL
// reversal, most notably the waybill redirect after a cash-on-delivery
// checkout.
package routes

import (
	"time"

	"github.com/Kiko4ko1/magnetsbg-store/app/controllers"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/metrics"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/middleware"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/reqid"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/router"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/session"
)

// Controllers groups everything Register needs.
type Controllers struct {
	Store *controllers.StoreController
	Order *controllers.OrderController
	Admin *controllers.AdminController
}

// Register mounts all routes and the shared middleware stack onto r.
func Register(r *router.Router, c Controllers) {
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	r.Get("/", "home", c.Store.Home)
	r.Get("/checkout", "checkout", c.Store.Checkout)

	r.Post("/api/orders", "orders.create", c.Order.Create)
	r.Get("/waybill/{orderId}", "waybill.show", c.Order.Waybill, controllers.RequireAdmin)

	r.Get("/admin/login", "admin.login.form", c.Admin.LoginForm)
	r.Post("/admin/login", "admin.login", c.Admin.Login)
	r.Post("/admin/logout", "admin.logout", c.Admin.Logout, controllers.RequireAdmin)
	r.Get("/admin", "admin.dashboard", c.Admin.Dashboard, controllers.RequireAdmin)

	r.Post("/api/admin/token", "admin.token", c.Admin.Token)
	r.Get("/api/admin/orders", "admin.api.orders", c.Admin.APIOrders, controllers.RequireAPIToken)

	r.Get("/metrics", "metrics", metrics.Handler())
}
