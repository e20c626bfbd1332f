package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/app/views"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/bind"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/collection"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/response"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/session"
)

// sessionAdminKey marks a session as authenticated back-office access.
const sessionAdminKey = "admin"

// AdminController serves the back office: login, the order list and the
// token-based JSON API.
type AdminController struct {
	admins *services.AdminService
	orders *services.OrderService
	views  *views.Views
}

func NewAdminController(admins *services.AdminService, orders *services.OrderService, v *views.Views) *AdminController {
	return &AdminController{admins: admins, orders: orders, views: v}
}

// LoginForm renders the credentials form.
func (c *AdminController) LoginForm(w http.ResponseWriter, r *http.Request) {
	c.views.Render(w, http.StatusOK, "admin_login", map[string]interface{}{})
}

// Login checks the posted credentials. Success marks the session and
// redirects to the dashboard; failure re-renders the form with a generic
// message.
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if _, err := c.admins.Login(email, password); err != nil {
		logger.WithCtx(r.Context()).Warn("admin login rejected", "email", email)
		c.views.Render(w, http.StatusOK, "admin_login", map[string]interface{}{
			"Error": "Грешни данни",
		})
		return
	}

	sess := session.FromCtx(r)
	sess.Set(sessionAdminKey, true)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not start session")
		return
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout clears the session.
func (c *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save failed", "error", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

// Dashboard lists every order, oldest first.
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	c.views.Render(w, http.StatusOK, "admin_orders", map[string]interface{}{
		"Orders": orders,
	})
}

// tokenRequest is the JSON body of the token endpoint.
type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token exchanges admin credentials for a bearer token used by the JSON API.
func (c *AdminController) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest

	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	email, err := c.admins.Login(req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Unauthorized(w)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not authenticate")
		return
	}

	token, err := auth.GenerateToken(email)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token generation failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	response.OK(w, map[string]string{"token": token})
}

// orderResource is the API shape of an order: the full record minus the
// shipping note, which stays between the shopper and the courier slip.
type orderResource struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	City      string  `json:"city"`
	Total     float64 `json:"total"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// APIOrders returns all orders as JSON for the token-authenticated API.
func (c *AdminController) APIOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}

	out := collection.Map(orders, func(o models.Order) orderResource {
		return orderResource{
			ID:        o.ID,
			Number:    o.Number,
			Name:      o.Name,
			Email:     o.Email,
			Phone:     o.Phone,
			City:      o.Shipping.City,
			Total:     o.Total,
			Method:    o.Method,
			Status:    o.Status,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		}
	})
	response.OK(w, map[string]interface{}{"orders": out})
}
