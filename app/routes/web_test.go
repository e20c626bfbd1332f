package routes_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kiko4ko1/magnetsbg-store/app/controllers"
	"github.com/Kiko4ko1/magnetsbg-store/app/listeners"
	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
	"github.com/Kiko4ko1/magnetsbg-store/app/routes"
	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/app/views"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/event"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/mail"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/router"
)

// newTestServer wires the full stack against a memory order store and a
// no-op mailer.
func newTestServer(t *testing.T) (*httptest.Server, *repositories.MemoryOrderRepository) {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)
	mail.SetSender(nil)

	repo := repositories.NewMemoryOrderRepository()
	catalog := repositories.NewCatalogRepository()
	payments := models.DefaultPaymentSettings()
	pricing := services.NewPricing()

	orderSvc := services.NewOrderService(repo, catalog, payments, nil)
	adminSvc := services.NewAdminService(auth.StaticChecker{
		Email:    "admin@example.com",
		Password: "password",
	})

	v, err := views.New(pricing)
	require.NoError(t, err)

	r := router.New()
	routes.Register(r, routes.Controllers{
		Store: controllers.NewStoreController(catalog, payments, pricing, v),
		Order: controllers.NewOrderController(orderSvc, catalog, v, r),
		Admin: controllers.NewAdminController(adminSvc, orderSvc, v),
	})

	ts := httptest.NewServer(r.Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

// noRedirect stops the client from following 3xx so tests can assert on them.
func noRedirect(c *http.Client) {
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
}

func checkoutForm() url.Values {
	return url.Values{
		"name":    {"Иван Петров"},
		"email":   {"ivan@example.com"},
		"phone":   {"+359888123456"},
		"city":    {"София"},
		"address": {"ул. Витоша 1"},
		"note":    {""},
		"items":   {`[{"id":"p1","qty":2,"price":9.99}]`},
		"total":   {"19.98"},
		"method":  {"cod"},
	}
}

func TestHomeListsCatalogue(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "Магнит — Рила")
	require.Contains(t, string(body), "9.99 лв.")
	require.Contains(t, string(body), "(5.11 €)")
}

func TestCheckoutPageShowsMethods(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/checkout")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "Наложен платеж")
	require.Contains(t, string(body), `value="paypal"`)
	require.Contains(t, string(body), `name="items"`)
}

func TestOrderCODRedirectsToWaybill(t *testing.T) {
	ts, repo := newTestServer(t)

	client := &http.Client{}
	noRedirect(client)

	resp, err := client.PostForm(ts.URL+"/api/orders", checkoutForm())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)

	orders, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, models.StatusAwaitingShipment, orders[0].Status)
	require.Equal(t, "/waybill/"+orders[0].ID, resp.Header.Get("Location"))
}

func TestOrderLinkMethodReturnsJSON(t *testing.T) {
	ts, repo := newTestServer(t)

	form := checkoutForm()
	form.Set("method", "paypal")

	resp, err := http.PostForm(ts.URL+"/api/orders", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK      bool   `json:"ok"`
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.OK)

	order, err := repo.FindByID(body.OrderID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, order.Status)
}

func TestOrderRejectsBadCart(t *testing.T) {
	ts, repo := newTestServer(t)

	form := checkoutForm()
	form.Set("items", "{broken")

	resp, err := http.PostForm(ts.URL+"/api/orders", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "Invalid order data")

	orders, err := repo.ListAll()
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestOrderAcceptsAnyContactShape(t *testing.T) {
	ts, repo := newTestServer(t)

	// Contact fields are presence-checked only; an address-less email and a
	// zero total pass straight through.
	form := checkoutForm()
	form.Set("email", "ivan-no-at-sign")
	form.Set("total", "0")
	form.Set("method", "paypal")

	resp, err := http.PostForm(ts.URL+"/api/orders", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	orders, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "ivan-no-at-sign", orders[0].Email)
	require.Equal(t, 0.0, orders[0].Total)
}

// brokenSender fails every delivery.
type brokenSender struct{}

func (brokenSender) Send(*mail.Message) error { return errors.New("smtp down") }

func TestOrderStoredWhenReceiptFails(t *testing.T) {
	ts, repo := newTestServer(t)

	// Wire the receipt listener against a sender that always errors. The
	// order must still land in the store and the shopper must still get
	// the waybill redirect.
	listeners.NewReceiptListener(
		repositories.NewCatalogRepository(),
		services.NewPricing(),
	).Register()
	mail.SetSender(brokenSender{})
	defer mail.SetSender(nil)

	client := &http.Client{}
	noRedirect(client)

	resp, err := client.PostForm(ts.URL+"/api/orders", checkoutForm())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)

	orders, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "ivan@example.com", orders[0].Email)
}

func TestOrderRejectsMissingFields(t *testing.T) {
	ts, _ := newTestServer(t)

	form := checkoutForm()
	form.Del("email")

	resp, err := http.PostForm(ts.URL+"/api/orders", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderAcceptsJSONBody(t *testing.T) {
	ts, _ := newTestServer(t)

	payload := map[string]interface{}{
		"name":    "Иван Петров",
		"email":   "ivan@example.com",
		"phone":   "+359888123456",
		"city":    "София",
		"address": "ул. Витоша 1",
		"items":   `[{"id":"p2","qty":1,"price":8.49}]`,
		"total":   8.49,
		"method":  "revolut",
	}
	raw, _ := json.Marshal(payload)

	resp, err := http.Post(ts.URL+"/api/orders", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWaybillRequiresAdmin(t *testing.T) {
	ts, repo := newTestServer(t)
	_ = repo.Append(models.Order{ID: "ord-1", Status: models.StatusAwaitingShipment})

	client := &http.Client{}
	noRedirect(client)

	resp, err := client.Get(ts.URL + "/waybill/ord-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestAdminLoginFlow(t *testing.T) {
	ts, repo := newTestServer(t)
	_ = repo.Append(models.Order{
		ID:     "ord-1",
		Number: "ORD-BG-20260901-120000",
		Method: "cod",
		Status: models.StatusAwaitingShipment,
		Total:  19.98,
		Items:  []models.OrderItem{{ID: "p1", Qty: 2, Price: 9.99}},
		Name:   "Иван",
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}
	noRedirect(client)

	// Dashboard is gated before login.
	resp, err := client.Get(ts.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Wrong password re-renders the form.
	resp, err = client.PostForm(ts.URL+"/admin/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Грешни данни")

	// Correct credentials set the session and redirect.
	resp, err = client.PostForm(ts.URL+"/admin/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"password"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))

	// Dashboard now renders the order list.
	resp, err = client.Get(ts.URL + "/admin")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "ORD-BG-20260901-120000")
	require.Contains(t, string(body), "Товарителница")

	// The waybill opens for the logged-in admin.
	resp, err = client.Get(ts.URL + "/waybill/ord-1")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Магнит — Рила")
	require.Contains(t, string(body), "19.98 лв.")

	// Logout drops access again.
	resp, err = client.PostForm(ts.URL+"/admin/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestWaybillMissingOrder(t *testing.T) {
	ts, _ := newTestServer(t)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(ts.URL+"/admin/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"password"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/waybill/no-such-order")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminTokenAPI(t *testing.T) {
	ts, repo := newTestServer(t)
	_ = repo.Append(models.Order{ID: "ord-1", Number: "ORD-BG-20260901-120000"})

	// No token.
	resp, err := http.Get(ts.URL + "/api/admin/orders")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bad credentials.
	raw, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	resp, err = http.Post(ts.URL+"/api/admin/token", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Issue a token.
	raw, _ = json.Marshal(map[string]string{"email": "admin@example.com", "password": "password"})
	resp, err = http.Post(ts.URL+"/api/admin/token", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	var tokenBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenBody))
	resp.Body.Close()
	require.NotEmpty(t, tokenBody.Token)

	// Use it.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenBody.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.True(t, strings.Contains(string(body), "ORD-BG-20260901-120000"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	// Generate one observation so the labelled counters exist.
	warm, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	warm.Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "magnetsbg_http_requests_total")
}
