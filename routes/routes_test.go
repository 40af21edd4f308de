package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/storelane/ecommerce-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistory{},
	))

	r := gin.New()
	SetupRoutes(r, db)
	return &testAPI{t: t, router: r}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(email, password, role string) string {
	a.t.Helper()
	body := gin.H{"email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	w := a.do(http.MethodPost, "/auth/register", "", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (a *testAPI) createProduct(adminToken, name string, price float64, stock int) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, "/products", adminToken, gin.H{
		"name": name, "price": price, "stock": stock,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &product))
	return product.ID
}

func TestCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.register("admin@example.com", "password123", "ADMIN")
	customer := api.register("user@example.com", "password123", "")

	productID := api.createProduct(admin, "Gaming Mouse", 10.99, 5)

	// Add 2 to an empty cart.
	w := api.do(http.MethodPost, "/cart", customer, gin.H{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	require.Equal(t, 2, item.Quantity)

	// Cart view shows derived subtotal and total.
	w = api.do(http.MethodGet, "/cart", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Items []struct {
			Subtotal float64 `json:"subtotal"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.InDelta(t, 21.98, view.Total, 1e-9)

	// Place the order.
	w = api.do(http.MethodPost, "/orders", customer, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.InDelta(t, 21.98, order.Total, 1e-9)

	// Stock is down to 3.
	w = api.do(http.MethodGet, fmt.Sprintf("/products/%d", productID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.Equal(t, 3, product.Stock)

	// Cart is empty again.
	w = api.do(http.MethodGet, "/cart", customer, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 0)

	// Placing again on the empty cart is a client error.
	w = api.do(http.MethodPost, "/orders", customer, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Admin ships the order; history gains one row.
	w = api.do(http.MethodPatch, "/orders/admin/"+order.ID+"/status", admin, gin.H{"status": "SHIPPED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var shipped models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shipped))
	require.Equal(t, models.OrderStatusShipped, shipped.Status)

	// A second identical call is rejected as a no-op.
	w = api.do(http.MethodPatch, "/orders/admin/"+order.ID+"/status", admin, gin.H{"status": "SHIPPED"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/orders/admin/"+order.ID+"/history", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.OrderHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	require.Equal(t, models.OrderStatusPlaced, history[0].FromStatus)
	require.Equal(t, models.OrderStatusShipped, history[0].ToStatus)
}

func TestCartRejectsOverstockedAdd(t *testing.T) {
	api := newTestAPI(t)
	admin := api.register("admin@example.com", "password123", "ADMIN")
	customer := api.register("user@example.com", "password123", "")

	productID := api.createProduct(admin, "Monitor", 199.99, 5)

	w := api.do(http.MethodPost, "/cart", customer, gin.H{"productId": productID, "quantity": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Monitor")

	// No cart item was created.
	w = api.do(http.MethodGet, "/cart", customer, nil)
	var view struct {
		Items []any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 0)
}

func TestAdminSurfaceIsRoleGated(t *testing.T) {
	api := newTestAPI(t)
	customer := api.register("user@example.com", "password123", "")

	for _, probe := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/orders/admin"},
		{http.MethodPatch, "/orders/admin/some-id/status"},
		{http.MethodGet, "/orders/admin/some-id/history"},
		{http.MethodPost, "/products"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/admin/dashboard"},
	} {
		w := api.do(probe.method, probe.path, customer, gin.H{})
		require.Equal(t, http.StatusForbidden, w.Code, "%s %s", probe.method, probe.path)
	}

	// And unauthenticated requests never reach the handlers at all.
	w := api.do(http.MethodGet, "/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = api.do(http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrderListing(t *testing.T) {
	api := newTestAPI(t)
	admin := api.register("admin@example.com", "password123", "ADMIN")
	customer := api.register("buyer@gmail.com", "password123", "")

	productID := api.createProduct(admin, "Widget", 10.00, 100)
	for i := 0; i < 3; i++ {
		w := api.do(http.MethodPost, "/cart", customer, gin.H{"productId": productID, "quantity": i + 1})
		require.Equal(t, http.StatusCreated, w.Code)
		w = api.do(http.MethodPost, "/orders", customer, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(http.MethodGet, "/orders/admin?page=1&limit=2&email=GMAIL", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Data       []models.Order `json:"data"`
		Total      int64          `json:"total"`
		TotalPages int            `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 2)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)

	// Malformed filter values are client errors.
	w = api.do(http.MethodGet, "/orders/admin?minTotal=abc", admin, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Self-service listing only shows the caller's orders.
	w = api.do(http.MethodGet, "/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 3)
}
