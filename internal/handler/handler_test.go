package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"connectfarma-backend/internal/cart"
	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
	"connectfarma-backend/internal/store"
)

const (
	adminEmail    = "admin@connectfarma.test"
	adminPassword = "admin-pass"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	deps := service.Deps{
		Store: store.NewMemoryStore(),
		Carts: cart.NewRedisStore(client, cart.RedisStoreOptions{TTL: time.Hour}),
	}
	var (
		svc Services
		err error
	)
	svc.Accounts, err = service.NewAccountService(deps, bcrypt.MinCost)
	require.NoError(t, err)
	svc.Catalog, err = service.NewCatalogService(deps)
	require.NoError(t, err)
	svc.Orders, err = service.NewOrderService(deps, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	svc.Delivery, err = service.NewDeliveryService(deps)
	require.NoError(t, err)
	svc.Farmers, err = service.NewFarmerService(deps, 5)
	require.NoError(t, err)
	svc.Payouts, err = service.NewPayoutService(deps, domain.DefaultCommissionRate)
	require.NoError(t, err)
	require.NoError(t, svc.Accounts.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	r := gin.New()
	r.Use(RequestID())
	New(svc, NewTokens("test-secret", time.Hour), nil).Routes(r)
	return r
}

type response struct {
	*httptest.ResponseRecorder
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &out), r.Body.String())
	return out
}

func (r response) list(t *testing.T) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &out), r.Body.String())
	return out
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return response{w}
}

func login(t *testing.T, r http.Handler, path string, body gin.H) string {
	t.Helper()
	resp := do(t, r, http.MethodPost, path, "", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	token, _ := resp.json(t)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

type actors struct {
	consumer, farmer, admin string
	farmerID                string
}

func registerActors(t *testing.T, r http.Handler) actors {
	t.Helper()
	resp := do(t, r, http.MethodPost, "/api/consumer/register", "", gin.H{
		"name": "Asha", "email": "asha@example.com", "contactNo": "9876543210",
		"password": "pw-asha", "confirmPassword": "pw-asha",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = do(t, r, http.MethodPost, "/api/farmer/register", "", gin.H{
		"kisanId": "K-100", "name": "Ravi", "email": "ravi@example.com", "contactNo": "9000000000",
		"pincode": "422001", "villageName": "Ozar", "password": "pw-ravi", "confirmPassword": "pw-ravi",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	farmerID := resp.json(t)["user"].(map[string]any)["id"].(string)

	return actors{
		consumer: login(t, r, "/api/consumer/login", gin.H{"email": "asha@example.com", "password": "pw-asha"}),
		farmer:   login(t, r, "/api/farmer/login", gin.H{"kisanId": "K-100", "password": "pw-ravi"}),
		admin:    login(t, r, "/api/admin/login", gin.H{"email": adminEmail, "password": adminPassword}),
		farmerID: farmerID,
	}
}

func addProduct(t *testing.T, r http.Handler, token, name, price string, stock int) string {
	t.Helper()
	resp := do(t, r, http.MethodPost, "/api/farmer/products", token, gin.H{
		"products": []gin.H{{"name": name, "price": price, "stock": stock}},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	added := resp.json(t)["added"].([]any)
	require.Len(t, added, 1)
	return added[0].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	resp := do(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "healthy", resp.json(t)["status"])
	assert.NotEmpty(t, resp.Header().Get(requestIDHeader))
}

func TestCheckoutAndPayoutOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)
	productID := addProduct(t, r, a.farmer, "Tomato", "100.00", 10)

	resp := do(t, r, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	products := resp.list(t)
	require.Len(t, products, 1)
	assert.Equal(t, "100.00", products[0].(map[string]any)["price"])

	resp = do(t, r, http.MethodPost, "/api/cart", a.consumer, gin.H{"productId": productID, "quantity": 3})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.EqualValues(t, 3, resp.json(t)["totalItems"])

	resp = do(t, r, http.MethodGet, "/api/cart", a.consumer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "300.00", resp.json(t)["subtotal"])

	resp = do(t, r, http.MethodPost, "/api/cart/checkout", a.consumer, gin.H{
		"fullName": "Asha Patil", "mobile": "9876543210", "address": "12 Market Road", "pincode": "422001",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	order := resp.json(t)["order"].(map[string]any)
	assert.Equal(t, "300.00", order["totalAmount"])
	assert.Equal(t, domain.DefaultPaymentMethod, order["paymentMethod"])
	orderID := order["id"].(string)

	resp = do(t, r, http.MethodGet, "/api/orders/"+orderID, a.consumer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	conf := resp.json(t)
	assert.Equal(t, "30.00", conf["deliveryFee"])
	assert.Equal(t, "330.00", conf["grandTotal"])

	resp = do(t, r, http.MethodPost, "/api/farmer/orders/"+orderID+"/deliver", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = do(t, r, http.MethodGet, "/api/farmer/payments", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	st := resp.json(t)
	assert.Equal(t, "255.00", st["total"])
	rows := st["items"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "300.00", row["gross"])
	assert.Equal(t, "45.00", row["commission"])
	assert.Equal(t, "255.00", row["net"])

	resp = do(t, r, http.MethodPost, "/api/farmer/payout/request", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = do(t, r, http.MethodGet, "/api/admin/farmers?payout_status=requested", a.admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.list(t), 1)

	resp = do(t, r, http.MethodPost, "/api/admin/farmers/"+a.farmerID+"/approve-payout", a.admin, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = do(t, r, http.MethodPost, "/api/farmer/payout/collect", a.farmer, gin.H{
		"bankName": "State Bank", "accountHolder": "Ravi", "accountNumber": "001234567890", "ifscCode": "SBIN0000123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	receipt := resp.json(t)["receipt"].(map[string]any)
	assert.Equal(t, "255.00", receipt["total"])
	assert.Equal(t, "XXXXXXXX7890", receipt["accountNumber"])

	resp = do(t, r, http.MethodGet, "/api/farmer/payouts", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.list(t), 1)
}

func TestCheckoutInsufficientStockOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)
	productID := addProduct(t, r, a.farmer, "Mango", "50.00", 2)

	resp := do(t, r, http.MethodPost, "/api/cart", a.consumer, gin.H{"productId": productID, "quantity": 5})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/cart/checkout", a.consumer, gin.H{
		"fullName": "Asha Patil", "mobile": "9876543210", "address": "12 Market Road", "pincode": "422001",
	})
	require.Equal(t, http.StatusConflict, resp.Code)
	body := resp.json(t)
	details := body["details"].([]any)
	require.Len(t, details, 1)
	shortage := details[0].(map[string]any)
	assert.Equal(t, "Mango", shortage["productName"])
	assert.EqualValues(t, 5, shortage["requested"])
	assert.EqualValues(t, 2, shortage["available"])

	resp = do(t, r, http.MethodGet, "/api/orders", a.consumer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.list(t))
}

func TestCheckoutEmptyCartOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)

	resp := do(t, r, http.MethodPost, "/api/cart/checkout", a.consumer, gin.H{
		"fullName": "Asha Patil", "mobile": "9876543210", "address": "12 Market Road", "pincode": "422001",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCollectWithoutApproval(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)

	resp := do(t, r, http.MethodPost, "/api/farmer/payout/collect", a.farmer, gin.H{})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/farmer/payout/request", a.farmer, nil)
	assert.Equal(t, http.StatusConflict, resp.Code, "nothing delivered yet")
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)

	resp := do(t, r, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/farmer/dashboard", a.consumer, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/admin/products/approve", a.farmer, gin.H{"productIds": []string{"x"}})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/consumer/login", "", gin.H{"email": "asha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/profile", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "K-100", resp.json(t)["kisanId"])
	assert.NotContains(t, resp.Body.String(), "PasswordHash")
}

func TestFarmerProductEndpoints(t *testing.T) {
	r := newTestRouter(t)
	a := registerActors(t, r)
	productID := addProduct(t, r, a.farmer, "Okra", "40.00", 8)

	resp := do(t, r, http.MethodPut, "/api/farmer/products/"+productID, a.farmer, gin.H{"price": "45.50", "unit": "kg", "stock": 3})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "45.50", resp.json(t)["price"])

	resp = do(t, r, http.MethodPut, "/api/farmer/products/"+productID, a.farmer, gin.H{"unit": "kg"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/farmer/dashboard", a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	dash := resp.json(t)
	assert.EqualValues(t, 1, dash["liveProducts"])
	assert.Len(t, dash["lowStockProducts"], 1)

	resp = do(t, r, http.MethodPost, "/api/admin/products/approve", a.admin, gin.H{"productIds": []string{productID}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, resp.json(t)["approved"])

	resp = do(t, r, http.MethodDelete, "/api/farmer/products/"+productID, a.farmer, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = do(t, r, http.MethodDelete, "/api/farmer/products/"+productID, a.farmer, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&domain.StockError{Shortages: []domain.Shortage{{ProductName: "Tomato"}}}, http.StatusConflict},
		{domain.ErrEmptyCart, http.StatusBadRequest},
		{&domain.ValidationError{Fields: []string{"pincode"}}, http.StatusBadRequest},
		{domain.NotFound("order", "o1"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrUnauthorized), http.StatusForbidden},
		{domain.ErrNotEligible, http.StatusConflict},
		{domain.ErrNotApproved, http.StatusConflict},
		{domain.ErrNothingToPay, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token, err := tokens.Issue(domain.User{ID: "u1", Role: domain.RoleFarmer})
	require.NoError(t, err)

	actor, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "u1", Role: domain.RoleFarmer}, actor)

	_, err = NewTokens("other", time.Hour).Parse(token)
	assert.Error(t, err)

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.Issue(domain.User{ID: "u1", Role: domain.RoleFarmer})
	require.NoError(t, err)
	_, err = tokens.Parse(token)
	assert.Error(t, err)
}
