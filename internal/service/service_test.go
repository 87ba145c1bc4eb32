package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"connectfarma-backend/internal/cart"
	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

var (
	consumer = domain.Actor{ID: "c1", Role: domain.RoleConsumer}
	farmer   = domain.Actor{ID: "f1", Role: domain.RoleFarmer}
	admin    = domain.Actor{ID: "a1", Role: domain.RoleAdmin}
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	store    *store.MemoryStore
	redis    *miniredis.Miniredis
	carts    *cart.RedisStore
	events   *recorder
	accounts *AccountService
	catalog  *CatalogService
	orders   *OrderService
	delivery *DeliveryService
	farmers  *FarmerService
	payouts  *PayoutService
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &harness{
		store:  store.NewMemoryStore(),
		redis:  mr,
		carts:  cart.NewRedisStore(client, cart.RedisStoreOptions{TTL: time.Hour}),
		events: &recorder{},
		now:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	var seq atomic.Int64
	deps := Deps{
		Store:       h.store,
		Carts:       h.carts,
		Events:      h.events,
		Clock:       func() time.Time { return h.now },
		IDGenerator: func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
	}

	var err error
	h.accounts, err = NewAccountService(deps, bcrypt.MinCost)
	require.NoError(t, err)
	h.catalog, err = NewCatalogService(deps)
	require.NoError(t, err)
	h.orders, err = NewOrderService(deps, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	h.delivery, err = NewDeliveryService(deps)
	require.NoError(t, err)
	h.farmers, err = NewFarmerService(deps, 5)
	require.NoError(t, err)
	h.payouts, err = NewPayoutService(deps, domain.DefaultCommissionRate)
	require.NoError(t, err)

	h.seedUser(t, domain.User{ID: consumer.ID, Role: domain.RoleConsumer, Email: "asha@example.com"})
	h.seedUser(t, domain.User{ID: farmer.ID, Role: domain.RoleFarmer, Email: "ravi@example.com", KisanID: "K-100", PayoutStatus: domain.PayoutNone})
	h.seedUser(t, domain.User{ID: admin.ID, Role: domain.RoleAdmin, Email: "admin@example.com"})
	return h
}

func (h *harness) seedUser(t *testing.T, u domain.User) {
	t.Helper()
	require.NoError(t, h.store.Update(context.Background(), func(ctx context.Context, r store.Repository) error {
		return r.InsertUser(ctx, u)
	}))
}

func (h *harness) seedProduct(t *testing.T, id, farmerID, price string, stock int) {
	t.Helper()
	require.NoError(t, h.store.Update(context.Background(), func(ctx context.Context, r store.Repository) error {
		return r.InsertProduct(ctx, domain.Product{
			ID:       id,
			FarmerID: farmerID,
			Name:     "Product " + id,
			Price:    decimal.RequireFromString(price),
			Unit:     domain.UnitKg,
			Stock:    stock,
			Category: domain.CategoryVegetables,
		})
	}))
}

func (h *harness) product(t *testing.T, id string) domain.Product {
	t.Helper()
	var p domain.Product
	require.NoError(t, h.store.View(context.Background(), func(ctx context.Context, r store.Repository) error {
		var err error
		p, err = r.GetProduct(ctx, id)
		return err
	}))
	return p
}

func (h *harness) user(t *testing.T, id string) domain.User {
	t.Helper()
	var u domain.User
	require.NoError(t, h.store.View(context.Background(), func(ctx context.Context, r store.Repository) error {
		var err error
		u, err = r.GetUser(ctx, id)
		return err
	}))
	return u
}

func (h *harness) orderCount(t *testing.T, consumerID string) int {
	t.Helper()
	var n int
	require.NoError(t, h.store.View(context.Background(), func(ctx context.Context, r store.Repository) error {
		orders, err := r.ListOrdersByConsumer(ctx, consumerID)
		n = len(orders)
		return err
	}))
	return n
}

// placeOrder checks out a single line and returns the order.
func (h *harness) placeOrder(t *testing.T, actor domain.Actor, productID string, qty int) domain.Order {
	t.Helper()
	order, err := h.orders.Checkout(context.Background(), actor, cart.New(map[string]int{productID: qty}), shippingInput())
	require.NoError(t, err)
	return order
}

func shippingInput() CheckoutInput {
	return CheckoutInput{Shipping: domain.Shipping{
		FullName: "Asha Patil",
		Mobile:   "9876543210",
		Address:  "12 Market Road, Nashik",
		Pincode:  "422001",
	}}
}

func bank() domain.BankDetails {
	return domain.BankDetails{
		BankName:      "State Bank",
		AccountHolder: "Ravi Kumar",
		AccountNumber: "001234567890",
		IFSCCode:      "SBIN0000123",
	}
}

func TestNewBaseRequiresStore(t *testing.T) {
	_, err := NewCatalogService(Deps{})
	require.Error(t, err)

	_, err = NewOrderService(Deps{Store: store.NewMemoryStore()}, decimal.Zero)
	require.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	require.NoError(t, requireRole(farmer, domain.RoleFarmer))
	require.ErrorIs(t, requireRole(consumer, domain.RoleFarmer), domain.ErrUnauthorized)
	require.ErrorIs(t, requireRole(domain.Actor{Role: domain.RoleFarmer}, domain.RoleFarmer), domain.ErrUnauthorized)
}
