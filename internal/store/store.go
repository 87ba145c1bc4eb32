// Package store persists marketplace records behind an explicit transaction scope.
//
// Every read goes through View and every write through Update. The Repository handed
// to the closure is only valid inside it, and the closure must pass the ctx it receives
// to the repository so the operations join the transaction.
package store

import (
	"context"

	"connectfarma-backend/internal/domain"
)

type Store interface {
	View(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
	// Update commits everything fn wrote when fn returns nil and discards all of it otherwise.
	// fn may be re-run on transient transaction conflicts, so it must not have side effects
	// outside the repository.
	Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
	Close(ctx context.Context) error
}

type Repository interface {
	ProductRepository
	OrderRepository
	AccountRepository
	PayoutRepository
}

type ProductFilter struct {
	FarmerID      string
	Category      domain.Category
	AvailableOnly bool
}

// ProductRepository lists products by name.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	InsertProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// DecrementStock fails with *domain.StockError instead of driving stock negative.
	DecrementStock(ctx context.Context, id string, qty int) error
	ApproveProducts(ctx context.Context, ids []string) (int, error)
}

// LineItemFilter selects line items. Nil pointers match both values.
type LineItemFilter struct {
	FarmerID    string
	OrderID     string
	Delivered   *bool
	PaidOut     *bool
	NewestFirst bool
	Limit       int
}

func Bool(v bool) *bool { return &v }

type OrderRepository interface {
	// InsertOrder stores the order and its Items.
	InsertOrder(ctx context.Context, o domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	// ListOrdersByConsumer returns orders with items, newest first.
	ListOrdersByConsumer(ctx context.Context, consumerID string) ([]domain.Order, error)
	// ListLineItems orders by OrderedAt, oldest first unless NewestFirst is set.
	ListLineItems(ctx context.Context, filter LineItemFilter) ([]domain.LineItem, error)
	// MarkDelivered reports whether the order changed.
	MarkDelivered(ctx context.Context, orderID string) (bool, error)
	// MarkPaidOut flips paid_out on the given items that are delivered and still unpaid,
	// returning how many changed.
	MarkPaidOut(ctx context.Context, itemIDs []string) (int, error)
}

type AccountRepository interface {
	InsertUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	FindFarmerByKisanID(ctx context.Context, kisanID string) (domain.User, error)
	// ListFarmers filters by payout status unless status is empty.
	ListFarmers(ctx context.Context, status domain.PayoutStatus) ([]domain.User, error)
	// TransitionPayout moves a farmer from one payout status to another, failing with
	// domain.ErrConflict when the current status is not from.
	TransitionPayout(ctx context.Context, farmerID string, from, to domain.PayoutStatus) error
}

type PayoutRepository interface {
	InsertReceipt(ctx context.Context, r domain.Receipt) error
	// ListReceipts returns the farmer's settled payouts, newest first.
	ListReceipts(ctx context.Context, farmerID string) ([]domain.Receipt, error)
}
