// Package service implements the marketplace operations on top of the store.
//
// Only OrderService decrements stock, only DeliveryService flips an order's delivered
// flag, and only PayoutService touches payout status or a line item's paid_out flag.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"connectfarma-backend/internal/cart"
	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

// CartStore is the session-scoped cart storage.
type CartStore interface {
	Get(ctx context.Context, actorID string) (cart.Cart, error)
	Set(ctx context.Context, actorID, productID string, qty int) (int, error)
	Remove(ctx context.Context, actorID string, productIDs ...string) error
	Clear(ctx context.Context, actorID string) error
}

// Deps bundles the collaborators shared by every service. Clock, IDGenerator, Events
// and Logger are optional.
type Deps struct {
	Store       store.Store
	Carts       CartStore
	Events      events.Publisher
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type base struct {
	store  store.Store
	events events.Publisher
	clock  func() time.Time
	newID  func() string
	logger *zap.Logger
}

func newBase(deps Deps) (base, error) {
	if deps.Store == nil {
		return base{}, errors.New("service: store is required")
	}
	b := base{
		store:  deps.Store,
		events: deps.Events,
		clock:  deps.Clock,
		newID:  deps.IDGenerator,
		logger: deps.Logger,
	}
	if b.events == nil {
		b.events = events.Nop{}
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b, nil
}

func (b base) now() time.Time { return b.clock().UTC() }

// publish never fails the caller: the change it announces has already committed.
func (b base) publish(ctx context.Context, typ, key, actorID string, data map[string]string) {
	e := events.Event{
		EventID:   b.newID(),
		Type:      typ,
		Key:       key,
		ActorID:   actorID,
		Data:      data,
		Timestamp: b.now(),
	}
	if err := b.events.Publish(ctx, e); err != nil {
		b.logger.Warn("Failed to publish event",
			zap.String("type", typ),
			zap.String("key", key),
			zap.Error(err))
	}
}

func requireRole(actor domain.Actor, role domain.Role) error {
	if !actor.Is(role) {
		return fmt.Errorf("%s account required: %w", role, domain.ErrUnauthorized)
	}
	return nil
}
