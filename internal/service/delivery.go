package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

type DeliveryService struct {
	base
}

func NewDeliveryService(deps Deps) (*DeliveryService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	return &DeliveryService{base: b}, nil
}

// MarkDelivered lets any farmer supplying at least one line of the order flip the shared
// delivered flag. Marking an already delivered order succeeds without side effects.
func (s *DeliveryService) MarkDelivered(ctx context.Context, actor domain.Actor, orderID string) (domain.Order, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return domain.Order{}, err
	}

	var (
		order   domain.Order
		changed bool
	)
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		if _, err := r.GetOrder(ctx, orderID); err != nil {
			return err
		}
		supplied, err := r.ListLineItems(ctx, store.LineItemFilter{OrderID: orderID, FarmerID: actor.ID, Limit: 1})
		if err != nil {
			return err
		}
		if len(supplied) == 0 {
			return fmt.Errorf("order %s has no items from this farmer: %w", orderID, domain.ErrUnauthorized)
		}
		if changed, err = r.MarkDelivered(ctx, orderID); err != nil {
			return err
		}
		order, err = r.GetOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	if changed {
		s.logger.Info("Order delivered",
			zap.String("order_id", orderID),
			zap.String("farmer_id", actor.ID))
		s.publish(ctx, events.TypeOrderDelivered, orderID, actor.ID, nil)
	}
	return order, nil
}
