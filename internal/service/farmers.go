package service

import (
	"context"

	"github.com/shopspring/decimal"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/store"
)

type FarmerService struct {
	base
	lowStock int
}

func NewFarmerService(deps Deps, lowStockThreshold int) (*FarmerService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	return &FarmerService{base: b, lowStock: lowStockThreshold}, nil
}

type Dashboard struct {
	LiveProducts     int
	LowStockProducts []domain.Product
	PendingOrders    int
	TotalEarnings    decimal.Decimal
}

// Dashboard summarises a farmer's catalog and sales. Earnings are gross values of
// delivered items, before commission.
func (s *FarmerService) Dashboard(ctx context.Context, actor domain.Actor) (Dashboard, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{TotalEarnings: decimal.Zero}
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		products, err := r.ListProducts(ctx, store.ProductFilter{FarmerID: actor.ID})
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.Available() {
				d.LiveProducts++
			}
			if p.Stock > 0 && p.Stock <= s.lowStock {
				d.LowStockProducts = append(d.LowStockProducts, p)
			}
		}

		items, err := r.ListLineItems(ctx, store.LineItemFilter{FarmerID: actor.ID})
		if err != nil {
			return err
		}
		pending := make(map[string]struct{})
		for _, li := range items {
			if li.Delivered {
				d.TotalEarnings = d.TotalEarnings.Add(li.Gross())
			} else {
				pending[li.OrderID] = struct{}{}
			}
		}
		d.PendingOrders = len(pending)
		return nil
	})
	return d, err
}

// OrderItems lists the farmer's line items, newest order first.
func (s *FarmerService) OrderItems(ctx context.Context, actor domain.Actor) ([]domain.LineItem, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return nil, err
	}
	var items []domain.LineItem
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		items, err = r.ListLineItems(ctx, store.LineItemFilter{FarmerID: actor.ID, NewestFirst: true})
		return err
	})
	return items, err
}
