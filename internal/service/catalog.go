package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/store"
)

type CatalogService struct {
	base
}

func NewCatalogService(deps Deps) (*CatalogService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	return &CatalogService{base: b}, nil
}

// Browse lists products consumers can buy: in stock with a price set.
func (s *CatalogService) Browse(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	if category != "" && !category.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"category"}, Message: "unknown category " + string(category)}
	}
	var products []domain.Product
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		products, err = r.ListProducts(ctx, store.ProductFilter{Category: category, AvailableOnly: true})
		return err
	})
	return products, err
}

func (s *CatalogService) FarmerProducts(ctx context.Context, actor domain.Actor) ([]domain.Product, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return nil, err
	}
	var products []domain.Product
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		products, err = r.ListProducts(ctx, store.ProductFilter{FarmerID: actor.ID})
		return err
	})
	return products, err
}

type NewProduct struct {
	Name        string
	Description string
	Category    domain.Category
	Unit        domain.Unit
	Price       decimal.Decimal
	Stock       int
	ImagePath   string
}

func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(p.Round(domain.CurrencyPlaces))
}

func (np NewProduct) normalise() (NewProduct, error) {
	np.Name = strings.TrimSpace(np.Name)
	if np.Category == "" {
		np.Category = domain.CategoryVegetables
	}
	if np.Unit == "" {
		np.Unit = domain.UnitKg
	}
	var bad []string
	if np.Name == "" {
		bad = append(bad, "name")
	}
	if !np.Category.Valid() {
		bad = append(bad, "category")
	}
	if !np.Unit.Valid() {
		bad = append(bad, "unit")
	}
	if !validPrice(np.Price) {
		bad = append(bad, "price")
	}
	if np.Stock < 0 {
		bad = append(bad, "stock")
	}
	if len(bad) > 0 {
		return np, &domain.ValidationError{Fields: bad}
	}
	return np, nil
}

type AddResult struct {
	Added   []domain.Product
	Skipped []string
}

// AddProducts lists new products for the farmer, skipping names already listed.
// New products wait for admin approval.
func (s *CatalogService) AddProducts(ctx context.Context, actor domain.Actor, items []NewProduct) (AddResult, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return AddResult{}, err
	}
	if len(items) == 0 {
		return AddResult{}, &domain.ValidationError{Fields: []string{"products"}, Message: "select at least one product to add"}
	}
	normalised := make([]NewProduct, 0, len(items))
	for _, np := range items {
		np, err := np.normalise()
		if err != nil {
			return AddResult{}, err
		}
		normalised = append(normalised, np)
	}

	var res AddResult
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		res = AddResult{}
		existing, err := r.ListProducts(ctx, store.ProductFilter{FarmerID: actor.ID})
		if err != nil {
			return err
		}
		names := make(map[string]bool, len(existing))
		for _, p := range existing {
			names[p.Name] = true
		}
		for _, np := range normalised {
			if names[np.Name] {
				res.Skipped = append(res.Skipped, np.Name)
				continue
			}
			p := domain.Product{
				ID:          s.newID(),
				FarmerID:    actor.ID,
				Name:        np.Name,
				Description: np.Description,
				Price:       np.Price,
				Unit:        np.Unit,
				Stock:       np.Stock,
				Category:    np.Category,
				ImagePath:   np.ImagePath,
			}
			if err := r.InsertProduct(ctx, p); err != nil {
				return err
			}
			names[p.Name] = true
			res.Added = append(res.Added, p)
		}
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}
	s.logger.Info("Products added",
		zap.String("farmer_id", actor.ID),
		zap.Int("added", len(res.Added)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

type ProductUpdate struct {
	Price decimal.Decimal
	Unit  domain.Unit
	Stock int
}

func (s *CatalogService) ownProduct(ctx context.Context, r store.Repository, actor domain.Actor, id string) (domain.Product, error) {
	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.FarmerID != actor.ID {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return p, nil
}

// UpdateProduct changes price, unit and stock of one of the farmer's own products.
// Line items already ordered keep the price they were charged.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor domain.Actor, id string, u ProductUpdate) (domain.Product, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return domain.Product{}, err
	}
	var bad []string
	if !validPrice(u.Price) {
		bad = append(bad, "price")
	}
	if !u.Unit.Valid() {
		bad = append(bad, "unit")
	}
	if u.Stock < 0 {
		bad = append(bad, "stock")
	}
	if len(bad) > 0 {
		return domain.Product{}, &domain.ValidationError{Fields: bad}
	}

	var updated domain.Product
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		p, err := s.ownProduct(ctx, r, actor, id)
		if err != nil {
			return err
		}
		p.Price, p.Unit, p.Stock = u.Price, u.Unit, u.Stock
		updated = p
		return r.UpdateProduct(ctx, p)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("Product updated",
		zap.String("product_id", id),
		zap.String("price", domain.Money(updated.Price)),
		zap.Int("stock", updated.Stock))
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor domain.Actor, id string) (domain.Product, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return domain.Product{}, err
	}
	var deleted domain.Product
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		p, err := s.ownProduct(ctx, r, actor, id)
		if err != nil {
			return err
		}
		deleted = p
		return r.DeleteProduct(ctx, id)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id), zap.String("farmer_id", actor.ID))
	return deleted, nil
}

func (s *CatalogService) ApproveProducts(ctx context.Context, actor domain.Actor, ids []string) (int, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, &domain.ValidationError{Fields: []string{"product_ids"}}
	}
	var n int
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		n, err = r.ApproveProducts(ctx, ids)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("approve products: %w", err)
	}
	s.logger.Info("Products approved", zap.String("admin_id", actor.ID), zap.Int("count", n))
	return n, nil
}
