package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"connectfarma-backend/internal/cart"
	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

type OrderService struct {
	base
	carts       CartStore
	deliveryFee decimal.Decimal
}

func NewOrderService(deps Deps, deliveryFee decimal.Decimal) (*OrderService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	if deps.Carts == nil {
		return nil, errors.New("order service: cart store is required")
	}
	return &OrderService{base: b, carts: deps.Carts, deliveryFee: deliveryFee}, nil
}

type CartLine struct {
	Product   domain.Product
	Quantity  int
	ItemTotal decimal.Decimal
}

type CartView struct {
	Items      []CartLine
	Subtotal   decimal.Decimal
	TotalItems int
}

func (s *OrderService) LoadCart(ctx context.Context, actor domain.Actor) (cart.Cart, error) {
	if err := requireRole(actor, domain.RoleConsumer); err != nil {
		return cart.Cart{}, err
	}
	return s.carts.Get(ctx, actor.ID)
}

// UpdateCart sets a product's quantity (removing it when qty <= 0) and returns the
// cart's total item count. Stock is not checked until checkout.
func (s *OrderService) UpdateCart(ctx context.Context, actor domain.Actor, productID string, qty int) (int, error) {
	if err := requireRole(actor, domain.RoleConsumer); err != nil {
		return 0, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return 0, &domain.ValidationError{Fields: []string{"product_id"}}
	}
	if qty > 0 {
		err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
			_, err := r.GetProduct(ctx, productID)
			return err
		})
		if err != nil {
			return 0, err
		}
	}
	return s.carts.Set(ctx, actor.ID, productID, qty)
}

// ViewCart prices the session cart. Entries whose product has been deleted are
// dropped from the session.
func (s *OrderService) ViewCart(ctx context.Context, actor domain.Actor) (CartView, error) {
	c, err := s.LoadCart(ctx, actor)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Subtotal: decimal.Zero}
	var missing []string
	err = s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		for _, line := range c.Lines() {
			p, err := r.GetProduct(ctx, line.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				missing = append(missing, line.ProductID)
				continue
			}
			if err != nil {
				return err
			}
			itemTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			view.Items = append(view.Items, CartLine{Product: p, Quantity: line.Quantity, ItemTotal: itemTotal})
			view.Subtotal = view.Subtotal.Add(itemTotal)
			view.TotalItems += line.Quantity
		}
		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	if len(missing) > 0 {
		if err := s.carts.Remove(ctx, actor.ID, missing...); err != nil {
			s.logger.Warn("Failed to drop deleted products from cart",
				zap.String("consumer_id", actor.ID),
				zap.Strings("product_ids", missing),
				zap.Error(err))
		}
	}
	return view, nil
}

type CheckoutInput struct {
	Shipping      domain.Shipping
	PaymentMethod string
}

func (in CheckoutInput) validate() error {
	return domain.MissingFields(map[string]string{
		"full_name": in.Shipping.FullName,
		"mobile":    in.Shipping.Mobile,
		"address":   in.Shipping.Address,
		"pincode":   in.Shipping.Pincode,
	}, "full_name", "mobile", "address", "pincode")
}

// Checkout turns the cart into an order in one transaction: every line is checked
// against current stock, prices are snapshotted, the order and its line items are
// written and stock is decremented. Any failure leaves stock and the cart untouched.
// The cart is cleared only after the transaction commits.
func (s *OrderService) Checkout(ctx context.Context, actor domain.Actor, c cart.Cart, in CheckoutInput) (domain.Order, error) {
	if err := requireRole(actor, domain.RoleConsumer); err != nil {
		return domain.Order{}, err
	}
	if c.Empty() {
		return domain.Order{}, domain.ErrEmptyCart
	}
	if err := in.validate(); err != nil {
		return domain.Order{}, err
	}
	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	var order domain.Order
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		now := s.now()
		order = domain.Order{
			ID:            s.newID(),
			ConsumerID:    actor.ID,
			CreatedAt:     now,
			Shipping:      trimShipping(in.Shipping),
			PaymentMethod: paymentMethod,
		}

		total := decimal.Zero
		var shortages []domain.Shortage
		for _, line := range c.Lines() {
			p, err := r.GetProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < line.Quantity {
				shortages = append(shortages, domain.Shortage{
					ProductID: p.ID, ProductName: p.Name, Requested: line.Quantity, Available: p.Stock,
				})
				continue
			}
			li := domain.LineItem{
				ID:          s.newID(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				FarmerID:    p.FarmerID,
				Quantity:    line.Quantity,
				Price:       p.Price,
				OrderedAt:   now,
			}
			total = total.Add(li.Gross())
			order.Items = append(order.Items, li)
		}
		if len(shortages) > 0 {
			return &domain.StockError{Shortages: shortages}
		}
		order.TotalAmount = total

		if err := r.InsertOrder(ctx, order); err != nil {
			return err
		}
		for _, li := range order.Items {
			if err := r.DecrementStock(ctx, li.ProductID, li.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Info("Checkout rejected",
			zap.String("consumer_id", actor.ID),
			zap.Int("lines", c.Len()),
			zap.Error(err))
		return domain.Order{}, err
	}

	if err := s.carts.Clear(ctx, actor.ID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("consumer_id", actor.ID),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("consumer_id", actor.ID),
		zap.String("total_amount", domain.Money(order.TotalAmount)),
		zap.Int("items", len(order.Items)))
	s.publish(ctx, events.TypeOrderPlaced, order.ID, actor.ID, map[string]string{
		"total_amount": domain.Money(order.TotalAmount),
	})
	return order, nil
}

func trimShipping(sh domain.Shipping) domain.Shipping {
	return domain.Shipping{
		FullName: strings.TrimSpace(sh.FullName),
		Mobile:   strings.TrimSpace(sh.Mobile),
		Address:  strings.TrimSpace(sh.Address),
		Pincode:  strings.TrimSpace(sh.Pincode),
	}
}

type Confirmation struct {
	Order            domain.Order
	DeliveryFee      decimal.Decimal
	GrandTotal       decimal.Decimal
	ExpectedDelivery time.Time
}

// Confirmation shows one of the consumer's own orders with the delivery fee applied.
// The fee is presentation only and never stored on the order.
func (s *OrderService) Confirmation(ctx context.Context, actor domain.Actor, orderID string) (Confirmation, error) {
	if err := requireRole(actor, domain.RoleConsumer); err != nil {
		return Confirmation{}, err
	}
	var order domain.Order
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		order, err = r.GetOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return Confirmation{}, err
	}
	if order.ConsumerID != actor.ID {
		return Confirmation{}, domain.NotFound("order", orderID)
	}
	return Confirmation{
		Order:            order,
		DeliveryFee:      s.deliveryFee,
		GrandTotal:       order.TotalAmount.Add(s.deliveryFee),
		ExpectedDelivery: s.now().AddDate(0, 0, 1),
	}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if err := requireRole(actor, domain.RoleConsumer); err != nil {
		return nil, err
	}
	var orders []domain.Order
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		orders, err = r.ListOrdersByConsumer(ctx, actor.ID)
		return err
	})
	return orders, err
}
