package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"connectfarma-backend/internal/domain"
)

var errReadOnly = errors.New("store: write inside read-only view")

// MemoryStore keeps everything in process. Update runs against a private copy under
// the writer lock and swaps it in on success, which makes every transaction serializable.
type MemoryStore struct {
	mu   sync.RWMutex
	data *memData
}

type memData struct {
	products  map[string]domain.Product
	users     map[string]domain.User
	orders    map[string]domain.Order
	items     map[string]domain.LineItem
	itemOrder map[string][]string
	receipts  map[string]domain.Receipt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{
		products:  make(map[string]domain.Product),
		users:     make(map[string]domain.User),
		orders:    make(map[string]domain.Order),
		items:     make(map[string]domain.LineItem),
		itemOrder: make(map[string][]string),
		receipts:  make(map[string]domain.Receipt),
	}}
}

func (d *memData) clone() *memData {
	return &memData{
		products:  cloneMap(d.products),
		users:     cloneMap(d.users),
		orders:    cloneMap(d.orders),
		items:     cloneMap(d.items),
		itemOrder: cloneMap(d.itemOrder),
		receipts:  cloneMap(d.receipts),
	}
}

// Values are replaced wholesale on write, so a shallow copy is enough.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) View(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &memRepo{data: s.data, readOnly: true})
}

func (s *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	shadow := s.data.clone()
	if err := fn(ctx, &memRepo{data: shadow}); err != nil {
		return err
	}
	s.data = shadow
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

type memRepo struct {
	data     *memData
	readOnly bool
}

func (r *memRepo) writable() error {
	if r.readOnly {
		return errReadOnly
	}
	return nil
}

func (r *memRepo) GetProduct(_ context.Context, id string) (domain.Product, error) {
	p, ok := r.data.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return p, nil
}

func (r *memRepo) ListProducts(_ context.Context, filter ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.data.products {
		if filter.FarmerID != "" && p.FarmerID != filter.FarmerID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !p.Available() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memRepo) InsertProduct(_ context.Context, p domain.Product) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.data.products[p.ID]; ok {
		return fmt.Errorf("product %s: %w", p.ID, domain.ErrDuplicate)
	}
	r.data.products[p.ID] = p
	return nil
}

func (r *memRepo) UpdateProduct(_ context.Context, p domain.Product) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.data.products[p.ID]; !ok {
		return domain.NotFound("product", p.ID)
	}
	r.data.products[p.ID] = p
	return nil
}

func (r *memRepo) DeleteProduct(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.data.products[id]; !ok {
		return domain.NotFound("product", id)
	}
	delete(r.data.products, id)
	return nil
}

func (r *memRepo) DecrementStock(_ context.Context, id string, qty int) error {
	if err := r.writable(); err != nil {
		return err
	}
	p, ok := r.data.products[id]
	if !ok {
		return domain.NotFound("product", id)
	}
	if p.Stock < qty {
		return &domain.StockError{Shortages: []domain.Shortage{{
			ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Stock,
		}}}
	}
	p.Stock -= qty
	r.data.products[id] = p
	return nil
}

func (r *memRepo) ApproveProducts(_ context.Context, ids []string) (int, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		p, ok := r.data.products[id]
		if !ok {
			continue
		}
		p.Approved = true
		r.data.products[id] = p
		n++
	}
	return n, nil
}

func (r *memRepo) InsertOrder(_ context.Context, o domain.Order) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.data.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, domain.ErrDuplicate)
	}
	ids := make([]string, 0, len(o.Items))
	for _, li := range o.Items {
		li.OrderID = o.ID
		li.OrderedAt = o.CreatedAt
		li.Delivered = o.Delivered
		r.data.items[li.ID] = li
		ids = append(ids, li.ID)
	}
	o.Items = nil
	r.data.orders[o.ID] = o
	r.data.itemOrder[o.ID] = ids
	return nil
}

func (r *memRepo) GetOrder(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.data.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFound("order", id)
	}
	return r.withItems(o), nil
}

func (r *memRepo) withItems(o domain.Order) domain.Order {
	ids := r.data.itemOrder[o.ID]
	o.Items = make([]domain.LineItem, 0, len(ids))
	for _, id := range ids {
		o.Items = append(o.Items, r.data.items[id])
	}
	return o
}

func (r *memRepo) ListOrdersByConsumer(_ context.Context, consumerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.data.orders {
		if o.ConsumerID == consumerID {
			out = append(out, r.withItems(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memRepo) ListLineItems(_ context.Context, filter LineItemFilter) ([]domain.LineItem, error) {
	var out []domain.LineItem
	for _, li := range r.data.items {
		if filter.FarmerID != "" && li.FarmerID != filter.FarmerID {
			continue
		}
		if filter.OrderID != "" && li.OrderID != filter.OrderID {
			continue
		}
		if filter.Delivered != nil && li.Delivered != *filter.Delivered {
			continue
		}
		if filter.PaidOut != nil && li.PaidOut != *filter.PaidOut {
			continue
		}
		out = append(out, li)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.OrderedAt.Equal(b.OrderedAt) {
			if filter.NewestFirst {
				return a.OrderedAt.After(b.OrderedAt)
			}
			return a.OrderedAt.Before(b.OrderedAt)
		}
		return a.ID < b.ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memRepo) MarkDelivered(_ context.Context, orderID string) (bool, error) {
	if err := r.writable(); err != nil {
		return false, err
	}
	o, ok := r.data.orders[orderID]
	if !ok {
		return false, domain.NotFound("order", orderID)
	}
	if o.Delivered {
		return false, nil
	}
	o.Delivered = true
	r.data.orders[orderID] = o
	for _, id := range r.data.itemOrder[orderID] {
		li := r.data.items[id]
		li.Delivered = true
		r.data.items[id] = li
	}
	return true, nil
}

func (r *memRepo) MarkPaidOut(_ context.Context, itemIDs []string) (int, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range itemIDs {
		li, ok := r.data.items[id]
		if !ok || !li.Delivered || li.PaidOut {
			continue
		}
		li.PaidOut = true
		r.data.items[id] = li
		n++
	}
	return n, nil
}

func (r *memRepo) InsertUser(_ context.Context, u domain.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	for _, existing := range r.data.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user %s: %w", u.Email, domain.ErrDuplicate)
		}
		if u.KisanID != "" && existing.KisanID == u.KisanID {
			return fmt.Errorf("kisan id %s: %w", u.KisanID, domain.ErrDuplicate)
		}
	}
	r.data.users[u.ID] = u
	return nil
}

func (r *memRepo) GetUser(_ context.Context, id string) (domain.User, error) {
	u, ok := r.data.users[id]
	if !ok {
		return domain.User{}, domain.NotFound("user", id)
	}
	return u, nil
}

func (r *memRepo) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFound("user", email)
}

func (r *memRepo) FindFarmerByKisanID(_ context.Context, kisanID string) (domain.User, error) {
	for _, u := range r.data.users {
		if u.Role == domain.RoleFarmer && u.KisanID == kisanID {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFound("farmer", kisanID)
}

func (r *memRepo) ListFarmers(_ context.Context, status domain.PayoutStatus) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.data.users {
		if u.Role != domain.RoleFarmer {
			continue
		}
		if status != "" && u.PayoutStatus != status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memRepo) TransitionPayout(_ context.Context, farmerID string, from, to domain.PayoutStatus) error {
	if err := r.writable(); err != nil {
		return err
	}
	u, ok := r.data.users[farmerID]
	if !ok || u.Role != domain.RoleFarmer {
		return domain.NotFound("farmer", farmerID)
	}
	if u.PayoutStatus != from {
		return fmt.Errorf("farmer %s payout is %s, not %s: %w", farmerID, u.PayoutStatus, from, domain.ErrConflict)
	}
	u.PayoutStatus = to
	r.data.users[farmerID] = u
	return nil
}

func (r *memRepo) InsertReceipt(_ context.Context, rc domain.Receipt) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.data.receipts[rc.ID]; ok {
		return fmt.Errorf("receipt %s: %w", rc.ID, domain.ErrDuplicate)
	}
	rc.LineItemIDs = append([]string(nil), rc.LineItemIDs...)
	r.data.receipts[rc.ID] = rc
	return nil
}

func (r *memRepo) ListReceipts(_ context.Context, farmerID string) ([]domain.Receipt, error) {
	var out []domain.Receipt
	for _, rc := range r.data.receipts {
		if rc.FarmerID == farmerID {
			out = append(out, rc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SettledAt.Equal(out[j].SettledAt) {
			return out[i].SettledAt.After(out[j].SettledAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
