package service

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

// PayoutService drives the per-farmer payout cycle:
//
//	none --request--> requested --admin approve--> approved --collect--> none
//
// Collection always recomputes the unsettled set. Deliveries marked after that read
// are not part of the payout and stay unsettled for the next cycle.
type PayoutService struct {
	base
	rate decimal.Decimal
}

func NewPayoutService(deps Deps, commissionRate decimal.Decimal) (*PayoutService, error) {
	b, err := newBase(deps)
	if err != nil {
		return nil, err
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("payout service: commission rate %s out of range", commissionRate)
	}
	return &PayoutService{base: b, rate: commissionRate}, nil
}

type SettlementRow struct {
	Item domain.LineItem
	domain.Split
}

// Statement is what a farmer is owed for delivered, unpaid line items, oldest first.
type Statement struct {
	FarmerID string
	Status   domain.PayoutStatus
	Total    decimal.Decimal
	items    []domain.LineItem
	rate     decimal.Decimal
}

func newStatement(farmer domain.User, items []domain.LineItem, rate decimal.Decimal) Statement {
	st := Statement{FarmerID: farmer.ID, Status: farmer.PayoutStatus, Total: decimal.Zero, items: items, rate: rate}
	for _, li := range items {
		st.Total = st.Total.Add(domain.SplitGross(li.Gross(), rate).Net)
	}
	return st
}

// Rows computes each row's split as it is consumed. The sequence can be ranged over
// any number of times.
func (st Statement) Rows() iter.Seq[SettlementRow] {
	return func(yield func(SettlementRow) bool) {
		for _, li := range st.items {
			if !yield(SettlementRow{Item: li, Split: domain.SplitGross(li.Gross(), st.rate)}) {
				return
			}
		}
	}
}

func (st Statement) Len() int { return len(st.items) }

func (st Statement) HasUnsettled() bool { return len(st.items) > 0 }

func unsettledFilter(farmerID string) store.LineItemFilter {
	return store.LineItemFilter{FarmerID: farmerID, Delivered: store.Bool(true), PaidOut: store.Bool(false)}
}

func (s *PayoutService) loadStatement(ctx context.Context, r store.Repository, farmerID string) (Statement, error) {
	farmer, err := r.GetUser(ctx, farmerID)
	if err != nil {
		return Statement{}, err
	}
	if farmer.Role != domain.RoleFarmer {
		return Statement{}, domain.NotFound("farmer", farmerID)
	}
	items, err := r.ListLineItems(ctx, unsettledFilter(farmerID))
	if err != nil {
		return Statement{}, err
	}
	return newStatement(farmer, items, s.rate), nil
}

func (s *PayoutService) Unsettled(ctx context.Context, actor domain.Actor) (Statement, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return Statement{}, err
	}
	var st Statement
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		st, err = s.loadStatement(ctx, r, actor.ID)
		return err
	})
	return st, err
}

// RequestPayout requires status none and at least one delivered, unpaid line item.
func (s *PayoutService) RequestPayout(ctx context.Context, actor domain.Actor) error {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		farmer, err := r.GetUser(ctx, actor.ID)
		if err != nil {
			return err
		}
		if farmer.PayoutStatus != domain.PayoutNone {
			return fmt.Errorf("payout already %s: %w", farmer.PayoutStatus, domain.ErrNotEligible)
		}
		filter := unsettledFilter(actor.ID)
		filter.Limit = 1
		items, err := r.ListLineItems(ctx, filter)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no delivered items awaiting payment: %w", domain.ErrNotEligible)
		}
		return r.TransitionPayout(ctx, actor.ID, domain.PayoutNone, domain.PayoutRequested)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Payout requested", zap.String("farmer_id", actor.ID))
	s.publish(ctx, events.TypePayoutRequested, actor.ID, actor.ID, nil)
	return nil
}

func (s *PayoutService) ApprovePayout(ctx context.Context, actor domain.Actor, farmerID string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		farmer, err := r.GetUser(ctx, farmerID)
		if err != nil {
			return err
		}
		if farmer.Role != domain.RoleFarmer {
			return domain.NotFound("farmer", farmerID)
		}
		if farmer.PayoutStatus != domain.PayoutRequested {
			return fmt.Errorf("payout is %s, not requested: %w", farmer.PayoutStatus, domain.ErrNotEligible)
		}
		return r.TransitionPayout(ctx, farmerID, domain.PayoutRequested, domain.PayoutApproved)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Payout approved", zap.String("farmer_id", farmerID), zap.String("admin_id", actor.ID))
	s.publish(ctx, events.TypePayoutApproved, farmerID, actor.ID, nil)
	return nil
}

func (s *PayoutService) ListFarmers(ctx context.Context, actor domain.Actor, status domain.PayoutStatus) ([]domain.User, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"payout_status"}, Message: "unknown payout status " + string(status)}
	}
	var farmers []domain.User
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		farmers, err = r.ListFarmers(ctx, status)
		return err
	})
	return farmers, err
}

func validateBank(b domain.BankDetails) error {
	return domain.MissingFields(map[string]string{
		"bank_name":      b.BankName,
		"account_holder": b.AccountHolder,
		"account_number": b.AccountNumber,
		"ifsc_code":      b.IFSCCode,
	}, "bank_name", "account_holder", "account_number", "ifsc_code")
}

func maskAccount(number string) string {
	number = strings.TrimSpace(number)
	if len(number) <= 4 {
		return strings.Repeat("X", len(number))
	}
	return strings.Repeat("X", len(number)-4) + number[len(number)-4:]
}

// CollectPayment settles every delivered, unpaid item of an approved farmer. When the
// recomputed total is zero the status is reset and ErrNothingToPay returned without
// touching any item. Bank details are checked only when there is something to pay.
func (s *PayoutService) CollectPayment(ctx context.Context, actor domain.Actor, bank domain.BankDetails) (domain.Receipt, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return domain.Receipt{}, err
	}

	var (
		receipt domain.Receipt
		nothing bool
	)
	err := s.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		nothing = false
		st, err := s.loadStatement(ctx, r, actor.ID)
		if err != nil {
			return err
		}
		if st.Status != domain.PayoutApproved {
			return domain.ErrNotApproved
		}
		if !st.HasUnsettled() || st.Total.IsZero() {
			nothing = true
			return r.TransitionPayout(ctx, actor.ID, domain.PayoutApproved, domain.PayoutNone)
		}
		if err := validateBank(bank); err != nil {
			return err
		}

		ids := make([]string, 0, st.Len())
		for row := range st.Rows() {
			ids = append(ids, row.Item.ID)
		}
		n, err := r.MarkPaidOut(ctx, ids)
		if err != nil {
			return err
		}
		if n != len(ids) {
			return fmt.Errorf("settled %d of %d items: %w", n, len(ids), domain.ErrConflict)
		}
		if err := r.TransitionPayout(ctx, actor.ID, domain.PayoutApproved, domain.PayoutNone); err != nil {
			return err
		}

		receipt = domain.Receipt{
			ID:            s.newID(),
			FarmerID:      actor.ID,
			Total:         st.Total,
			ItemCount:     len(ids),
			LineItemIDs:   ids,
			BankName:      strings.TrimSpace(bank.BankName),
			AccountMasked: maskAccount(bank.AccountNumber),
			SettledAt:     s.now(),
		}
		return r.InsertReceipt(ctx, receipt)
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	if nothing {
		s.logger.Info("Payout reset with nothing to pay", zap.String("farmer_id", actor.ID))
		return domain.Receipt{}, domain.ErrNothingToPay
	}

	s.logger.Info("Payout settled",
		zap.String("farmer_id", actor.ID),
		zap.String("receipt_id", receipt.ID),
		zap.String("total", domain.Money(receipt.Total)),
		zap.Int("items", receipt.ItemCount))
	s.publish(ctx, events.TypePayoutSettled, actor.ID, actor.ID, map[string]string{
		"receipt_id": receipt.ID,
		"total":      domain.Money(receipt.Total),
		"item_count": strconv.Itoa(receipt.ItemCount),
	})
	return receipt, nil
}

func (s *PayoutService) Receipts(ctx context.Context, actor domain.Actor) ([]domain.Receipt, error) {
	if err := requireRole(actor, domain.RoleFarmer); err != nil {
		return nil, err
	}
	var receipts []domain.Receipt
	err := s.store.View(ctx, func(ctx context.Context, r store.Repository) error {
		var err error
		receipts, err = r.ListReceipts(ctx, actor.ID)
		return err
	})
	return receipts, err
}
