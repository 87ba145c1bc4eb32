package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/store"
)

func TestCheckoutToPayoutCycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedProduct(t, "p1", farmer.ID, "100.00", 10)

	_, err := h.orders.UpdateCart(ctx, consumer, "p1", 3)
	require.NoError(t, err)
	c, err := h.orders.LoadCart(ctx, consumer)
	require.NoError(t, err)
	order, err := h.orders.Checkout(ctx, consumer, c, shippingInput())
	require.NoError(t, err)
	assert.Equal(t, "300.00", domain.Money(order.TotalAmount))
	assert.Equal(t, 7, h.product(t, "p1").Stock)

	_, err = h.delivery.MarkDelivered(ctx, farmer, order.ID)
	require.NoError(t, err)

	st, err := h.payouts.Unsettled(ctx, farmer)
	require.NoError(t, err)
	require.Equal(t, 1, st.Len())
	for row := range st.Rows() {
		assert.Equal(t, "300.00", domain.Money(row.Gross))
		assert.Equal(t, "45.00", domain.Money(row.Commission))
		assert.Equal(t, "255.00", domain.Money(row.Net))
	}
	assert.Equal(t, "255.00", domain.Money(st.Total))

	require.NoError(t, h.payouts.RequestPayout(ctx, farmer))
	assert.Equal(t, domain.PayoutRequested, h.user(t, farmer.ID).PayoutStatus)
	require.NoError(t, h.payouts.ApprovePayout(ctx, admin, farmer.ID))
	assert.Equal(t, domain.PayoutApproved, h.user(t, farmer.ID).PayoutStatus)

	receipt, err := h.payouts.CollectPayment(ctx, farmer, bank())
	require.NoError(t, err)
	assert.Equal(t, "255.00", domain.Money(receipt.Total))
	assert.Equal(t, 1, receipt.ItemCount)
	assert.Equal(t, "XXXXXXXX7890", receipt.AccountMasked)
	assert.Equal(t, domain.PayoutNone, h.user(t, farmer.ID).PayoutStatus)

	st, err = h.payouts.Unsettled(ctx, farmer)
	require.NoError(t, err)
	assert.False(t, st.HasUnsettled())
	assert.True(t, st.Total.IsZero())

	receipts, err := h.payouts.Receipts(ctx, farmer)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, receipt.ID, receipts[0].ID)

	assert.Equal(t, []string{
		events.TypeOrderPlaced,
		events.TypeOrderDelivered,
		events.TypePayoutRequested,
		events.TypePayoutApproved,
		events.TypePayoutSettled,
	}, h.events.types())
}

func TestStatementSplitsEveryRow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedProduct(t, "p1", farmer.ID, "33.33", 10)
	h.seedProduct(t, "p2", farmer.ID, "0.07", 10)

	for _, id := range []string{"p1", "p2"} {
		order := h.placeOrder(t, consumer, id, 1)
		_, err := h.delivery.MarkDelivered(ctx, farmer, order.ID)
		require.NoError(t, err)
	}

	st, err := h.payouts.Unsettled(ctx, farmer)
	require.NoError(t, err)
	require.Equal(t, 2, st.Len())

	sum := decimal.Zero
	for row := range st.Rows() {
		assert.True(t, row.Gross.Equal(row.Commission.Add(row.Net)))
		sum = sum.Add(row.Net)
	}
	assert.True(t, sum.Equal(st.Total))
	assert.Equal(t, "28.39", domain.Money(st.Total))
}

func TestRequestPayoutEligibility(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedProduct(t, "p1", farmer.ID, "50.00", 10)

	require.ErrorIs(t, h.payouts.RequestPayout(ctx, farmer), domain.ErrNotEligible)

	order := h.placeOrder(t, consumer, "p1", 1)
	require.ErrorIs(t, h.payouts.RequestPayout(ctx, farmer), domain.ErrNotEligible, "undelivered items are not payable")

	_, err := h.delivery.MarkDelivered(ctx, farmer, order.ID)
	require.NoError(t, err)
	require.NoError(t, h.payouts.RequestPayout(ctx, farmer))
	require.ErrorIs(t, h.payouts.RequestPayout(ctx, farmer), domain.ErrNotEligible)

	require.ErrorIs(t, h.payouts.RequestPayout(ctx, consumer), domain.ErrUnauthorized)
}

func TestApprovePayout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.ErrorIs(t, h.payouts.ApprovePayout(ctx, admin, farmer.ID), domain.ErrNotEligible)
	require.ErrorIs(t, h.payouts.ApprovePayout(ctx, admin, consumer.ID), domain.ErrNotFound)
	require.ErrorIs(t, h.payouts.ApprovePayout(ctx, admin, "nobody"), domain.ErrNotFound)
	require.ErrorIs(t, h.payouts.ApprovePayout(ctx, farmer, farmer.ID), domain.ErrUnauthorized)
	assert.Equal(t, domain.PayoutNone, h.user(t, farmer.ID).PayoutStatus)
}

func TestCollectPaymentRequiresApproval(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedProduct(t, "p1", farmer.ID, "50.00", 10)
	order := h.placeOrder(t, consumer, "p1", 1)
	_, err := h.delivery.MarkDelivered(ctx, farmer, order.ID)
	require.NoError(t, err)

	_, err = h.payouts.CollectPayment(ctx, farmer, bank())
	require.ErrorIs(t, err, domain.ErrNotApproved)

	require.NoError(t, h.payouts.RequestPayout(ctx, farmer))
	_, err = h.payouts.CollectPayment(ctx, farmer, bank())
	require.ErrorIs(t, err, domain.ErrNotApproved)

	st, err := h.payouts.Unsettled(ctx, farmer)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
}

func TestCollectPaymentValidatesBank(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedProduct(t, "p1", farmer.ID, "50.00", 10)
	order := h.placeOrder(t, consumer, "p1", 1)
	_, err := h.delivery.MarkDelivered(ctx, farmer, order.ID)
	require.NoError(t, err)
	require.NoError(t, h.payouts.RequestPayout(ctx, farmer))
	require.NoError(t, h.payouts.ApprovePayout(ctx, admin, farmer.ID))

	b := bank()
	b.IFSCCode = ""
	_, err = h.payouts.CollectPayment(ctx, farmer, b)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"ifsc_code"}, verr.Fields)

	assert.Equal(t, domain.PayoutApproved, h.user(t, farmer.ID).PayoutStatus)
	st, err := h.payouts.Unsettled(ctx, farmer)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())

	_, err = h.payouts.CollectPayment(ctx, farmer, bank())
	require.NoError(t, err)
}

func TestCollectPaymentNothingToPayResetsStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Update(ctx, func(ctx context.Context, r store.Repository) error {
		if err := r.TransitionPayout(ctx, farmer.ID, domain.PayoutNone, domain.PayoutRequested); err != nil {
			return err
		}
		return r.TransitionPayout(ctx, farmer.ID, domain.PayoutRequested, domain.PayoutApproved)
	}))

	_, err := h.payouts.CollectPayment(ctx, farmer, domain.BankDetails{})
	require.ErrorIs(t, err, domain.ErrNothingToPay)
	assert.Equal(t, domain.PayoutNone, h.user(t, farmer.ID).PayoutStatus)

	receipts, err := h.payouts.Receipts(ctx, farmer)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestListFarmersByStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedUser(t, domain.User{ID: "f2", Role: domain.RoleFarmer, Name: "Sunita", Email: "sunita@example.com", KisanID: "K-200", PayoutStatus: domain.PayoutRequested})

	farmers, err := h.payouts.ListFarmers(ctx, admin, domain.PayoutRequested)
	require.NoError(t, err)
	require.Len(t, farmers, 1)
	assert.Equal(t, "f2", farmers[0].ID)

	farmers, err = h.payouts.ListFarmers(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, farmers, 2)

	_, err = h.payouts.ListFarmers(ctx, admin, "paid")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "XXXX5678", maskAccount(" 12345678 "))
	assert.Equal(t, "XXX", maskAccount("123"))
}
