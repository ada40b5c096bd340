package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

type commissionFixture struct {
	svc         *CommissionService
	channels    *mockChannelRepo
	products    *mockProductRepo
	orders      *mockOrderRepo
	commissions *mockCommissionRepo
	gen         *mockNumberGen
}

func newCommissionFixture() *commissionFixture {
	f := &commissionFixture{
		channels:    new(mockChannelRepo),
		products:    new(mockProductRepo),
		orders:      new(mockOrderRepo),
		commissions: new(mockCommissionRepo),
		gen:         new(mockNumberGen),
	}
	f.svc = NewCommissionService(f.channels, f.products, f.orders, f.commissions, f.gen,
		newRelaxedRecorder(), zap.NewNop())
	return f
}

// paidStatement builds a settled statement attached to a channel
func paidStatement(t *testing.T, tenantID uuid.UUID, total int64, channelID uuid.UUID) *finance.ARStatement {
	t.Helper()
	statement, err := finance.NewARStatement(tenantID, "AR-0001", uuid.New(),
		decimal.NewFromInt(total), &channelID)
	require.NoError(t, err)
	_, err = statement.ApplyReceipt(decimal.NewFromInt(total), decimal.Zero)
	require.NoError(t, err)
	return statement
}

func TestCommissionService_Calculate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("rebate mode pays flat cut of order amount", func(t *testing.T) {
		f := newCommissionFixture()
		channelID := uuid.New()
		statement := paidStatement(t, tenantID, 10000, channelID)

		channel, err := partner.NewChannel(tenantID, "CH-1", "Mall Partner",
			partner.CooperationModeRebate, decimal.NewFromFloat(0.1))
		require.NoError(t, err)
		channel.ID = channelID

		f.commissions.On("FindByStatementID", mock.Anything, tenantID, statement.ID).Return(nil, shared.ErrNotFound)
		f.channels.On("FindByID", mock.Anything, tenantID, channelID).Return(channel, nil)
		f.gen.On("Next", mock.Anything, tenantID, finance.PrefixCommission).Return("COMM-20260901-0001", nil)

		var saved *finance.CommissionRecord
		f.commissions.On("Save", mock.Anything, mock.AnythingOfType("*finance.CommissionRecord")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*finance.CommissionRecord)
			}).Return(nil)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))

		require.NotNil(t, saved)
		assert.True(t, saved.CommissionAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, partner.CooperationModeRebate, saved.CooperationMode)
		assert.Equal(t, finance.CommissionStatusCalculated, statement.CommissionStatus)
		require.NotNil(t, statement.CommissionAmount)
		assert.True(t, statement.CommissionAmount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("base price mode pays cut of margin over base cost", func(t *testing.T) {
		f := newCommissionFixture()
		channelID := uuid.New()
		statement := paidStatement(t, tenantID, 10000, channelID)

		channel, err := partner.NewChannel(tenantID, "CH-2", "Designer",
			partner.CooperationModeBasePrice, decimal.NewFromFloat(0.5))
		require.NoError(t, err)
		channel.ID = channelID

		product, err := catalog.NewProduct(tenantID, "SKU-1", "Curtain", "m", catalog.CategoryCurtainFabric)
		require.NoError(t, err)
		require.NoError(t, product.SetPrices(decimal.NewFromInt(30), decimal.NewFromInt(40), decimal.NewFromInt(100)))

		quote, err := sales.NewQuote(tenantID, "Q-1", uuid.New(), "Li Si", "")
		require.NoError(t, err)
		// 100 units at 100 each; base cost 100 * 40 = 4000, margin 6000
		require.NoError(t, quote.AddItem(product.ID, "Curtain", "SKU-1",
			decimal.NewFromInt(100), decimal.NewFromInt(100), nil, nil))
		require.NoError(t, quote.MarkWon())
		order, err := sales.NewOrderFromQuote(quote, "ORD-1", decimal.Zero)
		require.NoError(t, err)
		statement.OrderID = order.ID

		f.commissions.On("FindByStatementID", mock.Anything, tenantID, statement.ID).Return(nil, shared.ErrNotFound)
		f.channels.On("FindByID", mock.Anything, tenantID, channelID).Return(channel, nil)
		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.products.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.gen.On("Next", mock.Anything, tenantID, finance.PrefixCommission).Return("COMM-20260901-0002", nil)

		var saved *finance.CommissionRecord
		f.commissions.On("Save", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*finance.CommissionRecord)
			}).Return(nil)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))

		require.NotNil(t, saved)
		assert.True(t, saved.CommissionAmount.Equal(decimal.NewFromInt(3000)),
			"got %s", saved.CommissionAmount)
	})

	t.Run("skips statement that already has a record", func(t *testing.T) {
		f := newCommissionFixture()
		channelID := uuid.New()
		statement := paidStatement(t, tenantID, 5000, channelID)

		record, err := finance.NewCommissionRecord(tenantID, "COMM-X", statement.ID, channelID,
			statement.OrderID, partner.CooperationModeRebate, decimal.NewFromFloat(0.1), decimal.NewFromInt(500))
		require.NoError(t, err)
		f.commissions.On("FindByStatementID", mock.Anything, tenantID, statement.ID).Return(record, nil)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))
		f.channels.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
		f.commissions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("concurrent insert is treated as done", func(t *testing.T) {
		f := newCommissionFixture()
		channelID := uuid.New()
		statement := paidStatement(t, tenantID, 5000, channelID)

		channel, err := partner.NewChannel(tenantID, "CH-3", "Partner",
			partner.CooperationModeRebate, decimal.NewFromFloat(0.1))
		require.NoError(t, err)
		channel.ID = channelID

		f.commissions.On("FindByStatementID", mock.Anything, tenantID, statement.ID).Return(nil, shared.ErrNotFound)
		f.channels.On("FindByID", mock.Anything, tenantID, channelID).Return(channel, nil)
		f.gen.On("Next", mock.Anything, tenantID, finance.PrefixCommission).Return("COMM-20260901-0003", nil)
		f.commissions.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))
	})

	t.Run("statement without channel is a no-op", func(t *testing.T) {
		f := newCommissionFixture()
		statement, err := finance.NewARStatement(tenantID, "AR-0009", uuid.New(),
			decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))
		f.commissions.AssertNotCalled(t, "FindByStatementID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero commission stamps statement without a record", func(t *testing.T) {
		f := newCommissionFixture()
		channelID := uuid.New()
		statement := paidStatement(t, tenantID, 5000, channelID)

		channel, err := partner.NewChannel(tenantID, "CH-4", "Zero Rate",
			partner.CooperationModeRebate, decimal.Zero)
		require.NoError(t, err)
		channel.ID = channelID

		f.commissions.On("FindByStatementID", mock.Anything, tenantID, statement.ID).Return(nil, shared.ErrNotFound)
		f.channels.On("FindByID", mock.Anything, tenantID, channelID).Return(channel, nil)

		require.NoError(t, f.svc.Calculate(context.Background(), tenantID, statement))
		assert.Equal(t, finance.CommissionStatusCalculated, statement.CommissionStatus)
		f.commissions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
