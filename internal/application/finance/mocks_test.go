package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/identity"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinanceAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if a := args.Get(0); a != nil {
		return a.(*finance.FinanceAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinanceAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if a := args.Get(0); a != nil {
		return a.(*finance.FinanceAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.FinanceAccount, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.FinanceAccount), args.Error(1)
}

func (m *mockAccountRepo) Save(ctx context.Context, account *finance.FinanceAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) CompareAndSwapBalance(ctx context.Context, tenantID, id uuid.UUID, expected, next decimal.Decimal) error {
	return m.Called(ctx, tenantID, id, expected, next).Error(0)
}

type mockTxRepo struct{ mock.Mock }

func (m *mockTxRepo) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.AccountTransaction, error) {
	args := m.Called(ctx, tenantID, accountID, filter)
	return args.Get(0).([]finance.AccountTransaction), args.Error(1)
}

func (m *mockTxRepo) Save(ctx context.Context, tx *finance.AccountTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

type mockBillRepo struct{ mock.Mock }

func (m *mockBillRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.ReceiptBill, error) {
	args := m.Called(ctx, tenantID, id)
	if b := args.Get(0); b != nil {
		return b.(*finance.ReceiptBill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ReceiptBill, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.ReceiptBill), args.Error(1)
}

func (m *mockBillRepo) Save(ctx context.Context, bill *finance.ReceiptBill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *mockBillRepo) SaveWithVersion(ctx context.Context, bill *finance.ReceiptBill, expectedVersion int) error {
	return m.Called(ctx, bill, expectedVersion).Error(0)
}

type mockStatementRepo struct{ mock.Mock }

func (m *mockStatementRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.ARStatement, error) {
	args := m.Called(ctx, tenantID, id)
	if s := args.Get(0); s != nil {
		return s.(*finance.ARStatement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStatementRepo) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.ARStatement, error) {
	args := m.Called(ctx, tenantID, orderID)
	if s := args.Get(0); s != nil {
		return s.(*finance.ARStatement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStatementRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ARStatement, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.ARStatement), args.Error(1)
}

func (m *mockStatementRepo) Save(ctx context.Context, statement *finance.ARStatement) error {
	return m.Called(ctx, statement).Error(0)
}

func (m *mockStatementRepo) CompareAndSwapReceived(ctx context.Context, statement *finance.ARStatement, expectedReceived decimal.Decimal) error {
	return m.Called(ctx, statement, expectedReceived).Error(0)
}

type mockExceptionRepo struct{ mock.Mock }

func (m *mockExceptionRepo) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ReconciliationException, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.ReconciliationException), args.Error(1)
}

func (m *mockExceptionRepo) Save(ctx context.Context, exception *finance.ReconciliationException) error {
	return m.Called(ctx, exception).Error(0)
}

type mockCommissionRepo struct{ mock.Mock }

func (m *mockCommissionRepo) FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*finance.CommissionRecord, error) {
	args := m.Called(ctx, tenantID, statementID)
	if r := args.Get(0); r != nil {
		return r.(*finance.CommissionRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommissionRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CommissionRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.CommissionRecord), args.Error(1)
}

func (m *mockCommissionRepo) Save(ctx context.Context, record *finance.CommissionRecord) error {
	return m.Called(ctx, record).Error(0)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]finance.PaymentSchedule, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]finance.PaymentSchedule), args.Error(1)
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentSchedule, error) {
	args := m.Called(ctx, tenantID, id)
	if s := args.Get(0); s != nil {
		return s.(*finance.PaymentSchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleRepo) SaveBatch(ctx context.Context, schedules []finance.PaymentSchedule) error {
	return m.Called(ctx, schedules).Error(0)
}

func (m *mockScheduleRepo) Save(ctx context.Context, schedule *finance.PaymentSchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByOrderNo(ctx context.Context, tenantID uuid.UUID, orderNo string) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, orderNo)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, order *sales.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) SaveWithVersion(ctx context.Context, order *sales.Order, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *mockOrderRepo) UpdateItems(ctx context.Context, items []sales.OrderItem) error {
	return m.Called(ctx, items).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

type mockChannelRepo struct{ mock.Mock }

func (m *mockChannelRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Channel, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*partner.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChannelRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Channel, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Channel), args.Error(1)
}

func (m *mockChannelRepo) Save(ctx context.Context, channel *partner.Channel) error {
	return m.Called(ctx, channel).Error(0)
}

type mockSettingsProvider struct{ mock.Mock }

func (m *mockSettingsProvider) Settings(ctx context.Context, tenantID uuid.UUID) (identity.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(identity.TenantSettings), args.Error(1)
}

func (m *mockSettingsProvider) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

type mockNumberGen struct{ mock.Mock }

func (m *mockNumberGen) Next(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) Submit(ctx context.Context, submission ApprovalSubmission) error {
	return m.Called(ctx, submission).Error(0)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

// relaxedRecorder accepts every audit entry
func newRelaxedRecorder() *mockRecorder {
	r := new(mockRecorder)
	r.On("Record", mock.Anything, mock.Anything).Return(nil)
	return r
}

// rebateChannel builds a flat-rate channel with a fixed ID
func rebateChannel(t testingT, tenantID, channelID uuid.UUID, rate float64) *partner.Channel {
	channel, err := partner.NewChannel(tenantID, "CH-"+channelID.String()[:8], "Channel",
		partner.CooperationModeRebate, decimal.NewFromFloat(rate))
	if err != nil {
		t.Fatalf("building channel: %v", err)
	}
	channel.ID = channelID
	return channel
}

type testingT interface {
	Fatalf(format string, args ...any)
}
