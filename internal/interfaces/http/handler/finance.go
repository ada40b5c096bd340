package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfinance "github.com/furnish/backend/internal/application/finance"
	"github.com/furnish/backend/internal/domain/finance"
)

// FinanceHandler exposes accounts, bills, statements, payment plans and
// commissions over HTTP.
type FinanceHandler struct {
	BaseHandler
	ledger         *appfinance.LedgerService
	receipts       *appfinance.ReceiptService
	reconciliation *appfinance.ReconciliationService
	commissions    *appfinance.CommissionService
	plans          *appfinance.PlanService
	callbackKey    string
}

// NewFinanceHandler creates a new FinanceHandler. callbackKey is the shared
// secret the approval system presents on decision callbacks.
func NewFinanceHandler(
	ledger *appfinance.LedgerService,
	receipts *appfinance.ReceiptService,
	reconciliation *appfinance.ReconciliationService,
	commissions *appfinance.CommissionService,
	plans *appfinance.PlanService,
	callbackKey string,
) *FinanceHandler {
	return &FinanceHandler{
		ledger:         ledger,
		receipts:       receipts,
		reconciliation: reconciliation,
		commissions:    commissions,
		plans:          plans,
		callbackKey:    callbackKey,
	}
}

// CreateAccount opens a new finance account
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req appfinance.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	account, err := h.ledger.CreateAccount(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// FreezeAccount blocks an account from further postings
func (h *FinanceHandler) FreezeAccount(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.ledger.FreezeAccount(c.Request.Context(), tenantID, accountID, getUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAccounts retrieves finance accounts matching the filter
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	accounts, err := h.ledger.ListAccounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// ListTransactions retrieves the ledger of one account
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	transactions, err := h.ledger.ListTransactions(c.Request.Context(), tenantID, accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]appfinance.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, appfinance.ToTransactionResponse(&transactions[i]))
	}
	h.Success(c, out)
}

// postRequest is the API shape of one manual ledger posting
type postRequest struct {
	Direction     finance.TransactionDirection `json:"direction" binding:"required"`
	Amount        decimal.Decimal              `json:"amount" binding:"required,dgt0"`
	ReceiptBillID *uuid.UUID                   `json:"receiptBillId"`
	OrderID       *uuid.UUID                   `json:"orderId"`
	Summary       string                       `json:"summary" binding:"max=500"`
}

// Post records one ledger movement against an account
func (h *FinanceHandler) Post(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transaction, err := h.ledger.Post(c.Request.Context(), tenantID, appfinance.PostRequest{
		AccountID:     accountID,
		Direction:     req.Direction,
		Amount:        req.Amount,
		ReceiptBillID: req.ReceiptBillID,
		OrderID:       req.OrderID,
		Summary:       req.Summary,
		UserID:        getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appfinance.ToTransactionResponse(transaction))
}

// CreateBill registers a draft receipt or payment bill
func (h *FinanceHandler) CreateBill(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req appfinance.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	bill, err := h.receipts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// SubmitBill routes a draft bill into the external approval flow
func (h *FinanceHandler) SubmitBill(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	billID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req appfinance.SubmitBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.BillID = billID
	req.UserID = getUserID(c)

	bill, err := h.receipts.SubmitForApproval(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// approvalCallback is the decision payload posted by the approval system
type approvalCallback struct {
	Approved   bool       `json:"approved"`
	Reason     string     `json:"reason" binding:"max=500"`
	ApproverID *uuid.UUID `json:"approverId"`
}

// ApprovalCallback receives the external approval decision for a bill. The
// caller authenticates with the shared callback key, not a tenant header.
func (h *FinanceHandler) ApprovalCallback(c *gin.Context) {
	key := c.GetHeader("X-Approval-Key")
	if h.callbackKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.callbackKey)) != 1 {
		h.Unauthorized(c, "invalid approval callback key")
		return
	}

	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	billID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req approvalCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	bill, err := h.receipts.Decide(c.Request.Context(), tenantID, appfinance.ApproveBillRequest{
		BillID:     billID,
		Approved:   req.Approved,
		Reason:     req.Reason,
		ApproverID: req.ApproverID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// GetBill retrieves one bill with its allocations
func (h *FinanceHandler) GetBill(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	billID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.receipts.GetByID(c.Request.Context(), tenantID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// ListBills retrieves bills matching the filter
func (h *FinanceHandler) ListBills(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	bills, err := h.receipts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bills)
}

// createStatementRequest opens the receivable for one order
type createStatementRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
}

// CreateStatement opens an AR statement for an order
func (h *FinanceHandler) CreateStatement(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req createStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	statement, err := h.reconciliation.CreateStatement(c.Request.Context(), tenantID, req.OrderID, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, statement)
}

// GetStatement retrieves one AR statement
func (h *FinanceHandler) GetStatement(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	statementID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	statement, err := h.reconciliation.GetStatement(c.Request.Context(), tenantID, statementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

// ListStatements retrieves AR statements matching the filter
func (h *FinanceHandler) ListStatements(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	statements, err := h.reconciliation.ListStatements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statements)
}

// ListExceptions retrieves open reconciliation exceptions
func (h *FinanceHandler) ListExceptions(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	exceptions, err := h.reconciliation.ListExceptions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]appfinance.ExceptionResponse, 0, len(exceptions))
	for i := range exceptions {
		out = append(out, appfinance.ToExceptionResponse(&exceptions[i]))
	}
	h.Success(c, out)
}

// resolveExceptionRequest closes one reconciliation exception
type resolveExceptionRequest struct {
	Remark string `json:"remark" binding:"required,max=500"`
}

// ResolveException marks an exception handled by an operator
func (h *FinanceHandler) ResolveException(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	userID := getUserID(c)
	if userID == nil {
		h.Unauthorized(c, "user context required")
		return
	}

	exceptionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid exception ID")
		return
	}

	var req resolveExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.reconciliation.ResolveException(c.Request.Context(), tenantID, exceptionID, *userID, req.Remark); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GeneratePlan creates the staged payment schedule for an order
func (h *FinanceHandler) GeneratePlan(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req appfinance.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	schedules, err := h.plans.GeneratePlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, schedules)
}

// GetPlan retrieves the payment stages for an order
func (h *FinanceHandler) GetPlan(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	schedules, err := h.plans.GetPlan(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedules)
}

// MarkStagePaid settles one payment stage
func (h *FinanceHandler) MarkStagePaid(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID")
		return
	}

	schedule, err := h.plans.MarkStagePaid(c.Request.Context(), tenantID, scheduleID, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedule)
}

// ListCommissions retrieves commission records matching the filter
func (h *FinanceHandler) ListCommissions(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	records, err := h.commissions.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]appfinance.CommissionResponse, 0, len(records))
	for i := range records {
		out = append(out, appfinance.ToCommissionResponse(&records[i]))
	}
	h.Success(c, out)
}
