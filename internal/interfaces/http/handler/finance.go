package handler

import (
	"net/http"

	appfinance "github.com/ecclesia/backend/internal/application/finance"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves bank accounts, the cash-flow dashboard and bills to pay
type FinanceHandler struct {
	BaseHandler
	accountService *appfinance.BankAccountService
	billService    *appfinance.BillService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(accountService *appfinance.BankAccountService, billService *appfinance.BillService) *FinanceHandler {
	return &FinanceHandler{
		accountService: accountService,
		billService:    billService,
	}
}

// CreateBankAccount godoc
// @Summary      Open bank account
// @Description  A positive initial balance is recorded as an opening income
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateBankAccountRequest true "Bank account"
// @Success      201 {object} dto.Response{data=appfinance.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bank-accounts [post]
func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appfinance.CreateBankAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	account, err := h.accountService.CreateBankAccount(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// ListBankAccounts godoc
// @Summary      List bank accounts
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appfinance.BankAccountResponse}
// @Security     BearerAuth
// @Router       /finance/bank-accounts [get]
func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListBankAccounts(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetBankAccount godoc
// @Summary      Get bank account
// @Tags         finance
// @Produce      json
// @Param        id path string true "Bank account ID"
// @Success      200 {object} dto.Response{data=appfinance.BankAccountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bank-accounts/{id} [get]
func (h *FinanceHandler) GetBankAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetBankAccount(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// UpdateBankAccount godoc
// @Summary      Update bank account
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Bank account ID"
// @Param        request body appfinance.UpdateBankAccountRequest true "Bank account"
// @Success      200 {object} dto.Response{data=appfinance.BankAccountResponse}
// @Security     BearerAuth
// @Router       /finance/bank-accounts/{id} [put]
func (h *FinanceHandler) UpdateBankAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appfinance.UpdateBankAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateBankAccount(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CloseBankAccount godoc
// @Summary      Close bank account
// @Tags         finance
// @Param        id path string true "Bank account ID"
// @Success      204
// @Security     BearerAuth
// @Router       /finance/bank-accounts/{id}/close [post]
func (h *FinanceHandler) CloseBankAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.CloseBankAccount(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteBankAccount godoc
// @Summary      Delete bank account
// @Description  Only accounts with a zero balance can be deleted
// @Tags         finance
// @Param        id path string true "Bank account ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bank-accounts/{id} [delete]
func (h *FinanceHandler) DeleteBankAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteBankAccount(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordEntry godoc
// @Summary      Record income or expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateFinancialEntryRequest true "Entry"
// @Success      201 {object} dto.Response{data=appfinance.FinancialEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/entries [post]
func (h *FinanceHandler) RecordEntry(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appfinance.CreateFinancialEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	entry, err := h.accountService.RecordEntry(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListEntries godoc
// @Summary      List cash-flow entries
// @Tags         finance
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        type query string false "Entry type" Enums(income, expense)
// @Param        bank_account_id query string false "Bank account ID"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appfinance.FinancialEntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /finance/entries [get]
func (h *FinanceHandler) ListEntries(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var f appfinance.FinancialEntryListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	entries, total, err := h.accountService.ListEntries(c.Request.Context(), churchID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(f.Page, f.PageSize)
	h.SuccessWithMeta(c, entries, total, page, size)
}

// Summary godoc
// @Summary      Cash-flow summary
// @Description  Income, expense and balance for the filter, with totals per category
// @Tags         finance
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        bank_account_id query string false "Bank account ID"
// @Success      200 {object} dto.Response{data=finance.CashFlowSummary}
// @Security     BearerAuth
// @Router       /finance/summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var f appfinance.FinancialEntryListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	summary, err := h.accountService.Summary(c.Request.Context(), churchID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CreateBill godoc
// @Summary      Register bill
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateBillRequest true "Bill"
// @Success      201 {object} dto.Response{data=appfinance.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills [post]
func (h *FinanceHandler) CreateBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appfinance.CreateBillRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// ListBills godoc
// @Summary      List bills
// @Tags         finance
// @Produce      json
// @Param        status query string false "Status" Enums(pending, paid, cancelled)
// @Param        search query string false "Supplier or description"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appfinance.BillResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /finance/bills [get]
func (h *FinanceHandler) ListBills(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var f appfinance.BillListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	bills, total, err := h.billService.ListBills(c.Request.Context(), churchID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(f.Page, f.PageSize)
	h.SuccessWithMeta(c, bills, total, page, size)
}

// ListOverdue godoc
// @Summary      List overdue bills
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appfinance.BillResponse}
// @Security     BearerAuth
// @Router       /finance/bills/overdue [get]
func (h *FinanceHandler) ListOverdue(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	bills, err := h.billService.ListOverdue(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bills)
}

// GetBill godoc
// @Summary      Get bill
// @Tags         finance
// @Produce      json
// @Param        id path string true "Bill ID"
// @Success      200 {object} dto.Response{data=appfinance.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id} [get]
func (h *FinanceHandler) GetBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// UpdateBill godoc
// @Summary      Update pending bill
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        request body appfinance.UpdateBillRequest true "Bill"
// @Success      200 {object} dto.Response{data=appfinance.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id} [put]
func (h *FinanceHandler) UpdateBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appfinance.UpdateBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// PayBill godoc
// @Summary      Pay bill
// @Description  Settle the bill from a bank account and record the expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        request body appfinance.PayBillRequest true "Payment"
// @Success      200 {object} dto.Response{data=appfinance.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id}/pay [post]
func (h *FinanceHandler) PayBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appfinance.PayBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.billService.PayBill(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// CancelBill godoc
// @Summary      Cancel bill
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        request body appfinance.CancelBillRequest false "Reason"
// @Success      200 {object} dto.Response{data=appfinance.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id}/cancel [post]
func (h *FinanceHandler) CancelBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appfinance.CancelBillRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.billService.CancelBill(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// DeleteBill godoc
// @Summary      Delete bill
// @Tags         finance
// @Param        id path string true "Bill ID"
// @Success      204
// @Security     BearerAuth
// @Router       /finance/bills/{id} [delete]
func (h *FinanceHandler) DeleteBill(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReceiptUploadURL godoc
// @Summary      Receipt upload URL
// @Description  Presigned URL to upload the payment receipt of a bill
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        request body appfinance.ReceiptUploadRequest true "File"
// @Success      200 {object} dto.Response{data=appfinance.UploadURLResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id}/receipt [post]
func (h *FinanceHandler) ReceiptUploadURL(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appfinance.ReceiptUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.billService.ReceiptUploadURL(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ReceiptDownload godoc
// @Summary      Download receipt
// @Description  Redirects to a presigned download URL
// @Tags         finance
// @Param        id path string true "Bill ID"
// @Success      307
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/bills/{id}/receipt [get]
func (h *FinanceHandler) ReceiptDownload(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.billService.ReceiptDownloadURL(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
