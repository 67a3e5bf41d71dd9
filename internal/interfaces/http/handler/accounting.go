package handler

import (
	"fmt"
	"net/http"

	appaccounting "github.com/ecclesia/backend/internal/application/accounting"
	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountingHandler serves the chart of accounts, the journal and the statements
type AccountingHandler struct {
	BaseHandler
	accountingService *appaccounting.AccountingService
	statementService  *appaccounting.StatementService
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(accountingService *appaccounting.AccountingService, statementService *appaccounting.StatementService) *AccountingHandler {
	return &AccountingHandler{
		accountingService: accountingService,
		statementService:  statementService,
	}
}

// ListChart godoc
// @Summary      List chart of accounts
// @Tags         accounting
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appaccounting.AccountResponse}
// @Security     BearerAuth
// @Router       /accounting/accounts [get]
func (h *AccountingHandler) ListChart(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	accounts, err := h.accountingService.ListChart(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// SeedChart godoc
// @Summary      Seed default chart
// @Description  Create the default chart of accounts. Existing codes are kept.
// @Tags         accounting
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appaccounting.AccountResponse}
// @Security     BearerAuth
// @Router       /accounting/accounts/seed [post]
func (h *AccountingHandler) SeedChart(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	accounts, err := h.accountingService.SeedDefaultChart(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// CreateAccount godoc
// @Summary      Create account
// @Description  The parent of a dotted code must exist and be synthetic
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body appaccounting.CreateAccountRequest true "Account"
// @Success      201 {object} dto.Response{data=appaccounting.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/accounts [post]
func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appaccounting.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountingService.CreateAccount(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// UpdateAccount godoc
// @Summary      Update account
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID"
// @Param        request body appaccounting.UpdateAccountRequest true "Account"
// @Success      200 {object} dto.Response{data=appaccounting.AccountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [put]
func (h *AccountingHandler) UpdateAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appaccounting.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountingService.UpdateAccount(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount godoc
// @Summary      Delete account
// @Description  Accounts with children or postings cannot be deleted
// @Tags         accounting
// @Param        id path string true "Account ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [delete]
func (h *AccountingHandler) DeleteAccount(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountingService.DeleteAccount(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PostEntry godoc
// @Summary      Post journal entry
// @Description  Post a double entry between two analytic accounts. The cash-flow dashboard is updated in the same transaction.
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body appaccounting.PostEntryRequest true "Entry"
// @Success      201 {object} dto.Response{data=appaccounting.EntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries [post]
func (h *AccountingHandler) PostEntry(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appaccounting.PostEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	entry, err := h.accountingService.PostEntry(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListEntries godoc
// @Summary      List journal entries
// @Tags         accounting
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        account_code query string false "Debit or credit account code"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appaccounting.EntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /accounting/entries [get]
func (h *AccountingHandler) ListEntries(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var f appaccounting.EntryListFilter
	if !h.bindQuery(c, &f) {
		return
	}

	entries, total, err := h.accountingService.ListEntries(c.Request.Context(), churchID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(f.Page, f.PageSize)
	h.SuccessWithMeta(c, entries, total, page, size)
}

// DeleteEntry godoc
// @Summary      Delete journal entry
// @Description  Removes the entry and its cash-flow mirror
// @Tags         accounting
// @Param        id path string true "Entry ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries/{id} [delete]
func (h *AccountingHandler) DeleteEntry(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountingService.DeleteEntry(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TrialBalance godoc
// @Summary      Trial balance
// @Description  Balancete for the period. Defaults to the current month.
// @Tags         accounting
// @Produce      json,text/html,application/pdf
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        format query string false "Output format" Enums(json, html, pdf)
// @Success      200 {object} dto.Response{data=accounting.TrialBalance}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/statements/trial-balance [get]
func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	h.statement(c, appaccounting.StatementTrialBalance)
}

// BalanceSheet godoc
// @Summary      Balance sheet
// @Tags         accounting
// @Produce      json,text/html,application/pdf
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        format query string false "Output format" Enums(json, html, pdf)
// @Success      200 {object} dto.Response{data=accounting.BalanceSheet}
// @Security     BearerAuth
// @Router       /accounting/statements/balance-sheet [get]
func (h *AccountingHandler) BalanceSheet(c *gin.Context) {
	h.statement(c, appaccounting.StatementBalanceSheet)
}

// IncomeStatement godoc
// @Summary      Income statement
// @Tags         accounting
// @Produce      json,text/html,application/pdf
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        format query string false "Output format" Enums(json, html, pdf)
// @Success      200 {object} dto.Response{data=accounting.IncomeStatement}
// @Security     BearerAuth
// @Router       /accounting/statements/income-statement [get]
func (h *AccountingHandler) IncomeStatement(c *gin.Context) {
	h.statement(c, appaccounting.StatementIncomeStatement)
}

func (h *AccountingHandler) statement(c *gin.Context, kind appaccounting.StatementKind) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appaccounting.PeriodQuery
	if !h.bindQuery(c, &q) {
		return
	}
	period, err := h.statementService.ResolvePeriod(q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if q.Format == "" || q.Format == "json" {
		data, err := h.statementData(c, churchID, kind, period)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, data)
		return
	}

	doc, err := h.statementService.Render(c.Request.Context(), churchID, kind, period, q.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (h *AccountingHandler) statementData(c *gin.Context, churchID uuid.UUID, kind appaccounting.StatementKind, period accounting.Period) (any, error) {
	ctx := c.Request.Context()
	switch kind {
	case appaccounting.StatementBalanceSheet:
		return h.statementService.BalanceSheet(ctx, churchID, period)
	case appaccounting.StatementIncomeStatement:
		return h.statementService.IncomeStatement(ctx, churchID, period)
	default:
		return h.statementService.TrialBalance(ctx, churchID, period)
	}
}
