package finance

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ObjectStorage issues presigned URLs for uploaded files
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
}

// BillService manages bills to pay
type BillService struct {
	billRepo finance.BillRepository
	txScope  TransactionScope
	storage  ObjectStorage
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewBillService creates a new BillService. storage and events may be nil.
func NewBillService(
	billRepo finance.BillRepository,
	txScope TransactionScope,
	storage ObjectStorage,
	events shared.EventPublisher,
	logger *zap.Logger,
) *BillService {
	return &BillService{
		billRepo: billRepo,
		txScope:  txScope,
		storage:  storage,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// UseLocation makes the dates the service treats as today follow loc
func (s *BillService) UseLocation(loc *time.Location) {
	s.now = shared.InLocation(s.now, loc)
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID           uuid.UUID       `json:"id"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	Status       string          `json:"status"`
	Overdue      bool            `json:"overdue"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	PaidFromID   *uuid.UUID      `json:"paid_from_id,omitempty"`
	ReceiptKey   string          `json:"receipt_key,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateBillRequest represents a request to register a bill
type CreateBillRequest struct {
	Supplier    string          `json:"supplier" binding:"required,max=150"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateBillRequest represents a request to edit a pending bill
type UpdateBillRequest struct {
	Supplier    string          `json:"supplier" binding:"required,max=150"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
}

// PayBillRequest settles a bill from a bank account
type PayBillRequest struct {
	BankAccountID uuid.UUID  `json:"bank_account_id" binding:"required"`
	PaidAt        *time.Time `json:"paid_at"`
}

// CancelBillRequest cancels a pending bill
type CancelBillRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// BillListFilter is the query string of the bill listing
type BillListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ReceiptUploadRequest asks for a presigned upload URL
type ReceiptUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse is a presigned URL and the key to confirm afterwards
type UploadURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *BillService) toResponse(b *finance.BillToPay) BillResponse {
	return BillResponse{
		ID:           b.ID,
		Supplier:     b.Supplier,
		Description:  b.Description,
		Amount:       b.Amount,
		DueDate:      b.DueDate,
		Status:       string(b.Status),
		Overdue:      b.IsOverdue(s.now()),
		PaidAt:       b.PaidAt,
		PaidFromID:   b.PaidFromID,
		ReceiptKey:   b.ReceiptKey,
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt,
	}
}

// CreateBill registers a pending bill
func (s *BillService) CreateBill(ctx context.Context, churchID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	bill, err := finance.NewBillToPay(churchID, req.Supplier, req.Description, req.Amount, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		bill.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	resp := s.toResponse(bill)
	return &resp, nil
}

// GetBill returns a bill
func (s *BillService) GetBill(ctx context.Context, churchID, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(bill)
	return &resp, nil
}

// ListBills lists bills ordered by due date
func (s *BillService) ListBills(ctx context.Context, churchID uuid.UUID, f BillListFilter) ([]BillResponse, int64, error) {
	filter := finance.BillFilter{Filter: shared.DefaultFilter(), Status: finance.BillStatus(f.Status)}
	filter.OrderBy = "due_date"
	filter.OrderDir = "asc"
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	return s.list(ctx, churchID, filter)
}

// ListOverdue lists pending bills due before today
func (s *BillService) ListOverdue(ctx context.Context, churchID uuid.UUID) ([]BillResponse, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	filter := finance.BillFilter{Filter: shared.DefaultFilter(), Status: finance.BillStatusPending, DueBefore: &today}
	filter.OrderBy = "due_date"
	filter.OrderDir = "asc"
	filter.PageSize = 0
	bills, _, err := s.list(ctx, churchID, filter)
	return bills, err
}

func (s *BillService) list(ctx context.Context, churchID uuid.UUID, filter finance.BillFilter) ([]BillResponse, int64, error) {
	bills, total, err := s.billRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = s.toResponse(&bills[i])
	}
	return responses, total, nil
}

// UpdateBill edits a pending bill
func (s *BillService) UpdateBill(ctx context.Context, churchID, id uuid.UUID, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := bill.Update(req.Supplier, req.Description, req.Amount, req.DueDate); err != nil {
		return nil, err
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	resp := s.toResponse(bill)
	return &resp, nil
}

// DeleteBill removes a bill that was never paid
func (s *BillService) DeleteBill(ctx context.Context, churchID, id uuid.UUID) error {
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return err
	}
	if bill.Status == finance.BillStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid bills cannot be deleted")
	}
	return s.billRepo.Delete(ctx, churchID, id)
}

// PayBill settles the bill: the bill, the debited bank account and the expense
// row are written in one transaction
func (s *BillService) PayBill(ctx context.Context, churchID, id uuid.UUID, req PayBillRequest) (*BillResponse, error) {
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	var bill *finance.BillToPay
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, err = repos.Bills().FindByID(ctx, churchID, id)
		if err != nil {
			return err
		}
		account, err := repos.BankAccounts().FindByID(ctx, churchID, req.BankAccountID)
		if err != nil {
			return err
		}
		entry, err := bill.Pay(account, paidAt)
		if err != nil {
			return err
		}
		if err := repos.BankAccounts().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.FinancialEntries().Save(ctx, entry); err != nil {
			return err
		}
		return repos.Bills().Save(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	events := bill.GetDomainEvents()
	bill.ClearDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to publish bill events", zap.String("bill_id", bill.ID.String()), zap.Error(err))
		}
	}

	resp := s.toResponse(bill)
	return &resp, nil
}

// CancelBill cancels a pending bill
func (s *BillService) CancelBill(ctx context.Context, churchID, id uuid.UUID, req CancelBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := bill.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	resp := s.toResponse(bill)
	return &resp, nil
}

// ReceiptUploadURL returns a presigned URL for uploading a receipt and records
// the key on the bill
func (s *BillService) ReceiptUploadURL(ctx context.Context, churchID, id uuid.UUID, req ReceiptUploadRequest) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File uploads are not configured")
	}
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(churchID, storage.KindBillReceipt, req.Filename)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Receipts must be PDF or image files")
	}
	url, expires, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}
	bill.AttachReceipt(key)
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	return &UploadURLResponse{Key: key, URL: url, ExpiresAt: expires}, nil
}

// ReceiptDownloadURL returns a presigned URL for the bill's receipt
func (s *BillService) ReceiptDownloadURL(ctx context.Context, churchID, id uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", shared.NewDomainError("STORAGE_UNAVAILABLE", "File uploads are not configured")
	}
	bill, err := s.billRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return "", err
	}
	if bill.ReceiptKey == "" {
		return "", shared.NewDomainError("NOT_FOUND", "Bill has no receipt")
	}
	url, _, err := s.storage.PresignDownload(ctx, bill.ReceiptKey)
	return url, err
}
