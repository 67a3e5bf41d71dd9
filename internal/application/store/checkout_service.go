package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/notification"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	confirmationTimeout = 30 * time.Second
	// orderNumberAttempts bounds how often a charged order moves to a fresh
	// number after a concurrent checkout took its own
	orderNumberAttempts = 5
)

// CheckoutService turns carts into orders and runs the order lifecycle
type CheckoutService struct {
	productRepo store.ProductRepository
	cartRepo    store.CartRepository
	orderRepo   store.OrderRepository
	gateway     store.PaymentGateway
	shipping    *store.ShippingCalculator
	txScope     TransactionScope
	events      shared.EventPublisher
	sender      notification.Sender
	metrics     *telemetry.AppMetrics
	logger      *zap.Logger
	now         func() time.Time
	// dispatch runs the confirmation mail off the request path
	dispatch func(func())
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	productRepo store.ProductRepository,
	cartRepo store.CartRepository,
	orderRepo store.OrderRepository,
	gateway store.PaymentGateway,
	shipping *store.ShippingCalculator,
	txScope TransactionScope,
	events shared.EventPublisher,
	sender notification.Sender,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		shipping:    shipping,
		txScope:     txScope,
		events:      events,
		sender:      sender,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		dispatch:    func(fn func()) { go fn() },
	}
}

// Checkout places an order from the buyer's cart.
//
// The cart is validated against current stock, shipping is quoted and the
// order is charged. Only when the gateway accepts the charge are the stock
// decrement, the order insert and the cart clear written, in one transaction.
func (s *CheckoutService) Checkout(ctx context.Context, buyer Buyer, req CheckoutRequest) (_ *CheckoutResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "store", "checkout", telemetry.ChurchAttr(buyer.ChurchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()
	log := logger.WithLogger(ctx, s.logger)

	cart, err := loadCart(ctx, s.cartRepo, buyer)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}
	if err := s.checkStock(ctx, cart); err != nil {
		return nil, err
	}

	address := req.Address.toDomain()
	address.Normalize()
	if err := address.Validate(); err != nil {
		return nil, err
	}
	quote, err := s.shipping.Quote(cart.TotalWeightGrams(), address.State, cart.Subtotal())
	if err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.nextOrderSeq(ctx, now)
	if err != nil {
		return nil, err
	}
	order, err := store.NewOrder(cart, store.FormatOrderNumber(now, seq), buyer.Email, quote, store.PaymentMethod(req.PaymentMethod), address)
	if err != nil {
		return nil, err
	}

	result, err := s.charge(ctx, order, req)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyPayment(result, now); err != nil {
		return nil, err
	}

	if err := s.persistOrder(ctx, order, cart, now, seq); err != nil {
		log.Error("Order charged but not recorded",
			zap.String("order_number", order.Number),
			zap.String("transaction_id", order.TransactionID),
			zap.Error(err))
		return nil, err
	}

	s.metrics.OrderPlaced(ctx, string(order.PaymentMethod), order.Total.InexactFloat64())
	log.Info("Order placed",
		zap.String("order_number", order.Number),
		zap.String("status", string(order.Status)),
		zap.String("total", order.Total.StringFixed(2)))
	s.afterPaid(ctx, order)

	return &CheckoutResponse{Order: ToOrderResponse(order), Payment: *result}, nil
}

// checkStock fails when a product left the catalog or no longer has the units in the cart
func (s *CheckoutService) checkStock(ctx context.Context, cart *store.Cart) error {
	ids := make([]uuid.UUID, len(cart.Lines))
	for i, l := range cart.Lines {
		ids[i] = l.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*store.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, l := range cart.Lines {
		p, ok := byID[l.ProductID]
		if !ok || !p.Active {
			return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+l.SKU+" is no longer available")
		}
		if !p.IsPurchasable(l.Quantity) {
			return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock of "+l.SKU)
		}
	}
	return nil
}

func (s *CheckoutService) nextOrderSeq(ctx context.Context, at time.Time) (int, error) {
	count, err := s.orderRepo.CountByNumberPrefix(ctx, store.OrderNumberPrefix(at))
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// persistOrder writes the stock decrement, the order and the cleared cart in
// one transaction. The order number is unique, so when a concurrent checkout
// stored the same number first the order takes the next free one and the
// transaction runs again.
func (s *CheckoutService) persistOrder(ctx context.Context, order *store.Order, cart *store.Cart, at time.Time, seq int) error {
	for attempt := 1; ; attempt++ {
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			for _, line := range order.Lines {
				if err := repos.Products().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
			if err := repos.Orders().Save(ctx, order); err != nil {
				return err
			}
			cart.Clear()
			return repos.Carts().Save(ctx, cart)
		})
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == orderNumberAttempts {
			return err
		}

		next, countErr := s.nextOrderSeq(ctx, at)
		if countErr != nil {
			return countErr
		}
		seq = max(seq+1, next)
		logger.WithLogger(ctx, s.logger).Warn("Order number taken, renumbering",
			zap.String("order_number", order.Number),
			zap.String("next_number", store.FormatOrderNumber(at, seq)))
		order.Renumber(store.FormatOrderNumber(at, seq))
	}
}

func (s *CheckoutService) charge(ctx context.Context, order *store.Order, req CheckoutRequest) (*store.PaymentResult, error) {
	payReq := store.PaymentRequest{
		ChurchID:      order.ChurchID,
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		Amount:        order.Total,
		Method:        order.PaymentMethod,
		Description:   "Pedido " + order.Number,
		PayerName:     req.PayerName,
		PayerEmail:    order.BuyerEmail,
		PayerDocument: req.PayerDocument,
	}
	if req.Card != nil {
		payReq.Card = &store.CardInfo{
			Number:       req.Card.Number,
			HolderName:   req.Card.HolderName,
			ExpiryMonth:  req.Card.ExpiryMonth,
			ExpiryYear:   req.Card.ExpiryYear,
			CVV:          req.Card.CVV,
			Installments: req.Card.Installments,
		}
	}
	if err := payReq.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", err.Error())
	}

	result, err := s.gateway.Charge(ctx, payReq)
	if err != nil {
		if errors.Is(err, store.ErrPaymentCardRequired) || errors.Is(err, store.ErrPaymentInvalidMethod) {
			return nil, shared.NewDomainError("INVALID_PAYMENT", err.Error())
		}
		return nil, fmt.Errorf("charging order %s: %w", order.Number, err)
	}
	s.metrics.PaymentCharged(ctx, string(result.Method), string(result.Status))
	if result.Status == store.PaymentStatusDeclined {
		msg := "Payment declined"
		if result.DeclineReason != "" {
			msg += ": " + result.DeclineReason
		}
		return nil, shared.NewDomainError("PAYMENT_DECLINED", msg)
	}
	return result, nil
}

// ConfirmPayment marks a PIX or boleto order as paid once the money arrives
func (s *CheckoutService) ConfirmPayment(ctx context.Context, churchID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, churchID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkPaid(s.now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.afterPaid(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// afterPaid publishes OrderPaid and mails the buyer when the order was just paid
func (s *CheckoutService) afterPaid(ctx context.Context, order *store.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to publish order events", zap.Error(err))
		}
	}
	s.sendConfirmation(ctx, order)
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, order *store.Order) {
	if s.sender == nil {
		return
	}
	msg, err := notification.OrderConfirmation(order)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to render order confirmation", zap.Error(err))
		return
	}
	mailCtx := context.WithoutCancel(ctx)
	number := order.Number
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(mailCtx, confirmationTimeout)
		defer cancel()
		if err := s.sender.Send(ctx, msg); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to send order confirmation",
				zap.String("order_number", number), zap.Error(err))
		}
	})
}

// GetOrder returns an order. Buyers only see their own orders.
func (s *CheckoutService) GetOrder(ctx context.Context, buyer Buyer, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, buyer.ChurchID, id)
	if err != nil {
		return nil, err
	}
	if !buyer.IsAdmin && order.UserID != buyer.UserID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders lists the church's orders, newest first. Non-admins see their own.
func (s *CheckoutService) ListOrders(ctx context.Context, buyer Buyer, q OrderListQuery) ([]OrderResponse, int64, error) {
	filter := store.OrderFilter{Filter: shared.DefaultFilter(), Status: store.OrderStatus(q.Status)}
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if !buyer.IsAdmin {
		uid := buyer.UserID
		filter.UserID = &uid
	}
	orders, total, err := s.orderRepo.FindAll(ctx, buyer.ChurchID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ShipOrder records the dispatch of a paid order
func (s *CheckoutService) ShipOrder(ctx context.Context, churchID, id uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Ship(req.TrackingCode, s.now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// CancelOrder cancels an order that has not shipped and returns its units to stock
func (s *CheckoutService) CancelOrder(ctx context.Context, churchID, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range order.Lines {
			product, err := repos.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			product.Release(line.Quantity)
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}
