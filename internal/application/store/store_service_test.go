package store

import (
	"context"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/notification"
	"github.com/ecclesia/backend/internal/infrastructure/payment"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var checkoutNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	products *MockProductRepository
	carts    *MockCartRepository
	orders   *MockOrderRepository
	events   *MockEventPublisher
	sender   *notification.LogSender
	buyer    Buyer
}

func newFixture() *fixture {
	return &fixture{
		products: new(MockProductRepository),
		carts:    new(MockCartRepository),
		orders:   new(MockOrderRepository),
		events:   new(MockEventPublisher),
		sender:   notification.NewLogSender(zap.NewNop()),
		buyer:    Buyer{ChurchID: uuid.New(), UserID: uuid.New(), Email: "ana@igreja.org"},
	}
}

func (f *fixture) calculator() *store.ShippingCalculator {
	return store.NewShippingCalculator("SP", decimal.NewFromInt(200))
}

func (f *fixture) checkout(t *testing.T) *CheckoutService {
	t.Helper()
	gateway, err := payment.NewSandboxGateway(&payment.SandboxConfig{
		PixKey:       "financeiro@editora.org",
		MerchantName: "Editora Ecclesia",
		MerchantCity: "Sao Paulo",
	}, zap.NewNop(), payment.WithClock(func() time.Time { return checkoutNow }))
	require.NoError(t, err)

	svc := NewCheckoutService(f.products, f.carts, f.orders, gateway, f.calculator(),
		&inlineScope{products: f.products, carts: f.carts, orders: f.orders},
		f.events, f.sender, telemetry.NoopAppMetrics(), zap.NewNop())
	svc.now = func() time.Time { return checkoutNow }
	svc.dispatch = func(fn func()) { fn() }
	return svc
}

func magazine(t *testing.T, stock int) *store.Product {
	t.Helper()
	p, err := store.NewProduct("REV-ADULTOS-T1", "Revista Adultos 1º Trimestre", decimal.NewFromInt(25), 300)
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.Restock(stock))
	}
	return p
}

func (f *fixture) cartWith(t *testing.T, p *store.Product, qty int) *store.Cart {
	t.Helper()
	cart := store.NewCart(f.buyer.ChurchID, f.buyer.UserID)
	require.NoError(t, cart.Add(p, qty))
	f.carts.On("FindByUser", mock.Anything, f.buyer.ChurchID, f.buyer.UserID).Return(cart, nil)
	return cart
}

func address() AddressDTO {
	return AddressDTO{
		RecipientName: "Ana Souza",
		PostalCode:    "01310-100",
		Street:        "Av. Paulista",
		Number:        "1000",
		City:          "São Paulo",
		State:         "sp",
	}
}

func approvedCard() *CardDTO {
	return &CardDTO{Number: "4111 1111 1111 1111", HolderName: "ANA SOUZA", ExpiryMonth: 12, ExpiryYear: 2030, CVV: "123"}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCheckout_CardApproved(t *testing.T) {
	f := newFixture()
	product := magazine(t, 10)
	cart := f.cartWith(t, product, 2)

	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]store.Product{*product}, nil)
	f.orders.On("CountByNumberPrefix", mock.Anything, "PED-202503-").Return(int64(41), nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 2).Return(nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*store.Order")).Return(nil)
	f.carts.On("Save", mock.Anything, cart).Return(nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(es []shared.DomainEvent) bool {
		return len(es) == 1 && es[0].EventType() == store.EventTypeOrderPaid
	})).Return(nil)

	resp, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{
		PaymentMethod: "credit_card",
		Address:       address(),
		Card:          approvedCard(),
	})
	require.NoError(t, err)

	assert.Equal(t, "PED-202503-00042", resp.Order.Number)
	assert.Equal(t, "paid", resp.Order.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Order.Subtotal))
	// local band: 12 + 2.50 x 1 kg
	assert.True(t, decimal.RequireFromString("14.50").Equal(resp.Order.Shipping))
	assert.True(t, decimal.RequireFromString("64.50").Equal(resp.Order.Total))
	assert.Equal(t, "01310100", resp.Order.Address.PostalCode)
	assert.Equal(t, "SP", resp.Order.Address.State)
	assert.Equal(t, "1111", resp.Payment.CardLast4)
	assert.True(t, cart.IsEmpty())

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Pedido PED-202503-00042 confirmado", sent[0].Subject)
	assert.Equal(t, "ana@igreja.org", sent[0].To[0].Address)
	f.events.AssertExpectations(t)
	f.products.AssertExpectations(t)
}

func TestCheckout_TakenNumberMovesToNext(t *testing.T) {
	f := newFixture()
	product := magazine(t, 10)
	cart := f.cartWith(t, product, 1)
	numbered := func(n string) any {
		return mock.MatchedBy(func(o *store.Order) bool { return o.Number == n })
	}

	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]store.Product{*product}, nil)
	f.orders.On("CountByNumberPrefix", mock.Anything, "PED-202503-").Return(int64(41), nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 1).Return(nil)
	f.orders.On("Save", mock.Anything, numbered("PED-202503-00042")).Return(shared.ErrAlreadyExists).Once()
	f.orders.On("Save", mock.Anything, numbered("PED-202503-00043")).Return(nil).Once()
	f.carts.On("Save", mock.Anything, cart).Return(nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(es []shared.DomainEvent) bool {
		if len(es) != 1 {
			return false
		}
		paid, ok := es[0].(*store.OrderPaidEvent)
		return ok && paid.OrderNumber == "PED-202503-00043"
	})).Return(nil)

	resp, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{
		PaymentMethod: "credit_card",
		Address:       address(),
		Card:          approvedCard(),
	})
	require.NoError(t, err)

	assert.Equal(t, "PED-202503-00043", resp.Order.Number)
	assert.Equal(t, "paid", resp.Order.Status)
	assert.True(t, cart.IsEmpty())
	f.orders.AssertNumberOfCalls(t, "Save", 2)
	f.events.AssertExpectations(t)

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 10)
		f.cartWith(t, product, 1)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.products.On("DecrementStock", mock.Anything, product.ID, 1).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{
			PaymentMethod: "credit_card", Address: address(), Card: approvedCard(),
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.orders.AssertNumberOfCalls(t, "Save", orderNumberAttempts)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestCheckout_PixStaysPending(t *testing.T) {
	f := newFixture()
	product := magazine(t, 10)
	f.cartWith(t, product, 1)

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
	f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 1).Return(nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "pix", Address: address()})
	require.NoError(t, err)

	assert.Equal(t, "PED-202503-00001", resp.Order.Number)
	assert.Equal(t, "pending_payment", resp.Order.Status)
	assert.NotEmpty(t, resp.Order.PaymentCode)
	assert.True(t, payment.ValidPixPayload(resp.Payment.PixPayload))
	require.NotNil(t, resp.Order.PaymentDueAt)
	assert.Equal(t, checkoutNow.Add(30*time.Minute), *resp.Order.PaymentDueAt)
	assert.Empty(t, f.sender.Sent())
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCheckout_FreeShippingAboveThreshold(t *testing.T) {
	f := newFixture()
	product := magazine(t, 20)
	f.cartWith(t, product, 9)

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
	f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 9).Return(nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "boleto", Address: address()})
	require.NoError(t, err)
	assert.True(t, resp.Order.Shipping.IsZero())
	assert.True(t, decimal.NewFromInt(225).Equal(resp.Order.Total))
	assert.Len(t, resp.Payment.BoletoLine, 54)

	t.Run("a subtotal equal to the threshold pays shipping", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 20)
		f.cartWith(t, product, 8)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.products.On("DecrementStock", mock.Anything, product.ID, 8).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.carts.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "boleto", Address: address()})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(200).Equal(resp.Order.Subtotal))
		assert.True(t, resp.Order.Shipping.IsPositive())
	})
}

func TestCheckout_Rejections(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newFixture()
		f.carts.On("FindByUser", mock.Anything, f.buyer.ChurchID, f.buyer.UserID).Return(nil, shared.ErrNotFound)

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "pix", Address: address()})
		assert.Equal(t, "EMPTY_CART", codeOf(t, err))
	})

	t.Run("stock sold out since the item was added", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		f.cartWith(t, product, 3)
		current := *product
		current.Stock = 1
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{current}, nil)

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "pix", Address: address()})
		assert.Equal(t, "INSUFFICIENT_STOCK", codeOf(t, err))
	})

	t.Run("invalid destination", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		f.cartWith(t, product, 1)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		addr := address()
		addr.State = "XX"

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "pix", Address: addr})
		assert.Equal(t, "INVALID_STATE_CODE", codeOf(t, err))
	})

	t.Run("declined card writes nothing", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		f.cartWith(t, product, 1)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
		card := approvedCard()
		card.Number = payment.TestCardInsufficientFunds

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "credit_card", Address: address(), Card: card})
		assert.Equal(t, "PAYMENT_DECLINED", codeOf(t, err))
		assert.Contains(t, err.Error(), payment.DeclineInsufficientFunds)
		f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("card method without card data", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		f.cartWith(t, product, 1)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{PaymentMethod: "credit_card", Address: address()})
		assert.Equal(t, "INVALID_PAYMENT", codeOf(t, err))
	})

	t.Run("stock race inside the transaction", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		cart := f.cartWith(t, product, 2)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]store.Product{*product}, nil)
		f.orders.On("CountByNumberPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.products.On("DecrementStock", mock.Anything, product.ID, 2).Return(shared.ErrInsufficientStock)

		_, err := f.checkout(t).Checkout(context.Background(), f.buyer, CheckoutRequest{
			PaymentMethod: "credit_card", Address: address(), Card: approvedCard(),
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.False(t, cart.IsEmpty())
		assert.Empty(t, f.sender.Sent())
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func pendingOrder(t *testing.T, f *fixture, p *store.Product, qty int) *store.Order {
	t.Helper()
	cart := store.NewCart(f.buyer.ChurchID, f.buyer.UserID)
	require.NoError(t, cart.Add(p, qty))
	quote, err := f.calculator().Quote(cart.TotalWeightGrams(), "RJ", cart.Subtotal())
	require.NoError(t, err)
	o, err := store.NewOrder(cart, "PED-202503-00007", f.buyer.Email, quote, store.PaymentMethodPix, address().toDomain())
	require.NoError(t, err)
	return o
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t, f, magazine(t, 5), 1)
	f.orders.On("FindByID", mock.Anything, f.buyer.ChurchID, order.ID).Return(order, nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := f.checkout(t)
	resp, err := svc.ConfirmPayment(context.Background(), f.buyer.ChurchID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Len(t, f.sender.Sent(), 1)

	_, err = svc.ConfirmPayment(context.Background(), f.buyer.ChurchID, order.ID)
	assert.Equal(t, "INVALID_STATE", codeOf(t, err))
	f.events.AssertNumberOfCalls(t, "Publish", 1)
}

func TestShipAndCancel(t *testing.T) {
	t.Run("only paid orders ship", func(t *testing.T) {
		f := newFixture()
		order := pendingOrder(t, f, magazine(t, 5), 1)
		f.orders.On("FindByID", mock.Anything, f.buyer.ChurchID, order.ID).Return(order, nil)

		_, err := f.checkout(t).ShipOrder(context.Background(), f.buyer.ChurchID, order.ID, ShipOrderRequest{TrackingCode: "BR123"})
		assert.Equal(t, "INVALID_STATE", codeOf(t, err))
	})

	t.Run("cancel returns units to stock", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 5)
		order := pendingOrder(t, f, product, 3)
		f.orders.On("FindByID", mock.Anything, f.buyer.ChurchID, order.ID).Return(order, nil)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.products.On("Save", mock.Anything, product).Return(nil)
		f.orders.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.checkout(t).CancelOrder(context.Background(), f.buyer.ChurchID, order.ID, CancelOrderRequest{Reason: "duplicado"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "duplicado", resp.CancelReason)
		assert.Equal(t, 8, product.Stock)
	})
}

func TestOrders_Visibility(t *testing.T) {
	f := newFixture()
	order := pendingOrder(t, f, magazine(t, 5), 1)
	f.orders.On("FindByID", mock.Anything, f.buyer.ChurchID, order.ID).Return(order, nil)
	f.orders.On("FindAll", mock.Anything, f.buyer.ChurchID, mock.MatchedBy(func(fl store.OrderFilter) bool {
		return fl.UserID != nil && *fl.UserID == f.buyer.UserID
	})).Return([]store.Order{*order}, int64(1), nil)

	svc := f.checkout(t)
	list, total, err := svc.ListOrders(context.Background(), f.buyer, OrderListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	stranger := f.buyer
	stranger.UserID = uuid.New()
	_, err = svc.GetOrder(context.Background(), stranger, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stranger.IsAdmin = true
	_, err = svc.GetOrder(context.Background(), stranger, order.ID)
	assert.NoError(t, err)
}

func TestCartService(t *testing.T) {
	ctx := context.Background()

	t.Run("add merges quantities on a fresh cart", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 10)
		var saved *store.Cart
		f.carts.On("FindByUser", ctx, f.buyer.ChurchID, f.buyer.UserID).Return(nil, shared.ErrNotFound).Once()
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.carts.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*store.Cart)
		}).Return(nil)

		svc := NewCartService(f.products, f.carts, f.calculator())
		_, err := svc.AddItem(ctx, f.buyer, CartItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)

		f.carts.On("FindByUser", ctx, f.buyer.ChurchID, f.buyer.UserID).Return(saved, nil)
		resp, err := svc.AddItem(ctx, f.buyer, CartItemRequest{ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 5, resp.ItemCount)
		assert.Equal(t, 1500, resp.WeightGrams)
		assert.True(t, decimal.NewFromInt(125).Equal(resp.Subtotal))
	})

	t.Run("update beyond stock", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 4)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)

		svc := NewCartService(f.products, f.carts, f.calculator())
		_, err := svc.UpdateItem(ctx, f.buyer, product.ID, UpdateCartItemRequest{Quantity: 5})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 4)
		f.cartWith(t, product, 2)
		f.carts.On("Save", ctx, mock.Anything).Return(nil)

		svc := NewCartService(f.products, f.carts, f.calculator())
		resp, err := svc.UpdateItem(ctx, f.buyer, product.ID, UpdateCartItemRequest{Quantity: 0})
		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
	})

	t.Run("shipping quote by region", func(t *testing.T) {
		f := newFixture()
		product := magazine(t, 10)
		f.cartWith(t, product, 4)

		svc := NewCartService(f.products, f.carts, f.calculator())
		quote, err := svc.QuoteShipping(ctx, f.buyer, "BA")
		require.NoError(t, err)
		assert.Equal(t, store.RegionOther, quote.Region)
		// 1.2 kg rounds up to 2 kg: 25 + 6.50 x 2
		assert.True(t, decimal.NewFromInt(38).Equal(quote.Cost))
		assert.Equal(t, 10, quote.DeliveryDays)
	})
}

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	products.On("ExistsBySKU", ctx, "REV-JOVENS-T2").Return(false, nil).Once()
	products.On("Save", ctx, mock.Anything).Return(nil)

	svc := NewCatalogService(products, zap.NewNop())
	resp, err := svc.CreateProduct(ctx, ProductRequest{
		SKU: "rev-jovens-t2", Name: "Revista Jovens", Description: "2º trimestre", Price: decimal.RequireFromString("19.90"), WeightGrams: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, "REV-JOVENS-T2", resp.SKU)
	assert.Equal(t, "2º trimestre", resp.Description)
	assert.Equal(t, 0, resp.Stock)

	products.On("ExistsBySKU", ctx, "REV-JOVENS-T2").Return(true, nil)
	_, err = svc.CreateProduct(ctx, ProductRequest{SKU: "REV-JOVENS-T2", Name: "Outra", Price: decimal.NewFromInt(1)})
	assert.Equal(t, "SKU_IN_USE", codeOf(t, err))
}

func TestSalesService_OpenLead(t *testing.T) {
	ctx := context.Background()
	sales := new(MockSalesRepository)
	sales.On("ExistsOpenLead", ctx, "pastor@antiga.org").Return(true, nil)

	_, err := NewSalesService(sales).OpenLead(ctx, LeadRequest{Email: "Pastor@Antiga.org"})
	assert.Equal(t, "LEAD_EXISTS", codeOf(t, err))
	sales.AssertNotCalled(t, "SaveLead", mock.Anything, mock.Anything)
}
