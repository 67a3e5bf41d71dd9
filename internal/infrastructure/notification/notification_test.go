package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMessage() Message {
	return Message{
		To:      []mail.Address{{Name: "Ana", Address: "ana@example.com"}},
		Subject: "Olá",
		Text:    "corpo",
	}
}

func TestMessage_Validate(t *testing.T) {
	msg := testMessage()
	assert.NoError(t, msg.Validate())

	msg.To = nil
	assert.ErrorIs(t, msg.Validate(), ErrNoRecipients)

	msg = testMessage()
	msg.Text = "  "
	assert.ErrorIs(t, msg.Validate(), ErrNoContent)
}

func TestParseRecipients(t *testing.T) {
	got := ParseRecipients("ana@example.com", "", "not an address", "Bruno <bruno@example.com>")
	require.Len(t, got, 2)
	assert.Equal(t, "ana@example.com", got[0].Address)
	assert.Equal(t, "Bruno", got[1].Name)
}

func TestSendGridSender_Send(t *testing.T) {
	var gotAuth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("SG.key", "Ecclesia", "noreply@ecclesia.app", zap.NewNop(), WithSendGridHost(srv.URL))
	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "Bearer SG.key", gotAuth)
	from := body["from"].(map[string]any)
	assert.Equal(t, "noreply@ecclesia.app", from["email"])
	personalizations := body["personalizations"].([]any)
	require.Len(t, personalizations, 1)
	assert.Equal(t, "[Ecclesia] Olá", personalizations[0].(map[string]any)["subject"])
}

func TestSendGridSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewSendGridSender("bad", "Ecclesia", "noreply@ecclesia.app", zap.NewNop(), WithSendGridHost(srv.URL))
	err := s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridSender_InvalidMessageSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewSendGridSender("k", "Ecclesia", "noreply@ecclesia.app", zap.NewNop(), WithSendGridHost(srv.URL))
	err := s.Send(context.Background(), Message{Subject: "x", Text: "y"})
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.False(t, called)
}

func TestLogSender_RecordsMessages(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	require.NoError(t, s.Send(context.Background(), testMessage()))
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipients)

	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Olá", sent[0].Subject)
}

func TestNewSender(t *testing.T) {
	_, ok := NewSender(config.EmailConfig{}, zap.NewNop()).(*LogSender)
	assert.True(t, ok)

	_, ok = NewSender(config.EmailConfig{Enabled: true, APIKey: "k", FromName: "E", FromEmail: "e@x.com"}, zap.NewNop()).(*SendGridSender)
	assert.True(t, ok)
}

func TestOrderConfirmation(t *testing.T) {
	order := &store.Order{
		Number:     "PED-202507-00001",
		BuyerEmail: "ana@example.com",
		Lines: []store.OrderLine{
			{ProductID: uuid.New(), SKU: "REV-ADU-1", Name: "Revista Adultos", UnitPrice: decimal.NewFromInt(15), Quantity: 2},
		},
		Shipping:     decimal.NewFromInt(20),
		Total:        decimal.NewFromInt(50),
		DeliveryDays: 5,
		Address:      store.ShippingAddress{City: "Rio de Janeiro", State: "RJ"},
	}

	msg, err := OrderConfirmation(order)
	require.NoError(t, err)

	require.Len(t, msg.To, 1)
	assert.Equal(t, "ana@example.com", msg.To[0].Address)
	assert.Equal(t, "Pedido PED-202507-00001 confirmado", msg.Subject)
	assert.Contains(t, msg.HTML, "Revista Adultos")
	assert.Contains(t, msg.HTML, "R$ 30,00")
	assert.Contains(t, msg.HTML, "R$ 50,00")
	assert.Contains(t, msg.HTML, "Rio de Janeiro/RJ")
	assert.Contains(t, msg.Text, "2 x Revista Adultos: R$ 30,00")
}

func TestBillReminder(t *testing.T) {
	bills := []finance.BillToPay{
		{Supplier: "Enel", Description: "Energia", Amount: decimal.NewFromInt(320), DueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Supplier: "Sabesp", Description: "Água", Amount: decimal.NewFromInt(90), DueDate: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
	}
	to := ParseRecipients("tesouraria@igreja.org")

	msg, err := BillReminder("Igreja Central", to, bills)
	require.NoError(t, err)

	assert.Equal(t, "2 conta(s) vencendo", msg.Subject)
	assert.Contains(t, msg.HTML, "Igreja Central")
	assert.Contains(t, msg.HTML, "10/03/2025")
	assert.Contains(t, msg.HTML, "R$ 320,00")
	assert.Contains(t, msg.Text, "Sabesp")

	single, err := BillReminder("Igreja Central", to, bills[:1])
	require.NoError(t, err)
	assert.Equal(t, "1 conta vencendo", single.Subject)
}
