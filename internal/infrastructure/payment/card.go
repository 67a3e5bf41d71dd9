package payment

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/store"
)

// Sandbox test cards. Any other Luhn-valid, unexpired card is approved.
const (
	TestCardInsufficientFunds = "4000000000000002"
	TestCardStolen            = "4000000000009979"
)

// Decline reasons reported by the sandbox
const (
	DeclineInvalidNumber     = "invalid_card_number"
	DeclineExpired           = "expired_card"
	DeclineInsufficientFunds = "insufficient_funds"
	DeclineStolen            = "stolen_card"
	DeclineInvalidCVV        = "invalid_cvv"
)

// evaluateCard applies the sandbox card rule and returns a decline reason
// ("" when approved)
func evaluateCard(card *store.CardInfo, now time.Time) string {
	number := digitsOnly(card.Number)
	if len(number) < 13 || len(number) > 19 || !luhnValid(number) {
		return DeclineInvalidNumber
	}
	if cvv := digitsOnly(card.CVV); len(cvv) < 3 || len(cvv) > 4 {
		return DeclineInvalidCVV
	}
	if cardExpired(card.ExpiryMonth, card.ExpiryYear, now) {
		return DeclineExpired
	}
	switch number {
	case TestCardInsufficientFunds:
		return DeclineInsufficientFunds
	case TestCardStolen:
		return DeclineStolen
	}
	return ""
}

// luhnValid checks the mod-10 card checksum
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// cardExpired treats a card as valid through the last day of its expiry month
func cardExpired(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return true
	}
	if year < 100 {
		year += 2000
	}
	firstInvalid := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return !now.Before(firstInvalid)
}

func lastFour(number string) string {
	n := digitsOnly(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
