package store

import (
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShippingRegion is the price band of a destination
type ShippingRegion string

const (
	RegionLocal     ShippingRegion = "local"
	RegionSouthEast ShippingRegion = "south_southeast"
	RegionOther     ShippingRegion = "other"
)

var brazilianStates = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
}

var southSouthEast = map[string]bool{
	"SP": true, "RJ": true, "MG": true, "ES": true, "PR": true, "SC": true, "RS": true,
}

// IsValidState checks a two-letter Brazilian state code
func IsValidState(uf string) bool {
	return brazilianStates[strings.ToUpper(strings.TrimSpace(uf))]
}

// ShippingRate prices one region band
type ShippingRate struct {
	Base         decimal.Decimal
	PerKg        decimal.Decimal
	DeliveryDays int
}

// ShippingQuote is the result of a shipping calculation
type ShippingQuote struct {
	Region       ShippingRegion  `json:"region"`
	Cost         decimal.Decimal `json:"cost"`
	DeliveryDays int             `json:"delivery_days"`
	Free         bool            `json:"free"`
	WeightGrams  int             `json:"weight_grams"`
}

// ShippingCalculator quotes shipping from total weight and destination state
type ShippingCalculator struct {
	OriginState string
	// FreeAbove waives shipping for subtotals strictly greater than it; zero disables it
	FreeAbove   decimal.Decimal
	Rates       map[ShippingRegion]ShippingRate
}

// DefaultShippingRates is used when no rates are configured
func DefaultShippingRates() map[ShippingRegion]ShippingRate {
	return map[ShippingRegion]ShippingRate{
		RegionLocal:     {Base: decimal.NewFromInt(12), PerKg: decimal.NewFromFloat(2.5), DeliveryDays: 3},
		RegionSouthEast: {Base: decimal.NewFromInt(18), PerKg: decimal.NewFromFloat(4), DeliveryDays: 6},
		RegionOther:     {Base: decimal.NewFromInt(25), PerKg: decimal.NewFromFloat(6.5), DeliveryDays: 10},
	}
}

// NewShippingCalculator creates a calculator. A zero freeAbove disables free shipping.
func NewShippingCalculator(originState string, freeAbove decimal.Decimal) *ShippingCalculator {
	return &ShippingCalculator{
		OriginState: strings.ToUpper(strings.TrimSpace(originState)),
		FreeAbove:   freeAbove,
		Rates:       DefaultShippingRates(),
	}
}

// RegionOf classifies the destination relative to the origin
func (c *ShippingCalculator) RegionOf(state string) ShippingRegion {
	state = strings.ToUpper(strings.TrimSpace(state))
	switch {
	case state == c.OriginState:
		return RegionLocal
	case southSouthEast[state]:
		return RegionSouthEast
	default:
		return RegionOther
	}
}

// Quote computes base + perKg × ceil(kg); orders above the free threshold ship free
func (c *ShippingCalculator) Quote(weightGrams int, state string, subtotal decimal.Decimal) (*ShippingQuote, error) {
	if !IsValidState(state) {
		return nil, shared.NewDomainError("INVALID_STATE_CODE", "Destination state is not a valid UF")
	}
	if weightGrams < 0 {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}

	region := c.RegionOf(state)
	rate, ok := c.Rates[region]
	if !ok {
		return nil, shared.NewDomainError("NO_SHIPPING_RATE", "No shipping rate for region")
	}

	quote := &ShippingQuote{
		Region:       region,
		DeliveryDays: rate.DeliveryDays,
		WeightGrams:  weightGrams,
	}
	if c.FreeAbove.IsPositive() && subtotal.GreaterThan(c.FreeAbove) {
		quote.Cost = decimal.Zero
		quote.Free = true
		return quote, nil
	}

	kg := (weightGrams + 999) / 1000
	if kg == 0 {
		kg = 1
	}
	quote.Cost = rate.Base.Add(rate.PerKg.Mul(decimal.NewFromInt(int64(kg)))).Round(2)
	return quote, nil
}
