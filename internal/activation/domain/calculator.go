package domain

import (
	"errors"

	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
)

var (
	ErrInvalidSeatCount = errors.New("invalid_seat_count")
	ErrInvalidTaxRate   = errors.New("invalid_tax_rate")
)

// Quote is the money breakdown for one activation. All amounts are integer
// minor units of Currency; the tax rate is carried in basis points.
type Quote struct {
	SetupOrReactivationFee int64  `json:"setup_or_reactivation_fee"`
	SeatTotal              int64  `json:"seat_total"`
	Subtotal               int64  `json:"subtotal"`
	TaxRateBps             int64  `json:"tax_rate_bps"`
	TaxAmount              int64  `json:"tax_amount"`
	Total                  int64  `json:"total"`
	Currency               string `json:"currency"`
}

// ComputeQuote prices an activation. Renewals are charged the reactivation
// fee in place of the setup fee. Invariants: Subtotal is the fee plus the
// seat total, Total is the subtotal plus tax, and a zero rate yields
// Total == Subtotal exactly.
func ComputeQuote(isRenewal bool, seatCount int, pricing pricingdomain.EffectivePricing, taxRateBps int64) (Quote, error) {
	if seatCount < 1 {
		return Quote{}, ErrInvalidSeatCount
	}
	if taxRateBps < 0 {
		return Quote{}, ErrInvalidTaxRate
	}

	fee := pricing.SetupFee
	if isRenewal {
		fee = pricing.ReactivationFee
	}

	seatTotal := int64(seatCount) * pricing.SeatFee
	subtotal := fee + seatTotal
	taxAmount := roundHalfUp(subtotal*taxRateBps, 10_000)

	return Quote{
		SetupOrReactivationFee: fee,
		SeatTotal:              seatTotal,
		Subtotal:               subtotal,
		TaxRateBps:             taxRateBps,
		TaxAmount:              taxAmount,
		Total:                  subtotal + taxAmount,
		Currency:               pricing.Currency,
	}, nil
}

// roundHalfUp divides non-negative numerator by divisor rounding half up on
// the minor unit.
func roundHalfUp(numerator, divisor int64) int64 {
	return (numerator + divisor/2) / divisor
}
