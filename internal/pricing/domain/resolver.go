package domain

import coursedomain "github.com/opencourse/aktiva/internal/course/domain"

// DefaultCurrency applies when a course has no pricing row.
const DefaultCurrency = "USD"

// ResolveEffective merges the three pricing tiers into an EffectivePricing.
// Precedence per fee field, independently: course-scoped company override,
// then company-wide override, then the course default, then zero. Currency is
// taken only from the course default; overrides carry no currency by design.
// Any tier may be nil.
func ResolveEffective(def *coursedomain.CoursePricing, companyWide, courseScoped *CompanyPricingOverride) EffectivePricing {
	var defSetup, defReactivation, defSeat *int64
	currency := DefaultCurrency
	if def != nil {
		defSetup = &def.SetupFee
		defReactivation = &def.ReactivationFee
		defSeat = &def.SeatFee
		if def.Currency != "" {
			currency = def.Currency
		}
	}

	var wideSetup, wideReactivation, wideSeat *int64
	if companyWide != nil {
		wideSetup = companyWide.SetupFeeOverride
		wideReactivation = companyWide.ReactivationFeeOverride
		wideSeat = companyWide.SeatFeeOverride
	}

	var scopedSetup, scopedReactivation, scopedSeat *int64
	if courseScoped != nil {
		scopedSetup = courseScoped.SetupFeeOverride
		scopedReactivation = courseScoped.ReactivationFeeOverride
		scopedSeat = courseScoped.SeatFeeOverride
	}

	return EffectivePricing{
		SetupFee:        coalesce(scopedSetup, wideSetup, defSetup),
		ReactivationFee: coalesce(scopedReactivation, wideReactivation, defReactivation),
		SeatFee:         coalesce(scopedSeat, wideSeat, defSeat),
		Currency:        currency,
	}
}

func coalesce(values ...*int64) int64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
