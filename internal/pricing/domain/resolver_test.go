package domain

import (
	"testing"

	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	"github.com/stretchr/testify/assert"
)

func i64(v int64) *int64 { return &v }

func courseDefault() *coursedomain.CoursePricing {
	return &coursedomain.CoursePricing{
		SetupFee:        50000,
		ReactivationFee: 25000,
		SeatFee:         1000,
		Currency:        "EUR",
	}
}

func TestResolveEffective_NoOverrides(t *testing.T) {
	got := ResolveEffective(courseDefault(), nil, nil)

	assert.Equal(t, EffectivePricing{
		SetupFee:        50000,
		ReactivationFee: 25000,
		SeatFee:         1000,
		Currency:        "EUR",
	}, got)
}

func TestResolveEffective_AllTiersAbsent(t *testing.T) {
	got := ResolveEffective(nil, nil, nil)

	assert.Equal(t, EffectivePricing{Currency: DefaultCurrency}, got)
}

func TestResolveEffective_CourseScopedWinsOverEverything(t *testing.T) {
	companyWide := &CompanyPricingOverride{
		SetupFeeOverride: i64(40000),
		SeatFeeOverride:  i64(900),
	}
	courseScoped := &CompanyPricingOverride{
		SetupFeeOverride: i64(30000),
		SeatFeeOverride:  i64(800),
	}

	got := ResolveEffective(courseDefault(), companyWide, courseScoped)

	assert.Equal(t, int64(30000), got.SetupFee)
	assert.Equal(t, int64(800), got.SeatFee)
	// Field not set at either override tier falls through to the default.
	assert.Equal(t, int64(25000), got.ReactivationFee)
}

func TestResolveEffective_FieldsFallThroughIndependently(t *testing.T) {
	// A company-wide override touching only the seat fee must leave setup and
	// reactivation resolving from the course default, not from zero.
	companyWide := &CompanyPricingOverride{SeatFeeOverride: i64(800)}

	got := ResolveEffective(courseDefault(), companyWide, nil)

	assert.Equal(t, EffectivePricing{
		SetupFee:        50000,
		ReactivationFee: 25000,
		SeatFee:         800,
		Currency:        "EUR",
	}, got)
}

func TestResolveEffective_ScopedGapFallsToCompanyWide(t *testing.T) {
	companyWide := &CompanyPricingOverride{ReactivationFeeOverride: i64(20000)}
	courseScoped := &CompanyPricingOverride{SeatFeeOverride: i64(700)}

	got := ResolveEffective(courseDefault(), companyWide, courseScoped)

	assert.Equal(t, int64(50000), got.SetupFee)
	assert.Equal(t, int64(20000), got.ReactivationFee)
	assert.Equal(t, int64(700), got.SeatFee)
}

func TestResolveEffective_ZeroOverrideIsAnOverride(t *testing.T) {
	// An explicit zero differs from an absent field.
	companyWide := &CompanyPricingOverride{SetupFeeOverride: i64(0)}

	got := ResolveEffective(courseDefault(), companyWide, nil)

	assert.Equal(t, int64(0), got.SetupFee)
	assert.Equal(t, int64(25000), got.ReactivationFee)
}

func TestResolveEffective_CurrencyComesOnlyFromCourseDefault(t *testing.T) {
	// Overrides carry no currency; without a course pricing row the currency
	// falls back to the default even when overrides set every fee.
	courseScoped := &CompanyPricingOverride{
		SetupFeeOverride:        i64(100),
		ReactivationFeeOverride: i64(100),
		SeatFeeOverride:         i64(100),
	}

	got := ResolveEffective(nil, nil, courseScoped)

	assert.Equal(t, DefaultCurrency, got.Currency)
	assert.Equal(t, int64(100), got.SetupFee)
}
