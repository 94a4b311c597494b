package earnings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/earnings"
)

func estimator(method earnings.NetMethod) earnings.NetEstimator {
	cfg := earnings.DefaultSettings().Net
	cfg.Method = method
	return earnings.NetEstimator{Config: cfg}
}

// =============================================================================
// PROGRESSIVE (IRPEF)
// =============================================================================

func TestNet_ProgressiveDeductionsCoverTax(t *testing.T) {
	// GIVEN: 1000/month (12,000/year), completely covered by deductions
	// WHEN: Estimating
	// THEN: IRPEF is floored at zero, only contributions remain

	r := estimator(earnings.NetProgressive).Estimate(dec("1000"))

	require.NotNil(t, r.Breakdown)
	assertDec(t, "2760", r.Breakdown.GrossTax)
	assertDec(t, "1955", r.Breakdown.PersonalDeduction)
	assert.True(t, r.Breakdown.IRPEF.IsZero())
	assertDec(t, "91.9", r.Breakdown.SocialContributions)
	assertDec(t, "23.3", r.Breakdown.AdditionalTaxes)
	assertDec(t, "884.8", r.Net)
	assertDec(t, "115.2", r.TotalDeductions)
}

func TestNet_ProgressiveAllBrackets(t *testing.T) {
	r := estimator(earnings.NetProgressive).Estimate(dec("5000"))

	require.NotNil(t, r.Breakdown)
	assertDec(t, "60000", r.Breakdown.AnnualGross)
	assertDec(t, "18440", r.Breakdown.GrossTax)
	assert.True(t, r.Breakdown.PersonalDeduction.IsZero())
	assertDec(t, "1380", r.Breakdown.IRPEF)
	assertDec(t, "3044", r.Net)
}

func TestNet_PersonalDeductionPhaseOut(t *testing.T) {
	assertDec(t, "1955", earnings.PersonalDeduction(dec("15000")))
	assertDec(t, "977.5", earnings.PersonalDeduction(dec("21500")))
	assertDec(t, "0", earnings.PersonalDeduction(dec("28000")))
}

// =============================================================================
// FLAT AND CALIBRATED
// =============================================================================

func TestNet_CustomIsPure(t *testing.T) {
	e := estimator(earnings.NetCustom)

	first := e.Estimate(dec("2000"))
	second := e.Estimate(dec("2000"))

	assertDec(t, "1500", first.Net)
	assertDec(t, "25", first.DeductionRate)
	assert.True(t, first.Net.Equal(second.Net))
	assert.Nil(t, first.Breakdown)
}

func TestNet_CalibratedNearReference(t *testing.T) {
	e := estimator(earnings.NetCalibrated)

	assertDec(t, "2122", e.Estimate(dec("2839.07")).Net)
	assertDec(t, "2122", e.Estimate(dec("2880")).Net)
}

func TestNet_CalibratedScales(t *testing.T) {
	e := estimator(earnings.NetCalibrated)
	r := e.Estimate(dec("2000"))

	want := dec("2000").Mul(dec("2122")).Div(dec("2839.07"))
	assert.True(t, want.Equal(r.Net), "got %s", r.Net)
	assert.Nil(t, r.Breakdown)
}

func TestNet_ZeroGross(t *testing.T) {
	r := estimator(earnings.NetProgressive).Estimate(dec("0"))
	assert.True(t, r.Net.IsZero())
	assert.True(t, r.DeductionRate.IsZero())
}

func TestNet_UnknownMethodDoesNotFallBack(t *testing.T) {
	r := estimator(earnings.NetMethod("flat")).Estimate(dec("1000"))
	assertDec(t, "1000", r.Net)
	assert.Nil(t, r.Breakdown)
	assert.True(t, r.TotalDeductions.IsZero())
}
