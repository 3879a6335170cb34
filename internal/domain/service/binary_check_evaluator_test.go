package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julofinance/credit-engine/internal/domain/service"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

func TestBinaryCheckEvaluator_FirstFailedFollowsCanonicalOrder(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := valueobject.NewCheckSet(
		valueobject.CheckJobNotBlacklisted,
		valueobject.CheckDOB,
	)

	// application_date_of_birth precedes job_not_black_listed in the
	// canonical short list, so it wins regardless of insertion order.
	first := evaluator.FirstFailedCheck(failed, false)
	assert.Equal(t, valueobject.CheckDOB, first)
}

func TestBinaryCheckEvaluator_ShortListBeforeLongList(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := valueobject.NewCheckSet(
		valueobject.CheckBasicSavings,
		valueobject.CheckSpecialEvent,
	)

	assert.Equal(t, valueobject.CheckSpecialEvent, evaluator.FirstFailedCheck(failed, false))
}

func TestBinaryCheckEvaluator_SpecialEventKillSwitch(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := valueobject.NewCheckSet(
		valueobject.CheckSpecialEvent,
		valueobject.CheckBasicSavings,
	)

	first := evaluator.FirstFailedCheck(failed, true)
	assert.Equal(t, valueobject.CheckBasicSavings, first)

	// Only special_event failed and the switch is on: the application is clean.
	onlySpecial := valueobject.NewCheckSet(valueobject.CheckSpecialEvent)
	assert.Empty(t, evaluator.FirstFailedCheck(onlySpecial, true))
}

func TestBinaryCheckEvaluator_NoFailures(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()
	assert.Empty(t, evaluator.FirstFailedCheck(valueobject.NewCheckSet(), false))
}

func TestBinaryCheckEvaluator_PartnerBypassSubtraction(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := evaluator.EffectiveFailures(service.BinaryCheckInput{
		FailedChecks: valueobject.NewCheckSet(
			valueobject.CheckFraudDevice,
			valueobject.CheckMonthlyIncome,
		),
		BypassChecks: valueobject.NewCheckSet(valueobject.CheckMonthlyIncome),
	})

	assert.True(t, failed.Contains(valueobject.CheckFraudDevice))
	assert.False(t, failed.Contains(valueobject.CheckMonthlyIncome))
}

func TestBinaryCheckEvaluator_GoodPaymentBypassRemovesFraudDeviceChecks(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := evaluator.EffectiveFailures(service.BinaryCheckInput{
		FailedChecks: valueobject.NewCheckSet(
			valueobject.CheckFraudFormPartialDevice,
			valueobject.CheckFraudDevice,
			valueobject.CheckFraudEmail,
		),
		BypassFraudDevice: true,
	})

	assert.False(t, failed.Contains(valueobject.CheckFraudFormPartialDevice))
	assert.False(t, failed.Contains(valueobject.CheckFraudDevice))
	assert.True(t, failed.Contains(valueobject.CheckFraudEmail))
}

func TestBinaryCheckEvaluator_OwnPhoneExperimentBypass(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	failed := evaluator.EffectiveFailures(service.BinaryCheckInput{
		FailedChecks:   valueobject.NewCheckSet(valueobject.CheckOwnPhone),
		BypassOwnPhone: true,
	})

	assert.Empty(t, evaluator.FirstFailedCheck(failed, false))
}

func TestBinaryCheckEvaluator_InputSetNotMutated(t *testing.T) {
	evaluator := service.NewBinaryCheckEvaluator()

	original := valueobject.NewCheckSet(valueobject.CheckFraudDevice)
	evaluator.EffectiveFailures(service.BinaryCheckInput{
		FailedChecks:      original,
		BypassFraudDevice: true,
	})

	assert.True(t, original.Contains(valueobject.CheckFraudDevice))
}

func TestRequiresPIIScrub(t *testing.T) {
	assert.True(t, service.RequiresPIIScrub(valueobject.CheckFraudEmail))
	assert.True(t, service.RequiresPIIScrub(valueobject.CheckFraudKTP))
	assert.False(t, service.RequiresPIIScrub(valueobject.CheckFraudDevice))
	assert.False(t, service.RequiresPIIScrub(""))
}
