package service

import (
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// BinaryCheckEvaluator – ordered first-failure selection
// ---------------------------------------------------------------------------

// BinaryCheckInput carries everything one evaluation needs. Bypass flags are
// resolved by the caller before evaluation so the evaluator itself stays pure.
type BinaryCheckInput struct {
	FailedChecks valueobject.CheckSet
	BypassChecks valueobject.CheckSet

	// BypassFraudDevice bypasses the fraud-device checks for customers
	// with good payment histories.
	BypassFraudDevice bool

	// BypassOwnPhone bypasses the own_phone check (experiment flag).
	BypassOwnPhone bool

	// SkipSpecialEvent suppresses the special_event check even when it is
	// present in the failed set.
	SkipSpecialEvent bool
}

// BinaryCheckEvaluator walks an application's failed checks in the canonical
// global order and selects the first one not covered by a bypass.
type BinaryCheckEvaluator struct{}

// NewBinaryCheckEvaluator returns a new evaluator instance.
func NewBinaryCheckEvaluator() *BinaryCheckEvaluator {
	return &BinaryCheckEvaluator{}
}

// EffectiveFailures returns the failed checks left after all bypasses are
// removed. The input set is not mutated; the caller may adjust the returned
// set further (the FDC filter does) before selecting the first failure.
func (e *BinaryCheckEvaluator) EffectiveFailures(in BinaryCheckInput) valueobject.CheckSet {
	failed := in.FailedChecks.Subtract(in.BypassChecks)
	if in.BypassFraudDevice {
		for _, name := range valueobject.FraudDeviceChecks {
			failed.Remove(name)
		}
	}
	if in.BypassOwnPhone {
		failed.Remove(valueobject.CheckOwnPhone)
	}
	return failed
}

// FirstFailedCheck returns the earliest check in the canonical order present
// in failed, or "" when the application is clean. special_event is skipped
// when the kill switch is on, even if present.
func (e *BinaryCheckEvaluator) FirstFailedCheck(failed valueobject.CheckSet, skipSpecialEvent bool) string {
	for _, name := range valueobject.CheckOrder() {
		if name == valueobject.CheckSpecialEvent && skipSpecialEvent {
			continue
		}
		if failed.Contains(name) {
			return name
		}
	}
	return ""
}

// RequiresPIIScrub reports whether the given first failure triggers the
// customer PII scrub side effect.
func RequiresPIIScrub(check string) bool {
	return check == valueobject.CheckFraudEmail || check == valueobject.CheckFraudKTP
}
