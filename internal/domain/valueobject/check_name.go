package valueobject

// Binary check names. The evaluation order below is a fixed global contract:
// the first failed, non-bypassed name in this order decides the failure,
// regardless of storage order.
const (
	CheckFraudFormPartialDevice = "fraud_form_partial_device"
	CheckFraudDevice            = "fraud_device"
	CheckFraudFormPartialHPOwn  = "fraud_form_partial_hp_own"
	CheckFraudFormPartialHPKin  = "fraud_form_partial_hp_kin"
	CheckFraudHPSpouse          = "fraud_hp_spouse"
	CheckFraudEmail             = "fraud_email"
	CheckFraudKTP               = "fraud_ktp"
	CheckDOB                    = "application_date_of_birth"
	CheckJobNotBlacklisted      = "job_not_black_listed"
	CheckSpecialEvent           = "special_event"

	CheckBasicSavings         = "basic_savings"
	CheckMonthlyIncome        = "monthly_income"
	CheckIncomeGTThreshold    = "monthly_income_gt_3_million"
	CheckSavingMargin         = "saving_margin"
	CheckDebtToIncome         = "debt_to_income_40_percent"
	CheckFDCInquiry           = "fdc_inquiry_check"
	CheckSMSDelinquency       = "sms_delinquency_24_months"
	CheckEmailDelinquency     = "email_delinquency_24_months"
	CheckLoanPurposeBlacklist = "loan_purpose_description_black_list"
	CheckOwnPhone             = "own_phone"
	CheckDynamic              = "dynamic_check"
)

// shortCheckOrder is walked before longCheckOrder. It carries the fraud and
// identity checks.
var shortCheckOrder = []string{
	CheckFraudFormPartialDevice,
	CheckFraudDevice,
	CheckFraudFormPartialHPOwn,
	CheckFraudFormPartialHPKin,
	CheckFraudHPSpouse,
	CheckFraudEmail,
	CheckFraudKTP,
	CheckDOB,
	CheckJobNotBlacklisted,
	CheckSpecialEvent,
}

// longCheckOrder carries the financial and behavioural checks.
var longCheckOrder = []string{
	CheckBasicSavings,
	CheckMonthlyIncome,
	CheckIncomeGTThreshold,
	CheckSavingMargin,
	CheckDebtToIncome,
	CheckFDCInquiry,
	CheckSMSDelinquency,
	CheckEmailDelinquency,
	CheckLoanPurposeBlacklist,
	CheckOwnPhone,
	CheckDynamic,
}

// CheckOrder returns the canonical global evaluation order: the short list
// followed by the long list. The returned slice is a copy.
func CheckOrder() []string {
	order := make([]string, 0, len(shortCheckOrder)+len(longCheckOrder))
	order = append(order, shortCheckOrder...)
	order = append(order, longCheckOrder...)
	return order
}

// FraudDeviceChecks are the checks bypassed for customers with good payment
// histories when the corresponding policy flag is active.
var FraudDeviceChecks = []string{
	CheckFraudFormPartialDevice,
	CheckFraudDevice,
}

// ---------------------------------------------------------------------------
// CheckSet
// ---------------------------------------------------------------------------

// CheckSet is a set of binary check names.
type CheckSet map[string]struct{}

// NewCheckSet builds a CheckSet from the given names.
func NewCheckSet(names ...string) CheckSet {
	s := make(CheckSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s CheckSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s CheckSet) Add(name string) { s[name] = struct{}{} }

// Remove deletes name from the set.
func (s CheckSet) Remove(name string) { delete(s, name) }

// Subtract returns a new set containing the members of s not present in other.
func (s CheckSet) Subtract(other CheckSet) CheckSet {
	out := make(CheckSet, len(s))
	for n := range s {
		if !other.Contains(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Clone returns a shallow copy of the set.
func (s CheckSet) Clone() CheckSet {
	out := make(CheckSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}
