package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FDC inquiry statuses as reported by the bureau gateway.
const (
	FDCStatusSuccess = "success"
	FDCStatusPending = "pending"
	FDCStatusError   = "error"
)

// FDCInquiry is the latest prior-debt bureau inquiry for an application.
type FDCInquiry struct {
	ApplicationID int64
	Status        string
	InquiryDate   time.Time
}

// Successful reports whether the inquiry completed.
func (i FDCInquiry) Successful() bool { return i.Status == FDCStatusSuccess }

// DPD tiers for FDC loan-quality bucketing.
const (
	DPDTierCurrent = iota // no days past due
	DPDTier1To30
	DPDTier31To60
	DPDTier61To90
	DPDTierOver90
	dpdTierCount
)

// FDCLoanSummary aggregates the applicant's bureau-reported loans by
// days-past-due tier, plus the repayment state of matured loans.
type FDCLoanSummary struct {
	TierCounts       [dpdTierCount]int
	TotalOutstanding decimal.Decimal
	MaturedCount     int
	PaidMaturedCount int
}

// TotalCount returns the number of loans across all tiers.
func (s FDCLoanSummary) TotalCount() int {
	total := 0
	for _, c := range s.TierCounts {
		total += c
	}
	return total
}

// BadCount returns the number of loans more than 30 days past due.
func (s FDCLoanSummary) BadCount() int {
	return s.TierCounts[DPDTier31To60] + s.TierCounts[DPDTier61To90] + s.TierCounts[DPDTierOver90]
}

// BadDebtRatio returns bad_credit_count / total_credit_count.
// Zero when the applicant has no bureau loans.
func (s FDCLoanSummary) BadDebtRatio() decimal.Decimal {
	total := s.TotalCount()
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.BadCount())).
		Div(decimal.NewFromInt(int64(total)))
}

// PaidPctMatured returns the paid percentage of matured loans.
// Zero when no loans have matured.
func (s FDCLoanSummary) PaidPctMatured() decimal.Decimal {
	if s.MaturedCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.PaidMaturedCount)).
		Div(decimal.NewFromInt(int64(s.MaturedCount)))
}
