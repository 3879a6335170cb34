package model

// ApplicationSnapshot carries the applicant attributes the scoring engine
// reads. It is a read-only projection of the upstream application record.
type ApplicationSnapshot struct {
	ID          int64
	CustomerID  int64
	Email       string
	NIK         string
	JobType     string
	JobIndustry string
	PartnerName string // empty when the application has no partner
	RepeatTime  int
}

// HasPartner reports whether the application came in through a partner.
func (a ApplicationSnapshot) HasPartner() bool { return a.PartnerName != "" }

// CustomParams returns the custom-parameter dictionary evaluated against
// parameterized credit-matrix rows.
func (a ApplicationSnapshot) CustomParams() map[string]any {
	return map[string]any{
		"job_industry": a.JobIndustry,
		"repeat_time":  a.RepeatTime,
	}
}
