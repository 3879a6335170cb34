package model

// MLModelResult is the upstream scoring model's output for an application.
type MLModelResult struct {
	// PGood is preferred over ProbabilityFPD when both are present.
	PGood          *float64
	ProbabilityFPD *float64

	HasFDC       bool
	ModelVersion string

	// Product selects the credit-matrix type; empty means the default.
	Product string
}

// Probability returns the model output to score against, preferring pgood.
// ok is false when the model produced neither field.
func (r MLModelResult) Probability() (p float64, ok bool) {
	if r.PGood != nil {
		return *r.PGood, true
	}
	if r.ProbabilityFPD != nil {
		return *r.ProbabilityFPD, true
	}
	return 0, false
}

// MatrixType returns the credit-matrix type for this result.
func (r MLModelResult) MatrixType() string {
	if r.Product != "" {
		return r.Product
	}
	return MatrixTypeJulo1
}

// CLIKSignal is the CLIK bureau collaborator's verdict for an application.
type CLIKSignal int

const (
	CLIKSignalNone CLIKSignal = iota
	CLIKSignalSwapIn
	CLIKSignalSwapOut
)
