package valueobject

// Product line codes referenced by credit-matrix rows.
const (
	ProductLineJ1   = 1
	ProductLineMTL1 = 10
	ProductLineMTL2 = 11
	ProductLineSTL1 = 20
	ProductLineSTL2 = 21
	ProductLineLOC  = 300
)

// AppendProductLine appends code to lines unless it is already present, and
// returns the resulting slice. The input slice is not mutated.
func AppendProductLine(lines []int, code int) []int {
	out := make([]int, 0, len(lines)+1)
	out = append(out, lines...)
	for _, l := range out {
		if l == code {
			return out
		}
	}
	return append(out, code)
}

// IsSalariedJobType reports whether the given job type maps to salaried
// employment in the credit matrix.
func IsSalariedJobType(jobType string) bool {
	_, ok := salariedJobTypes[jobType]
	return ok
}

var salariedJobTypes = map[string]struct{}{
	"Pegawai negeri": {},
	"Pegawai swasta": {},
	"TNI/Polri":      {},
	"Guru":           {},
	"Dokter":         {},
	"Perawat":        {},
}
