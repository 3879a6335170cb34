package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// CreditMatrixRepo implements port.CreditMatrixRepository over the versioned
// rule table. Threshold and attribute filtering happen here; partitioning
// and tie-breaking stay in the resolver.
type CreditMatrixRepo struct {
	pool *pgxpool.Pool
}

// NewCreditMatrixRepo creates a new repository backed by PostgreSQL.
func NewCreditMatrixRepo(pool *pgxpool.Pool) *CreditMatrixRepo {
	return &CreditMatrixRepo{pool: pool}
}

// FindCandidates returns the active rows covering the probability with
// matching applicant attributes.
func (r *CreditMatrixRepo) FindCandidates(ctx context.Context, q port.CreditMatrixQuery) ([]model.CreditMatrix, error) {
	query := `
		SELECT id, version, score, score_tag, min_threshold, max_threshold,
		       is_premium_area, is_salaried, is_fdc, matrix_type,
		       parameter, priority, product_lines, message
		FROM credit_matrix
		WHERE is_active
		  AND min_threshold <= $1 AND max_threshold > $1
		  AND is_premium_area = $2
		  AND is_salaried = $3
		  AND is_fdc = $4
		  AND matrix_type = $5
	`
	rows, err := r.pool.Query(ctx, query,
		q.Probability, q.IsPremiumArea, q.IsSalaried, q.IsFDC, q.MatrixType,
	)
	if err != nil {
		return nil, fmt.Errorf("query credit matrix: %w", err)
	}
	defer rows.Close()

	var result []model.CreditMatrix
	for rows.Next() {
		row, err := scanMatrix(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanMatrix(s scannable) (model.CreditMatrix, error) {
	var (
		id            int64
		version       *int
		scoreStr      string
		scoreTag      *string
		minThreshold  float64
		maxThreshold  float64
		isPremiumArea bool
		isSalaried    bool
		isFDC         bool
		matrixType    string
		parameter     *string
		priority      *int
		productLines  []int64
		message       string
	)

	err := s.Scan(
		&id, &version, &scoreStr, &scoreTag, &minThreshold, &maxThreshold,
		&isPremiumArea, &isSalaried, &isFDC, &matrixType,
		&parameter, &priority, &productLines, &message,
	)
	if err != nil {
		return model.CreditMatrix{}, fmt.Errorf("scan credit matrix: %w", err)
	}

	score, err := valueobject.NewScore(scoreStr)
	if err != nil {
		return model.CreditMatrix{}, fmt.Errorf("parse score: %w", err)
	}

	row := model.CreditMatrix{
		ID:            id,
		Score:         score,
		MinThreshold:  minThreshold,
		MaxThreshold:  maxThreshold,
		IsPremiumArea: isPremiumArea,
		IsSalaried:    isSalaried,
		IsFDC:         isFDC,
		MatrixType:    matrixType,
		ProductLines:  toInts(productLines),
		Message:       message,
	}
	// Null version orders lowest; the zero value already does.
	if version != nil {
		row.Version = *version
	}
	if scoreTag != nil {
		row.ScoreTag = *scoreTag
	}
	if parameter != nil {
		row.Parameter = *parameter
	}
	if priority != nil {
		row.Priority = *priority
	}
	return row, nil
}
