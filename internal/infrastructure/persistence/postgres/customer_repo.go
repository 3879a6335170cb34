package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/internal/domain/event"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
	"github.com/julofinance/credit-engine/pkg/events"
	"github.com/julofinance/credit-engine/pkg/postgres"
)

// CustomerRepo implements port.CustomerRepository. Payment-history reads and
// the fraud PII scrub lock the customer row so concurrent scoring runs cannot
// interleave with a scrub.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new repository backed by PostgreSQL.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// HasGoodPaymentHistory reports whether the customer has completed at least
// one loan and has never paid late.
func (r *CustomerRepo) HasGoodPaymentHistory(ctx context.Context, customerID int64) (bool, error) {
	var good bool
	err := postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT true FROM customers WHERE customer_id = $1 FOR UPDATE`,
			customerID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		var completed, late int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FILTER (WHERE status = 'paid_off'),
			       COUNT(*) FILTER (WHERE late_payment_count > 0)
			FROM customer_loans
			WHERE customer_id = $1
		`, customerID).Scan(&completed, &late)
		if err != nil {
			return fmt.Errorf("query loan history: %w", err)
		}

		good = completed > 0 && late == 0
		return nil
	})
	return good, err
}

// ScrubFraudPII nulls the flagged PII field, writes an audit row per scrubbed
// field, queues a forced logout for email fraud, and records the scrub event
// in the outbox. Everything happens under one row lock.
func (r *CustomerRepo) ScrubFraudPII(ctx context.Context, customerID, applicationID int64, triggerCheck string) error {
	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var email, nik *string
		err := tx.QueryRow(ctx,
			`SELECT email, nik FROM customers WHERE customer_id = $1 FOR UPDATE`,
			customerID,
		).Scan(&email, &nik)
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		var fields []string
		forcedLogout := false
		switch triggerCheck {
		case valueobject.CheckFraudEmail:
			if email != nil {
				if err := r.scrubField(ctx, tx, customerID, applicationID, "email", *email, triggerCheck); err != nil {
					return err
				}
				fields = append(fields, "email")
			}
			forcedLogout = true
			if _, err := tx.Exec(ctx, `
				INSERT INTO forced_logouts (customer_id, reason, requested_at)
				VALUES ($1, $2, NOW())
			`, customerID, triggerCheck); err != nil {
				return fmt.Errorf("queue forced logout: %w", err)
			}
		case valueobject.CheckFraudKTP:
			if nik != nil {
				if err := r.scrubField(ctx, tx, customerID, applicationID, "nik", *nik, triggerCheck); err != nil {
					return err
				}
				fields = append(fields, "nik")
			}
		default:
			return fmt.Errorf("check %q does not scrub pii", triggerCheck)
		}

		evt := event.NewCustomerPIIScrubbed(customerID, applicationID, triggerCheck, fields, forcedLogout)
		return storeOutboxTx(ctx, tx, []events.DomainEvent{evt})
	})
}

func (r *CustomerRepo) scrubField(
	ctx context.Context,
	tx pgx.Tx,
	customerID, applicationID int64,
	field, oldValue, triggerCheck string,
) error {
	query := fmt.Sprintf(`UPDATE customers SET %s = NULL WHERE customer_id = $1`, field)
	if _, err := tx.Exec(ctx, query, customerID); err != nil {
		return fmt.Errorf("scrub %s: %w", field, err)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO pii_field_audits (customer_id, application_id, field_name, old_value, trigger_check, changed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, customerID, applicationID, field, oldValue, triggerCheck)
	if err != nil {
		return fmt.Errorf("audit %s scrub: %w", field, err)
	}
	return nil
}
