package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
)

// amountScale is the fractional precision of the amount column.
const amountScale = 30

// ErrAmountPrecision is returned by Save for amounts the amount column cannot
// hold exactly.
var ErrAmountPrecision = errors.New("payment amount has more fractional digits than the store keeps")

const paymentColumns = `id, external_id, amount, currency, status, confirmation_url, description, test, created_at, updated_at`

const paymentsSchema = `
	CREATE TABLE IF NOT EXISTS payments (
		id CHAR(36) NOT NULL PRIMARY KEY,
		external_id VARCHAR(64) NULL,
		amount DECIMAL(65, 30) NOT NULL,
		currency CHAR(3) NOT NULL,
		status VARCHAR(32) NOT NULL,
		confirmation_url TEXT NOT NULL,
		description TEXT NULL,
		test TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_payments_external_id (external_id),
		KEY idx_payments_status_updated (status, updated_at)
	)
`

// PaymentRepository is the MySQL-backed payment store.
type PaymentRepository struct {
	db  DBTX
	now func() time.Time
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db, now: time.Now}
}

func (r *PaymentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, paymentsSchema)
	return err
}

func (r *PaymentRepository) Save(ctx context.Context, payment *entity.Payment) error {
	if !payment.Amount.Equal(payment.Amount.Truncate(amountScale)) {
		return ErrAmountPrecision
	}

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			external_id = VALUES(external_id),
			amount = VALUES(amount),
			currency = VALUES(currency),
			status = VALUES(status),
			confirmation_url = VALUES(confirmation_url),
			description = VALUES(description),
			test = VALUES(test),
			created_at = VALUES(created_at),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		nullableStringValue(payment.ExternalID),
		payment.Amount,
		payment.Currency,
		string(payment.Status),
		payment.ConfirmationURL,
		nullableStringValue(payment.Description),
		payment.Test,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	return err
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return r.findOne(ctx, query, id)
}

// FindByExternalID returns the most recently updated record when the index
// has been violated.
func (r *PaymentRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_id = ? ORDER BY updated_at DESC LIMIT 1`
	return r.findOne(ctx, query, externalID)
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) (*entity.Payment, error) {
	query := `UPDATE payments SET status = ?, updated_at = GREATEST(?, created_at) WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, string(status), r.now().UTC(), id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PaymentRepository) UpdateStatusFrom(ctx context.Context, id string, from, to entity.PaymentStatus) (*entity.Payment, error) {
	query := `UPDATE payments SET status = ?, updated_at = GREATEST(?, created_at) WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query, string(to), r.now().UTC(), id, string(from))
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	payment, err := r.FindByID(ctx, id)
	if err != nil || payment == nil {
		return nil, err
	}
	if affected == 0 && payment.Status != to {
		return nil, ErrStatusConflict
	}
	return payment, nil
}

func (r *PaymentRepository) ListStale(ctx context.Context, statuses []entity.PaymentStatus, updatedBefore time.Time, limit int32) ([]*entity.Payment, error) {
	if len(statuses) == 0 {
		return []*entity.Payment{}, nil
	}

	placeholders := make([]string, 0, len(statuses))
	args := make([]interface{}, 0, len(statuses)+2)
	for _, status := range statuses {
		placeholders = append(placeholders, "?")
		args = append(args, string(status))
	}
	args = append(args, updatedBefore, limit)

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status IN (` + strings.Join(placeholders, ", ") + `)
		  AND external_id IS NOT NULL
		  AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`
	return r.list(ctx, query, args...)
}

func (r *PaymentRepository) GetAll(ctx context.Context) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Payment, error) {
	payment := &entity.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, args...), payment); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		item := &entity.Payment{}
		if err := scanPayment(rows, item); err != nil {
			return nil, err
		}
		payments = append(payments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(scan rowScanner, payment *entity.Payment) error {
	var externalID sql.NullString
	var description sql.NullString
	var status string

	err := scan.Scan(
		&payment.ID,
		&externalID,
		&payment.Amount,
		&payment.Currency,
		&status,
		&payment.ConfirmationURL,
		&description,
		&payment.Test,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	payment.ExternalID = stringPtrFromNull(externalID)
	payment.Description = stringPtrFromNull(description)
	payment.Status = entity.PaymentStatus(status)

	return nil
}
