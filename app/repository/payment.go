package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-p2p-payments/app/entity"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentFilter struct {
	HasStatus bool
	Status    string
	Limit     int32
	Offset    int32
}

// PaymentRepository is the MySQL-backed entity store. The database owns
// id assignment through AUTO_INCREMENT; callers never supply an id on
// create.
type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			amount, currency, sender_id, recipient_id, status, description,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.Amount.String(),
		payment.Currency,
		payment.SenderID,
		payment.RecipientID,
		payment.Status,
		nullableStringValue(payment.Description),
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	payment.ID = uint64(id)
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments SET
			amount = ?,
			currency = ?,
			sender_id = ?,
			recipient_id = ?,
			status = ?,
			description = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.Amount.String(),
		payment.Currency,
		payment.SenderID,
		payment.RecipientID,
		payment.Status,
		nullableStringValue(payment.Description),
		payment.UpdatedAt,
		payment.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint64) (*entity.Payment, error) {
	query := `
		SELECT id, amount, currency, sender_id, recipient_id, status, description,
			created_at, updated_at
		FROM payments
		WHERE id = ?
	`

	payment := &entity.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), payment); err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	} else if err != nil {
		return nil, err
	}

	return payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, error) {
	query := `
		SELECT id, amount, currency, sender_id, recipient_id, status, description,
			created_at, updated_at
		FROM payments
	`

	args := make([]interface{}, 0, 3)
	if filter.HasStatus {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

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

func (r *PaymentRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteByID removes the row without checking it exists first; the
// service layer owns that check.
func (r *PaymentRepository) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(scan rowScanner, payment *entity.Payment) error {
	var amountRaw []byte
	var description sql.NullString

	err := scan.Scan(
		&payment.ID,
		&amountRaw,
		&payment.Currency,
		&payment.SenderID,
		&payment.RecipientID,
		&payment.Status,
		&description,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	amount, err := decimalFromColumn(amountRaw)
	if err != nil {
		return err
	}
	payment.Amount = amount
	payment.Description = stringPtrFromNull(description)

	return nil
}
