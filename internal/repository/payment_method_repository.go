package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// PaymentMethodRepo provides read access to stored payment methods.
// Enrolment and card handling live in an external payment system; this
// service only needs to verify that a method exists and who owns it.
type PaymentMethodRepo struct {
	db *sql.DB
}

// NewPaymentMethodRepo constructs a PaymentMethodRepo given a DB handle.
func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo {
	return &PaymentMethodRepo{db: db}
}

// GetByIDTx returns a payment method by primary key.
func (r *PaymentMethodRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, paymentMethodID uint64) (*model.PaymentMethod, error) {
	const q = `SELECT id, user_id, label, card_last4, is_default FROM payment_methods WHERE id = ?`
	var pm model.PaymentMethod
	err := tx.QueryRowContext(ctx, q, paymentMethodID).Scan(
		&pm.ID, &pm.UserID, &pm.Label, &pm.CardLast4, &pm.IsDefault,
	)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pm, nil
}
