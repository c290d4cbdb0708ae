package billing

import (
	"context"
	"database/sql"

	"go-portal/internal/database"
)

type BillingRepository interface {
	RecordEvent(ctx context.Context, userID string, ev *SubscriptionEvent) (*Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error)
	EnsureSchema(ctx context.Context) error
}

type BillingRepositoryImpl struct {
	DB *sql.DB
}

func NewBillingRepository(pg *database.PostgresDB) BillingRepository {
	return &BillingRepositoryImpl{DB: pg.DB}
}

func (r *BillingRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS billing_records (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID NOT NULL REFERENCES users(id),
			amount     NUMERIC(12,2) NOT NULL,
			currency   TEXT NOT NULL DEFAULT 'usd',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS subscriptions (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			billing_id        UUID NOT NULL REFERENCES billing_records(id),
			customer_id       TEXT NOT NULL,
			payment_id        TEXT NOT NULL,
			status            TEXT NOT NULL,
			next_billing_date TIMESTAMPTZ NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// RecordEvent inserts the billing record and the subscription that
// references it inside one transaction, so a crash never leaves an
// orphan billing row.
func (r *BillingRepositoryImpl) RecordEvent(ctx context.Context, userID string, ev *SubscriptionEvent) (*Subscription, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var billingID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO billing_records (user_id, amount, currency)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, ev.Amount, ev.Currency).Scan(&billingID)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		BillingID:       billingID,
		CustomerID:      ev.CustomerID,
		PaymentID:       ev.PaymentID,
		Status:          ev.Status,
		NextBillingDate: ev.NextBillingDate,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO subscriptions (billing_id, customer_id, payment_id, status, next_billing_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, billingID, ev.CustomerID, ev.PaymentID, ev.Status, ev.NextBillingDate).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *BillingRepositoryImpl) ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.billing_id, s.customer_id, s.payment_id, s.status, s.next_billing_date, s.created_at
		FROM subscriptions s
		JOIN billing_records b ON b.id = s.billing_id
		WHERE b.user_id = $1
		ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.ID, &s.BillingID, &s.CustomerID, &s.PaymentID, &s.Status, &s.NextBillingDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
