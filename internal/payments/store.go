package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store persists payment records. Writes after creation are field level so
// that a cancellation and a notification status update on the same record
// never overwrite each other.
type Store interface {
	FindAll(ctx context.Context) ([]*Payment, error)
	FindByID(ctx context.Context, id int64) (*Payment, error)
	// Create assigns p.ID.
	Create(ctx context.Context, p *Payment) error
	// MarkCancelled persists the cancellation fields of p, returning
	// ErrAlreadyCancelled if the stored record is already cancelled.
	MarkCancelled(ctx context.Context, p *Payment) error
	UpdateNotificationStatus(ctx context.Context, id int64, status NotificationStatus) error
	// NotCancelledIDs lists ids of active payments with amount in [min, max];
	// a nil bound is open.
	NotCancelledIDs(ctx context.Context, min, max *decimal.Decimal) ([]int64, error)
	CancellationInfo(ctx context.Context, id int64) (*CancellationInfo, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS payments (
	id BIGSERIAL PRIMARY KEY,
	type VARCHAR(16) NOT NULL,
	amount NUMERIC(38,2) NOT NULL,
	currency VARCHAR(3) NOT NULL,
	debtor_iban TEXT NOT NULL,
	creditor_iban TEXT NOT NULL,
	details TEXT,
	creditor_bank_bic TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	cancelled BOOLEAN NOT NULL DEFAULT FALSE,
	cancellation_fee_amount NUMERIC(38,2),
	cancellation_fee_currency VARCHAR(3),
	cancellation_time TIMESTAMPTZ,
	notification_status VARCHAR(16)
);
ALTER TABLE payments ALTER COLUMN amount TYPE NUMERIC(38,2);
ALTER TABLE payments ALTER COLUMN cancellation_fee_amount TYPE NUMERIC(38,2);
CREATE INDEX IF NOT EXISTS idx_payments_active_amount ON payments(amount) WHERE cancelled = FALSE;
`

const paymentColumns = `
	id, type, amount::text, currency, debtor_iban, creditor_iban,
	COALESCE(details, ''), COALESCE(creditor_bank_bic, ''), created_at, cancelled,
	cancellation_fee_amount::text, cancellation_fee_currency, cancellation_time,
	COALESCE(notification_status, '')`

type PgStore struct {
	dbpool *pgxpool.Pool
}

func NewPgStore(dbpool *pgxpool.Pool) *PgStore {
	return &PgStore{dbpool: dbpool}
}

func (s *PgStore) Migrate(ctx context.Context) error {
	if _, err := s.dbpool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply payments schema: %w", err)
	}
	return nil
}

func (s *PgStore) FindAll(ctx context.Context) ([]*Payment, error) {
	rows, err := s.dbpool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var result []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *PgStore) FindByID(ctx context.Context, id int64) (*Payment, error) {
	row := s.dbpool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

func (s *PgStore) Create(ctx context.Context, p *Payment) error {
	const query = `
	INSERT INTO payments (type, amount, currency, debtor_iban, creditor_iban, details, creditor_bank_bic, created_at)
	VALUES ($1, $2::numeric, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
	RETURNING id`

	err := s.dbpool.QueryRow(ctx, query,
		string(p.Type),
		p.Money.Amount.String(),
		p.Money.Currency,
		p.DebtorIBAN,
		p.CreditorIBAN,
		p.Details,
		p.CreditorBankBIC,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *PgStore) MarkCancelled(ctx context.Context, p *Payment) error {
	if p.CancellationFee == nil || p.CancellationTime == nil {
		return fmt.Errorf("payment %d has no cancellation data", p.ID)
	}

	const query = `
	UPDATE payments
	SET cancelled = TRUE,
	    cancellation_fee_amount = $1::numeric,
	    cancellation_fee_currency = $2,
	    cancellation_time = $3
	WHERE id = $4 AND cancelled = FALSE`

	tag, err := s.dbpool.Exec(ctx, query,
		p.CancellationFee.Amount.String(),
		p.CancellationFee.Currency,
		*p.CancellationTime,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel payment %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}

func (s *PgStore) UpdateNotificationStatus(ctx context.Context, id int64, status NotificationStatus) error {
	tag, err := s.dbpool.Exec(ctx,
		`UPDATE payments SET notification_status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update notification status of payment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (s *PgStore) NotCancelledIDs(ctx context.Context, min, max *decimal.Decimal) ([]int64, error) {
	const query = `
	SELECT id FROM payments
	WHERE cancelled = FALSE
	 AND ($1::numeric IS NULL OR amount >= $1::numeric)
	 AND ($2::numeric IS NULL OR amount <= $2::numeric)
	ORDER BY id`

	rows, err := s.dbpool.Query(ctx, query, numericParam(min), numericParam(max))
	if err != nil {
		return nil, fmt.Errorf("failed to query active payment ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PgStore) CancellationInfo(ctx context.Context, id int64) (*CancellationInfo, error) {
	var (
		info        CancellationInfo
		feeAmount   *string
		feeCurrency *string
	)
	err := s.dbpool.QueryRow(ctx,
		`SELECT id, cancellation_fee_amount::text, cancellation_fee_currency FROM payments WHERE id = $1`, id,
	).Scan(&info.ID, &feeAmount, &feeCurrency)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cancellation info of payment %d: %w", id, err)
	}

	info.CancellationFee, err = moneyFromColumns(feeAmount, feeCurrency)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		p                Payment
		paymentType      string
		amount           string
		feeAmount        *string
		feeCurrency      *string
		cancellationTime *time.Time
		notification     string
	)

	err := row.Scan(
		&p.ID,
		&paymentType,
		&amount,
		&p.Money.Currency,
		&p.DebtorIBAN,
		&p.CreditorIBAN,
		&p.Details,
		&p.CreditorBankBIC,
		&p.CreatedAt,
		&p.Cancelled,
		&feeAmount,
		&feeCurrency,
		&cancellationTime,
		&notification,
	)
	if err != nil {
		return nil, err
	}

	p.Type = PaymentType(paymentType)
	p.Money.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q for payment %d: %w", amount, p.ID, err)
	}
	p.CancellationFee, err = moneyFromColumns(feeAmount, feeCurrency)
	if err != nil {
		return nil, err
	}
	p.CancellationTime = cancellationTime
	p.NotificationStatus = NotificationStatus(notification)
	return &p, nil
}

func moneyFromColumns(amount, currency *string) (*Money, error) {
	if amount == nil || currency == nil {
		return nil, nil
	}
	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return nil, fmt.Errorf("invalid money amount %q: %w", *amount, err)
	}
	m := NewMoney(value, *currency)
	return &m, nil
}

func numericParam(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
