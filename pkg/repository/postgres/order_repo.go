package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/resume"
)

var _ order.Store = (*OrderRepository)(nil)

// OrderRepository хранит заказы в таблице orders. Схему создают goose-миграции, см. Migrate.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Get(ctx context.Context, id string) (order.Order, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, price::text, currency, paid, payment_status, payment_provider,
       COALESCE(payment_session_id, ''), template, data, created_at, updated_at
FROM orders WHERE id = $1
`, id)
	var (
		o        order.Order
		price    string
		template string
		data     []byte
	)
	err := row.Scan(&o.ID, &price, &o.Currency, &o.Paid, &o.PaymentStatus, &o.PaymentProvider,
		&o.PaymentSessionID, &template, &data, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, err
	}
	if o.Price, err = decimal.NewFromString(price); err != nil {
		return order.Order{}, fmt.Errorf("order %s: parse price: %w", id, err)
	}
	if err := json.Unmarshal(data, &o.Data); err != nil {
		return order.Order{}, fmt.Errorf("order %s: decode data: %w", id, err)
	}
	o.Template = resume.Template(template)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

func (r *OrderRepository) Insert(ctx context.Context, o order.Order) error {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return fmt.Errorf("encode order data: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO orders (id, price, currency, paid, payment_status, payment_provider,
                    payment_session_id, template, data, created_at, updated_at)
VALUES ($1, $2::numeric, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)
`, o.ID, o.Price.String(), o.Currency, o.Paid, o.PaymentStatus, o.PaymentProvider,
		o.PaymentSessionID, string(o.Template), data, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return order.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateIf runs a single UPDATE; the WHERE clause carries the condition so
// concurrent callers are serialized by the row lock.
func (r *OrderRepository) UpdateIf(ctx context.Context, id string, cond order.Condition, p order.Patch) (bool, error) {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	args := []any{id}
	var sets []string
	set := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if p.Paid != nil {
		set("paid = $%d", *p.Paid)
		if *p.Paid {
			set("paid_at = $%d", updatedAt)
		}
	}
	if p.PaymentStatus != nil {
		set("payment_status = $%d", *p.PaymentStatus)
	}
	if p.PaymentProvider != nil {
		set("payment_provider = $%d", *p.PaymentProvider)
	}
	if p.PaymentSessionID != nil {
		set("payment_session_id = NULLIF($%d, '')", *p.PaymentSessionID)
	}
	set("updated_at = $%d", updatedAt)

	q := "UPDATE orders SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	if cond == order.Unpaid {
		q += " AND paid = FALSE"
	}
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
