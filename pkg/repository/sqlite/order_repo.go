package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/resume"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var _ order.Store = (*OrderRepository)(nil)

// OrderRepository is a single-file store for local runs and the CLI.
type OrderRepository struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it.
func Open(ctx context.Context, path string) (*OrderRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer at a time; sqlite would otherwise answer SQLITE_BUSY
	db.SetMaxOpenConns(1)

	r := &OrderRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *OrderRepository) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, r.db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (r *OrderRepository) Close() error { return r.db.Close() }

// Ping lets the repository act as a readiness checker.
func (r *OrderRepository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *OrderRepository) Get(ctx context.Context, id string) (order.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, price, currency, paid, payment_status, payment_provider, payment_session_id,
       template, data, created_at, updated_at
FROM orders WHERE id = ?
`, id)
	var (
		o                    order.Order
		price, tmpl, data    string
		createdAt, updatedAt string
	)
	err := row.Scan(&o.ID, &price, &o.Currency, &o.Paid, &o.PaymentStatus, &o.PaymentProvider,
		&o.PaymentSessionID, &tmpl, &data, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, err
	}
	if o.Price, err = decimal.NewFromString(price); err != nil {
		return order.Order{}, fmt.Errorf("order %s: parse price: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &o.Data); err != nil {
		return order.Order{}, fmt.Errorf("order %s: decode data: %w", id, err)
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return order.Order{}, fmt.Errorf("order %s: parse created_at: %w", id, err)
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return order.Order{}, fmt.Errorf("order %s: parse updated_at: %w", id, err)
	}
	o.Template = resume.Template(tmpl)
	return o, nil
}

func (r *OrderRepository) Insert(ctx context.Context, o order.Order) error {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return fmt.Errorf("encode order data: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id, price, currency, paid, payment_status, payment_provider,
                    payment_session_id, template, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`, o.ID, o.Price.String(), o.Currency, o.Paid, o.PaymentStatus, o.PaymentProvider,
		o.PaymentSessionID, string(o.Template), string(data),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return order.ErrAlreadyExists
	}
	return nil
}

func (r *OrderRepository) UpdateIf(ctx context.Context, id string, cond order.Condition, p order.Patch) (bool, error) {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Paid != nil {
		set("paid", *p.Paid)
		if *p.Paid {
			set("paid_at", formatTime(updatedAt))
		}
	}
	if p.PaymentStatus != nil {
		set("payment_status", *p.PaymentStatus)
	}
	if p.PaymentProvider != nil {
		set("payment_provider", *p.PaymentProvider)
	}
	if p.PaymentSessionID != nil {
		set("payment_session_id", *p.PaymentSessionID)
	}
	set("updated_at", formatTime(updatedAt))
	args = append(args, id)

	q := "UPDATE orders SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if cond == order.Unpaid {
		q += " AND paid = 0"
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
