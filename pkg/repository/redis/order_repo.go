package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/resume"
)

var _ order.Store = (*OrderRepository)(nil)

// Each order is a hash: "doc" holds the immutable part as JSON, the payment
// fields live next to it so scripts can update them without touching JSON.
const (
	fieldDoc       = "doc"
	fieldPaid      = "paid"
	fieldStatus    = "payment_status"
	fieldProvider  = "payment_provider"
	fieldSessionID = "payment_session_id"
	fieldUpdatedAt = "updated_at"
	fieldPaidAt    = "paid_at"
)

var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// ARGV[1] is "1" when the order must still be unpaid; the rest are field/value pairs.
var updateIfScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if ARGV[1] == '1' and redis.call('HGET', KEYS[1], 'paid') == '1' then
	return 0
end
for i = 2, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
return 1
`)

type document struct {
	ID        string            `json:"orderId"`
	Price     decimal.Decimal   `json:"price"`
	Currency  string            `json:"currency"`
	Template  resume.Template   `json:"template"`
	Data      resume.ResumeData `json:"data"`
	CreatedAt time.Time         `json:"createdAt"`
}

// OrderRepository stores orders as Redis hashes under "<prefix><id>".
type OrderRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewOrderRepository(rdb *redis.Client, prefix string) *OrderRepository {
	if prefix == "" {
		prefix = "resumepay:order:"
	}
	return &OrderRepository{rdb: rdb, prefix: prefix}
}

func (r *OrderRepository) key(id string) string { return r.prefix + id }

func (r *OrderRepository) Get(ctx context.Context, id string) (order.Order, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return order.Order{}, err
	}
	raw, ok := fields[fieldDoc]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return order.Order{}, fmt.Errorf("order %s: decode: %w", id, err)
	}
	o := order.Order{
		ID:               doc.ID,
		Price:            doc.Price,
		Currency:         doc.Currency,
		Paid:             fields[fieldPaid] == "1",
		PaymentStatus:    fields[fieldStatus],
		PaymentProvider:  fields[fieldProvider],
		PaymentSessionID: fields[fieldSessionID],
		Template:         doc.Template,
		Data:             doc.Data,
		CreatedAt:        doc.CreatedAt.UTC(),
	}
	if v := fields[fieldUpdatedAt]; v != "" {
		if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return order.Order{}, fmt.Errorf("order %s: parse updated_at: %w", id, err)
		}
	}
	return o, nil
}

func (r *OrderRepository) Insert(ctx context.Context, o order.Order) error {
	doc, err := json.Marshal(document{
		ID:        o.ID,
		Price:     o.Price,
		Currency:  o.Currency,
		Template:  o.Template,
		Data:      o.Data,
		CreatedAt: o.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	n, err := insertScript.Run(ctx, r.rdb, []string{r.key(o.ID)},
		fieldDoc, string(doc),
		fieldPaid, boolFlag(o.Paid),
		fieldStatus, o.PaymentStatus,
		fieldProvider, o.PaymentProvider,
		fieldSessionID, o.PaymentSessionID,
		fieldUpdatedAt, o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	).Int()
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
	args := []any{boolFlag(cond == order.Unpaid)}
	if p.Paid != nil {
		args = append(args, fieldPaid, boolFlag(*p.Paid))
		if *p.Paid {
			args = append(args, fieldPaidAt, updatedAt.UTC().Format(time.RFC3339Nano))
		}
	}
	if p.PaymentStatus != nil {
		args = append(args, fieldStatus, *p.PaymentStatus)
	}
	if p.PaymentProvider != nil {
		args = append(args, fieldProvider, *p.PaymentProvider)
	}
	if p.PaymentSessionID != nil {
		args = append(args, fieldSessionID, *p.PaymentSessionID)
	}
	args = append(args, fieldUpdatedAt, updatedAt.UTC().Format(time.RFC3339Nano))

	n, err := updateIfScript.Run(ctx, r.rdb, []string{r.key(id)}, args...).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n == 1, nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
