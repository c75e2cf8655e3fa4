package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/db"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, order_number, user_id, items, total_amount::text, status,
	payment_method, shipping_address, contact_phone, notes, created_at`

type Repository struct {
	q   db.Querier
	gen *NumberGenerator
}

func NewRepository(q db.Querier, gen *NumberGenerator) *Repository {
	if gen == nil {
		panic("orders: NumberGenerator is nil")
	}
	return &Repository{q: q, gen: gen}
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		items  []byte
		total  string
		status string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &items, &total, &status,
		&o.PaymentMethod, &o.ShippingAddress, &o.ContactPhone, &o.Notes, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o.Status = Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %d: %w", o.ID, err)
	}
	if err := o.TotalAmount.Scan(total); err != nil {
		return nil, fmt.Errorf("decode total of order %d: %w", o.ID, err)
	}
	return &o, nil
}

// Create reserves the next order id, derives the order number from it and
// inserts the row, all in one transaction.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&id); err != nil {
			return fmt.Errorf("reserve order id: %w", err)
		}

		number, err := r.gen.Generate(id)
		if err != nil {
			return fmt.Errorf("order number: %w", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO orders (id, order_number, user_id, items, total_amount, status,
			                    payment_method, shipping_address, contact_phone, notes)
			VALUES ($1, $2, $3, $4::jsonb, $5::numeric, $6, $7, $8, $9, $10)
			RETURNING created_at`,
			id, number, o.UserID, string(items), o.TotalAmount.String(), string(o.Status),
			o.PaymentMethod, o.ShippingAddress, o.ContactPhone, o.Notes,
		).Scan(&o.CreatedAt)
		if err != nil {
			return err
		}

		o.ID = id
		o.OrderNumber = number
		return nil
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
}

func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]Order, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = `WHERE status = $1`
		args = append(args, string(status))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	list, err := r.list(ctx, fmt.Sprintf(`
		SELECT %s
		FROM orders %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, orderColumns, where, n+1, n+2),
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `
		UPDATE orders SET status = $2
		WHERE id = $1
		RETURNING `+orderColumns, id, string(status)))
}
