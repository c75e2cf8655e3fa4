package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, productID string, limit, offset int) ([]Review, int, error) {
	where := ``
	args := []any{}
	if productID != "" {
		where = `WHERE rv.product_id = $1`
		args = append(args, productID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews rv `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`
        SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.comment, rv.created_at,
               COALESCE(p.name, ''), COALESCE(u.username, ''), COALESCE(u.email, '')
        FROM reviews rv
        LEFT JOIN products p ON p.id = rv.product_id
        LEFT JOIN users u ON u.id = rv.user_id
        %s
        ORDER BY rv.created_at DESC
        LIMIT $%d OFFSET $%d`, where, n+1, n+2)

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Review{}
	for rows.Next() {
		var rv Review
		err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.ProductName,
			&rv.UserName,
			&rv.UserEmail,
		)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, rv)
	}
	return list, total, rows.Err()
}

func (r *Repository) Create(ctx context.Context, rv *Review) error {
	rv.ID = uuid.NewString()
	query := `
        INSERT INTO reviews (id, product_id, user_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		rv.ID,
		rv.ProductID,
		rv.UserID,
		rv.Rating,
		rv.Comment,
	).Scan(&rv.CreatedAt)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}
