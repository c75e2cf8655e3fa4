package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price::text, category, description, color, photos,
	deleted, deleted_at, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p      Product
		price  string
		photos []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Description, &p.Color, &photos,
		&p.Deleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decode price %q: %w", price, err)
	}
	p.Price = d

	p.Photos = []Photo{}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &p.Photos); err != nil {
			return nil, fmt.Errorf("decode photos: %w", err)
		}
	}
	return &p, nil
}

func encodePhotos(photos []Photo) (string, error) {
	if photos == nil {
		photos = []Photo{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("encode photos: %w", err)
	}
	return string(b), nil
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	photos, err := encodePhotos(p.Photos)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, price, category, description, color, photos)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7::jsonb)
		RETURNING deleted, deleted_at, created_at, updated_at;
	`
	err = r.db.QueryRow(ctx, query, p.ID, p.Name, p.Price.String(), p.Category, p.Description, p.Color, photos).
		Scan(&p.Deleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByIDs returns the products among ids that exist, in no particular order.
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1);`
	return r.list(ctx, query, ids)
}

func (r *Repository) Find(ctx context.Context, pred Predicate, limit, offset int) ([]*Product, error) {
	where, args := whereClause(pred)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d;`, productColumns, where, len(args)-1, len(args))

	return r.list(ctx, query, args...)
}

func (r *Repository) Count(ctx context.Context, pred Predicate) (int, error) {
	where, args := whereClause(pred)

	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

// Update overwrites every mutable field and the photo list.
func (r *Repository) Update(ctx context.Context, p *Product) error {
	photos, err := encodePhotos(p.Photos)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, price = $3::numeric, category = $4, description = $5,
		    color = $6, photos = $7::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING updated_at;
	`
	err = r.db.QueryRow(ctx, query, p.ID, p.Name, p.Price.String(), p.Category, p.Description, p.Color, photos).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, ids []string, at time.Time) (int64, error) {
	query := `
		UPDATE products
		SET deleted = true, deleted_at = $2, updated_at = now()
		WHERE id = ANY($1);
	`
	tag, err := r.db.Exec(ctx, query, ids, at)
	if err != nil {
		return 0, fmt.Errorf("soft delete products: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) Restore(ctx context.Context, id string) (*Product, error) {
	query := `
		UPDATE products
		SET deleted = false, deleted_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns + `;`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("restore product: %w", err)
	}
	return p, nil
}

// Purge removes rows for good. Their photos stay in the asset store.
func (r *Repository) Purge(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = ANY($1);`, ids)
	if err != nil {
		return 0, fmt.Errorf("purge products: %w", err)
	}
	return tag.RowsAffected(), nil
}

// whereClause renders a predicate as a WHERE clause with positional args.
func whereClause(pred Predicate) (string, []any) {
	args := []any{pred.Deleted}
	conds := []string{"deleted = $1"}

	add := func(format string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if pred.MatchNone {
		conds = append(conds, "FALSE")
	}
	if pred.NameContains != "" {
		add("name ILIKE $%d", "%"+escapeLike(pred.NameContains)+"%")
	}
	if pred.Category != "" {
		add("category = $%d", pred.Category)
	}
	if pred.Color != "" {
		add("color = $%d", pred.Color)
	}
	if pred.MinPrice != nil {
		add("price >= $%d::numeric", pred.MinPrice.String())
	}
	if pred.MaxPrice != nil {
		add("price <= $%d::numeric", pred.MaxPrice.String())
	}
	if pred.CategoryIn != nil {
		add("category = ANY($%d)", pred.CategoryIn)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
