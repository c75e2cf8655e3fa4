package users

import (
	"context"
	"errors"

	"storefront/internal/assets"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, role, password, photo_url, photo_public_id, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user          User
		role          string
		photoURL      *string
		photoPublicID *string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&role,
		&user.Password.hash,
		&photoURL,
		&photoPublicID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = Role(role)
	if photoURL != nil {
		user.Photo = &assets.Asset{URL: *photoURL}
		if photoPublicID != nil {
			user.Photo.PublicID = *photoPublicID
		}
	}
	return &user, nil
}

func photoColumns(photo *assets.Asset) (url, publicID *string) {
	if photo == nil {
		return nil, nil
	}
	return &photo.URL, &photo.PublicID
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if user.Role == "" {
		user.Role = RoleCustomer
	}
	user.ID = uuid.NewString()
	url, publicID := photoColumns(user.Photo)

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, role, password, photo_url, photo_public_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		user.ID, user.Username, user.Email, string(user.Role), user.Password.hash, url, publicID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapEmailConflict(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Update writes username, email, password hash and photo.
func (r *Repository) Update(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	url, publicID := photoColumns(user.Photo)
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET username = $2, email = $3, password = $4, photo_url = $5, photo_public_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		user.ID, user.Username, user.Email, user.Password.hash, url, publicID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return mapEmailConflict(err)
}

func mapEmailConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}
