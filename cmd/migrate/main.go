// Command migrate applies the SQL files under migrations/ in version order.
//
//	migrate up          apply every pending migration
//	migrate down [n]    roll back the last n migrations (default 1)
//	migrate version     print the current version
package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type migration struct {
	version int
	name    string
	up      string
	down    string
}

// loadMigrations pairs NNNNNN_name.up.sql with NNNNNN_name.down.sql.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, err
	}

	byVersion := map[int]*migration{}
	for _, e := range entries {
		name := e.Name()
		var direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(name, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}

		body, err := fs.ReadFile(fsys, "migrations/"+name)
		if err != nil {
			return nil, err
		}

		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: strings.TrimSuffix(rest, "."+direction+".sql")}
			byVersion[version] = m
		}
		if direction == "up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %d has no up file", m.version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

type migrator struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	all    []migration
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    bigint PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (m *migrator) current(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := m.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

func (m *migrator) apply(ctx context.Context, version int, stmt string, record string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *migrator) Up(ctx context.Context) error {
	cur, err := m.current(ctx)
	if err != nil {
		return err
	}
	for _, mg := range m.all {
		if mg.version <= cur {
			continue
		}
		if err := m.apply(ctx, mg.version, mg.up, `INSERT INTO schema_migrations (version) VALUES ($1)`); err != nil {
			return fmt.Errorf("up %d_%s: %w", mg.version, mg.name, err)
		}
		m.logger.Infow("migration applied", "version", mg.version, "name", mg.name)
	}
	return nil
}

func (m *migrator) Down(ctx context.Context, steps int) error {
	cur, err := m.current(ctx)
	if err != nil {
		return err
	}
	for i := len(m.all) - 1; i >= 0 && steps > 0; i-- {
		mg := m.all[i]
		if mg.version > cur {
			continue
		}
		if mg.down == "" {
			return fmt.Errorf("migration %d_%s cannot be rolled back", mg.version, mg.name)
		}
		if err := m.apply(ctx, mg.version, mg.down, `DELETE FROM schema_migrations WHERE version = $1`); err != nil {
			return fmt.Errorf("down %d_%s: %w", mg.version, mg.name, err)
		}
		m.logger.Infow("migration rolled back", "version", mg.version, "name", mg.name)
		steps--
	}
	return nil
}

func main() {
	_ = godotenv.Load()

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		log.Fatal("DB_ADDR is required")
	}
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate up|down [n]|version")
	}

	all, err := loadMigrations(migrationFS)
	if err != nil {
		logger.Fatal(err)
	}

	db, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	m := &migrator{db: db, logger: logger, all: all}
	if err := m.ensureTable(ctx); err != nil {
		logger.Fatal(err)
	}

	switch os.Args[1] {
	case "up":
		err = m.Up(ctx)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				logger.Fatal(err)
			}
		}
		err = m.Down(ctx, steps)
	case "version":
		var v int
		if v, err = m.current(ctx); err == nil {
			fmt.Println(v)
		}
	default:
		err = errors.New("unknown command " + os.Args[1])
	}
	if err != nil {
		logger.Fatal(err)
	}
}
