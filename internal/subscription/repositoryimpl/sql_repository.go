package repositoryimpl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kazz187/taskdigest/internal/subscription"
	"github.com/kazz187/taskdigest/internal/subscription/repositoryimpl/migrations"
	"github.com/kazz187/taskdigest/pkg/cerr"
)

var _ subscription.Repository = (*SQLRepository)(nil)

// SQLRepository stores subscriptions in PostgreSQL or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
}

// Open connects with the given database/sql driver ("postgres" or "sqlite")
// and applies pending migrations.
func Open(ctx context.Context, driver, dsn string) (*SQLRepository, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.driver, err)
	}
	if d == sqliteDialect {
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.driver, err)
	}
	if d == sqliteDialect {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := applyMigrations(ctx, db, d, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLRepository{db: db, dialect: d}, nil
}

func (r *SQLRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLRepository) Subscribe(ctx context.Context, email string, categoryID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("begin subscribe: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO users (email, name) VALUES (?, '') ON CONFLICT (email) DO NOTHING"),
		email,
	); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("insert user: %w", err))
	}
	var userID int64
	if err := tx.QueryRowContext(ctx, r.dialect.rebind("SELECT id FROM users WHERE email = ?"), email).Scan(&userID); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("select user: %w", err))
	}
	if _, err := tx.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO user_category_subscriptions (user_id, category_id) VALUES (?, ?) ON CONFLICT (user_id, category_id) DO NOTHING"),
		userID, categoryID,
	); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("insert subscription: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("commit subscribe: %w", err))
	}
	return nil
}

func (r *SQLRepository) Unsubscribe(ctx context.Context, email string, categoryID int64) error {
	_, err := r.db.ExecContext(ctx,
		r.dialect.rebind(`DELETE FROM user_category_subscriptions
		 WHERE category_id = ?
		   AND user_id IN (SELECT id FROM users WHERE email = ?)`),
		categoryID, email,
	)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("delete subscription: %w", err))
	}
	return nil
}

func (r *SQLRepository) ListCategoryIDs(ctx context.Context, email string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		r.dialect.rebind(`SELECT s.category_id
		   FROM user_category_subscriptions s
		   JOIN users u ON u.id = s.user_id
		  WHERE u.email = ?
		  ORDER BY s.id`),
		email,
	)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("list subscriptions: %w", err))
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("scan subscription: %w", err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("list subscriptions: %w", err))
	}
	return ids, nil
}
