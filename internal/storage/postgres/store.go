package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides Postgres-backed persistence for users. Ids are still
// allocated by the caller, so the table has no sequence.
type Store struct {
	pool     *pgxpool.Pool
	capacity int
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string, capacity int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool, capacity: capacity}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS shop_users (
		id BIGINT PRIMARY KEY CHECK (id > 0),
		name TEXT NOT NULL,
		password TEXT NOT NULL,
		phone TEXT NOT NULL,
		balance NUMERIC(24,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		role SMALLINT NOT NULL CHECK (role IN (0, 1)),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
	SELECT id, name, password, phone, balance::float8, role
	FROM shop_users
	WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// Save inserts the user or overwrites the row with the same id.
func (s *Store) Save(ctx context.Context, user models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidUser, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &storage.WriteError{Path: "postgres", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shop_users WHERE id = $1)`, user.ID).Scan(&exists); err != nil {
		return &storage.WriteError{Path: "postgres", Err: err}
	}
	if !exists && s.capacity > 0 {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM shop_users`).Scan(&count); err != nil {
			return &storage.WriteError{Path: "postgres", Err: err}
		}
		if count >= s.capacity {
			return storage.ErrCapacity
		}
	}

	const upsert = `
	INSERT INTO shop_users (id, name, password, phone, balance, role)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		password = EXCLUDED.password,
		phone = EXCLUDED.phone,
		balance = EXCLUDED.balance,
		role = EXCLUDED.role;
	`
	if _, err := tx.Exec(ctx, upsert, user.ID, user.Name, user.Password, user.Phone, user.Balance, int16(user.Role)); err != nil {
		return &storage.WriteError{Path: "postgres", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &storage.WriteError{Path: "postgres", Err: err}
	}
	return nil
}

// LoadAll reports how many users the table holds, up to capacity. The
// database is always the current snapshot, so there is nothing to cache.
func (s *Store) LoadAll(ctx context.Context, capacity int) (int, error) {
	if capacity <= 0 {
		capacity = s.capacity
	}
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shop_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if capacity > 0 && count > capacity {
		count = capacity
	}
	return count, nil
}

// Users lists every user ordered by id, which is also insertion order since
// ids only grow.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	const query = `
	SELECT id, name, password, phone, balance::float8, role
	FROM shop_users
	ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Truncate removes every row. Intended for tests.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE shop_users`)
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role int16
	if err := row.Scan(&user.ID, &user.Name, &user.Password, &user.Phone, &user.Balance, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	return user, nil
}
