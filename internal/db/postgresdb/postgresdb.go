// Package postgresdb is the PostgreSQL storage backend. It connects through
// the pgx stdlib driver and bootstraps its schema with goose migrations.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

const pgUniqueViolationCode = "23505"

// PostgresDB implements storage.Storage over a PostgreSQL database.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New opens the database connection and applies pending migrations from
// migrationsDir.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// FindUserByUsername returns the user registered under username or
// models.ErrUserNotFound.
func (db *PostgresDB) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	usr := &user.User{}
	err := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&usr.ID, &usr.Username, &usr.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	return usr, nil
}

// CreateUser inserts a new user record. Both the pre-insert check and the
// unique constraint on username map to models.ErrDuplicateUsername, so the
// narrow check-then-insert race is resolved by the database itself.
func (db *PostgresDB) CreateUser(ctx context.Context, username, passwordHash string) (*user.User, error) {
	usr := &user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
		usr.ID,
		usr.Username,
		usr.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return nil, models.ErrDuplicateUsername
		}
		return nil, err
	}

	return usr, nil
}

// ListMemos returns every memo ordered by creation time, most recent first.
func (db *PostgresDB) ListMemos(ctx context.Context) ([]models.Memo, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, content, created_at FROM memos ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Memo{}
	for rows.Next() {
		var memo models.Memo
		if err := rows.Scan(&memo.ID, &memo.Content, &memo.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, memo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateMemo inserts a new memo; the creation timestamp is assigned by the
// database.
func (db *PostgresDB) CreateMemo(ctx context.Context, content string) (*models.Memo, error) {
	memo := &models.Memo{
		ID:      uuid.NewString(),
		Content: content,
	}

	err := db.database.QueryRowContext(
		ctx,
		`INSERT INTO memos (id, content) VALUES ($1, $2) RETURNING created_at`,
		memo.ID,
		memo.Content,
	).Scan(&memo.CreatedAt)
	if err != nil {
		return nil, err
	}

	return memo, nil
}

// UpdateMemo replaces the content of the memo with the given id, leaving id
// and creation timestamp untouched.
func (db *PostgresDB) UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error) {
	memo := &models.Memo{}
	err := db.database.QueryRowContext(
		ctx,
		`UPDATE memos SET content = $2 WHERE id = $1 RETURNING id, content, created_at`,
		id,
		content,
	).Scan(&memo.ID, &memo.Content, &memo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrMemoNotFound
		}
		return nil, err
	}

	return memo, nil
}

// DeleteMemo removes the memo with the given id and returns the removed
// record.
func (db *PostgresDB) DeleteMemo(ctx context.Context, id string) (*models.Memo, error) {
	memo := &models.Memo{}
	err := db.database.QueryRowContext(
		ctx,
		`DELETE FROM memos WHERE id = $1 RETURNING id, content, created_at`,
		id,
	).Scan(&memo.ID, &memo.Content, &memo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrMemoNotFound
		}
		return nil, err
	}

	return memo, nil
}

// Ping checks database reachability within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}
