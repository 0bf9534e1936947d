package database

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/jackc/pgx/v5"
  "github.com/jackc/pgx/v5/pgconn"
  "github.com/jackc/pgx/v5/pgxpool"
  "tvinup/internal/config"
)

const uniqueViolation = "23505"

var (
  ErrDuplicate = errors.New("email already exists")
  ErrNotFound  = errors.New("email not found")
)

// pool is the subset of *pgxpool.Pool the store uses.
type pool interface {
  Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
  QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
  Ping(ctx context.Context) error
  Close()
}

type DB struct {
  pool pool
}

func New(cfg *config.Config) (*DB, error) {
  connConfig, err := pgxpool.ParseConfig("")
  if err != nil {
    return nil, fmt.Errorf("failed to parse config: %w", err)
  }

  connConfig.ConnConfig.Host = cfg.DBHost
  connConfig.ConnConfig.Port = uint16(cfg.DBPort)
  connConfig.ConnConfig.Database = cfg.DBName
  connConfig.ConnConfig.User = cfg.DBUser
  connConfig.ConnConfig.Password = cfg.DBPass

  ctx, cancel := context.WithTimeout(
    context.Background(),
    10*time.Second,
  )
  defer cancel()

  p, err := pgxpool.NewWithConfig(ctx, connConfig)
  if err != nil {
    return nil, fmt.Errorf("failed to create pool: %w", err)
  }

  if err := p.Ping(ctx); err != nil {
    p.Close()
    return nil, fmt.Errorf("failed to ping database: %w", err)
  }

  return &DB{pool: p}, nil
}

func (db *DB) InitDB(ctx context.Context) error {
  queries := []string{
    `CREATE TABLE IF NOT EXISTS subscribers (
      id SERIAL PRIMARY KEY,
      email TEXT UNIQUE NOT NULL,
      created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
  }

  for _, query := range queries {
    if _, err := db.pool.Exec(ctx, query); err != nil {
      return fmt.Errorf("failed to execute query: %w", err)
    }
  }

  return nil
}

func (db *DB) AddSubscriber(
  ctx context.Context,
  email string,
) error {
  _, err := db.pool.Exec(
    ctx,
    "INSERT INTO subscribers (email) VALUES ($1)",
    email,
  )
  if err != nil {
    var pgErr *pgconn.PgError
    if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
      return ErrDuplicate
    }
    return fmt.Errorf("failed to add subscriber: %w", err)
  }
  return nil
}

func (db *DB) RemoveSubscriber(
  ctx context.Context,
  email string,
) error {
  result, err := db.pool.Exec(
    ctx,
    "DELETE FROM subscribers WHERE email = $1",
    email,
  )
  if err != nil {
    return fmt.Errorf("failed to remove subscriber: %w", err)
  }

  if result.RowsAffected() == 0 {
    return ErrNotFound
  }

  return nil
}

func (db *DB) CountSubscribers(ctx context.Context) (int, error) {
  var n int64
  err := db.pool.QueryRow(
    ctx,
    "SELECT COUNT(*) FROM subscribers",
  ).Scan(&n)
  if err != nil {
    return 0, fmt.Errorf("failed to count subscribers: %w", err)
  }
  return int(n), nil
}

func (db *DB) Ping(ctx context.Context) error {
  return db.pool.Ping(ctx)
}

func (db *DB) Close() {
  db.pool.Close()
}
