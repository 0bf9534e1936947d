package database

import (
  "context"
  "errors"
  "testing"

  "github.com/jackc/pgx/v5/pgconn"
  "github.com/pashagolub/pgxmock/v4"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
  t.Helper()
  mock, err := pgxmock.NewPool()
  require.NoError(t, err)
  t.Cleanup(mock.Close)
  return &DB{pool: mock}, mock
}

func TestInitDB(t *testing.T) {
  db, mock := newMockDB(t)

  mock.ExpectExec("CREATE TABLE IF NOT EXISTS subscribers").
    WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

  require.NoError(t, db.InitDB(context.Background()))
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSubscriber(t *testing.T) {
  ctx := context.Background()

  t.Run("inserted", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectExec("INSERT INTO subscribers").
      WithArgs("nino@example.ge").
      WillReturnResult(pgxmock.NewResult("INSERT", 1))

    assert.NoError(t, db.AddSubscriber(ctx, "nino@example.ge"))
    assert.NoError(t, mock.ExpectationsWereMet())
  })

  t.Run("duplicate", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectExec("INSERT INTO subscribers").
      WithArgs("nino@example.ge").
      WillReturnError(&pgconn.PgError{Code: uniqueViolation})

    err := db.AddSubscriber(ctx, "nino@example.ge")
    assert.ErrorIs(t, err, ErrDuplicate)
  })

  t.Run("other failure", func(t *testing.T) {
    db, mock := newMockDB(t)
    boom := errors.New("connection reset")
    mock.ExpectExec("INSERT INTO subscribers").
      WithArgs("nino@example.ge").
      WillReturnError(boom)

    err := db.AddSubscriber(ctx, "nino@example.ge")
    assert.ErrorIs(t, err, boom)
    assert.NotErrorIs(t, err, ErrDuplicate)
  })
}

func TestRemoveSubscriber(t *testing.T) {
  ctx := context.Background()

  t.Run("removed", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectExec("DELETE FROM subscribers WHERE email").
      WithArgs("nino@example.ge").
      WillReturnResult(pgxmock.NewResult("DELETE", 1))

    assert.NoError(t, db.RemoveSubscriber(ctx, "nino@example.ge"))
  })

  t.Run("missing", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectExec("DELETE FROM subscribers WHERE email").
      WithArgs("ghost@example.ge").
      WillReturnResult(pgxmock.NewResult("DELETE", 0))

    assert.ErrorIs(t, db.RemoveSubscriber(ctx, "ghost@example.ge"), ErrNotFound)
  })
}

func TestCountSubscribers(t *testing.T) {
  ctx := context.Background()

  t.Run("success", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM subscribers").
      WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

    n, err := db.CountSubscribers(ctx)
    require.NoError(t, err)
    assert.Equal(t, 42, n)
    assert.NoError(t, mock.ExpectationsWereMet())
  })

  t.Run("failure", func(t *testing.T) {
    db, mock := newMockDB(t)
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM subscribers").
      WillReturnError(errors.New("db down"))

    n, err := db.CountSubscribers(ctx)
    assert.Error(t, err)
    assert.Zero(t, n)
  })
}

func TestPing(t *testing.T) {
  mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
  require.NoError(t, err)
  defer mock.Close()
  db := &DB{pool: mock}

  mock.ExpectPing()
  assert.NoError(t, db.Ping(context.Background()))
  assert.NoError(t, mock.ExpectationsWereMet())
}
