package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
)

// fakeTx implementa pgx.Tx sin tocar la red; cuenta commits y rollbacks.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { t.rollbacks++; return nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeBeginner struct {
	tx *fakeTx
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) { return b.tx, nil }

func serializationErr() error {
	return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
}

// Agotados los reintentos, el error se traduce a ErrConcurrentModification.
func TestTxRunner_SerializacionAgotaReintentos(t *testing.T) {
	tx := &fakeTx{}
	runner := &TxRunner{db: &fakeBeginner{tx: tx}}

	attempts := 0
	err := runner.Run(context.Background(), func(repos ports.TxRepos) error {
		attempts++
		return serializationErr()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, maxTxRetries, attempts, "la tx completa se reintenta un número acotado de veces")
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, maxTxRetries, tx.rollbacks)
}

// Un fallo de serialización transitorio se recupera en el siguiente intento.
func TestTxRunner_SerializacionTransitoriaSeRecupera(t *testing.T) {
	tx := &fakeTx{}
	runner := &TxRunner{db: &fakeBeginner{tx: tx}}

	attempts := 0
	err := runner.Run(context.Background(), func(repos ports.TxRepos) error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tx.commits, "el intento exitoso confirma la tx")
}

// Los errores de negocio no se reintentan: se devuelven tal cual tras rollback.
func TestTxRunner_ErrorDeNegocioNoReintenta(t *testing.T) {
	tx := &fakeTx{}
	runner := &TxRunner{db: &fakeBeginner{tx: tx}}

	attempts := 0
	err := runner.Run(context.Background(), func(repos ports.TxRepos) error {
		attempts++
		return domain.ErrInvalidInput
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, attempts, "sin reintentos para errores no transitorios")
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("sin código pg")))
}
