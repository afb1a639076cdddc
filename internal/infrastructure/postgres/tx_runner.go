package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// Reintentos acotados ante fallos de serialización (40001) o deadlock (40P01).
const maxTxRetries = 3

// txBeginner abre transacciones; lo satisface *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a la tx.
type TxRunner struct {
	db txBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{db: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los fallos de serialización reintentan la tx completa
// hasta maxTxRetries veces; agotados los reintentos devuelve
// domain.ErrConcurrentModification.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
			}
		}
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ports.TxRepos{
		Products:   NewProductRepository(tx),
		Movements:  NewStockMovementRepository(tx),
		Invoices:   NewInvoiceRepository(tx),
		Purchases:  NewPurchaseRepository(tx),
		Quotations: NewQuotationRepository(tx),
		Clients:    NewClientRepository(tx),
		Suppliers:  NewSupplierRepository(tx),
		Sequences:  NewSequenceRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
