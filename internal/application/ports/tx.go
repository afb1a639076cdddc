package ports

import (
	"context"

	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a la transacción en curso.
type TxRepos struct {
	Products   repository.ProductRepository
	Movements  repository.StockMovementRepository
	Invoices   repository.InvoiceRepository
	Purchases  repository.PurchaseRepository
	Quotations repository.QuotationRepository
	Clients    repository.ClientRepository
	Suppliers  repository.SupplierRepository
	Sequences  repository.SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx: o todo se persiste (ledger, agregado de
// producto, estado del documento, saldos) o nada. La implementación reintenta
// fallos de serialización un número acotado de veces antes de devolver
// domain.ErrConcurrentModification.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
