package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

const testUserID = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eq(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

func newInvoiceUC(store *testsupport.Store) *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(testsupport.NewTxRunner(store), store.InvoiceRepo(), store.ClientRepo())
}

func newPurchaseUC(store *testsupport.Store) *billing.PurchaseUseCase {
	return billing.NewPurchaseUseCase(testsupport.NewTxRunner(store), store.PurchaseRepo(), store.SupplierRepo())
}

func newQuotationUC(store *testsupport.Store) *billing.QuotationUseCase {
	return billing.NewQuotationUseCase(testsupport.NewTxRunner(store), store.QuotationRepo())
}

func seedProduct(store *testsupport.Store, id, stock, cost, price, taxCode string) {
	store.Products[id] = &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		Price:        d(price),
		Cost:         d(cost),
		TaxCode:      taxCode,
		CurrentStock: d(stock),
		CreatedAt:    time.Now(),
	}
}

func seedClient(store *testsupport.Store, id string) {
	store.Clients[id] = &entity.Client{
		ID:                 id,
		Name:               "Cliente " + id,
		OutstandingBalance: decimal.Zero,
		CreatedAt:          time.Now(),
	}
}

func seedSupplier(store *testsupport.Store, id string) {
	store.Suppliers[id] = &entity.Supplier{
		ID:                 id,
		Name:               "Proveedor " + id,
		OutstandingBalance: decimal.Zero,
		TotalPurchases:     decimal.Zero,
		CreatedAt:          time.Now(),
	}
}
