package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Create / Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseCreate_BorradorNoTocaStock(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "10", "5", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("7")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "COM-00001", pur.Number)
	assert.Equal(t, entity.DocStatusDraft, pur.Status)
	eq(t, "70", pur.RoundedAmount, "total 10 * 7")
	assert.False(t, pur.StockAdded)
	eq(t, "10", store.Products["p1"].CurrentStock, "el borrador no agrega stock")
	eq(t, "0", store.Suppliers["s1"].OutstandingBalance, "sin cargo al proveedor")
}

// Precio cero en la línea: se usa el costo promedio vigente del producto.
func TestPurchaseCreate_CostoPorDefectoDelProducto(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "10", "5", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("4")}},
	})
	require.NoError(t, err)
	eq(t, "5", pur.Items[0].UnitPrice, "costo heredado del producto")
}

// Recibir agrega stock al costo de línea y recalcula el promedio: 10@5 + 10@7 = 6.
func TestPurchaseReceive_AgregaStockYRecalculaCosto(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "10", "5", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("7")}},
	})
	require.NoError(t, err)

	received, err := uc.Receive(context.Background(), pur.ID, testUserID)
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusReceived, received.Status)
	assert.True(t, received.StockAdded)
	assert.NotNil(t, received.ReceivedAt)

	p := store.Products["p1"]
	eq(t, "20", p.CurrentStock, "stock sumado")
	eq(t, "6", p.Cost, "costo promedio recalculado")

	require.Len(t, store.Movements, 1)
	mov := store.Movements[0]
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, entity.ReasonPurchase, mov.Reason)
	assert.Equal(t, "s1", mov.SupplierID)
	assert.Equal(t, entity.DocTypePurchase, mov.ReferenceType)

	sup := store.Suppliers["s1"]
	eq(t, "70", sup.OutstandingBalance, "saldo pendiente con el proveedor")
	eq(t, "70", sup.TotalPurchases, "acumulado histórico")
}

func TestPurchaseReceive_DobleRecepcion(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("5"), UnitPrice: d("2")}},
	})
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), pur.ID, testUserID)
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), pur.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	eq(t, "5", store.Products["p1"].CurrentStock, "el stock entró una sola vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordPayment — asimetría con facturas
// ──────────────────────────────────────────────────────────────────────────────

// Efectivo sobre un borrador auto-recibe la compra.
func TestPurchasePayment_EfectivoAutoRecibe(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)

	paid, err := uc.RecordPayment(context.Background(), pur.ID, testUserID, dto.RecordPaymentRequest{
		Amount: d("30"), Method: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusPaid, paid.Status, "pago completo tras auto-recepción")
	assert.True(t, paid.StockAdded)
	eq(t, "10", store.Products["p1"].CurrentStock, "mercancía ingresada")
	// Cargo de 30 por la recepción menos abono de 30.
	eq(t, "0", store.Suppliers["s1"].OutstandingBalance, "proveedor saldado")
	eq(t, "30", store.Suppliers["s1"].TotalPurchases, "acumulado histórico")
}

// Transferencia sobre un borrador se rechaza: no hay evidencia de recepción.
func TestPurchasePayment_TransferenciaEnBorradorSeRechaza(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)

	for _, method := range []string{entity.PaymentMethodTransfer, entity.PaymentMethodCheque} {
		_, err = uc.RecordPayment(context.Background(), pur.ID, testUserID, dto.RecordPaymentRequest{
			Amount: d("30"), Method: method,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidState, "método %s sobre borrador", method)
	}

	stored := store.Purchases[pur.ID]
	assert.Equal(t, entity.DocStatusDraft, stored.Status, "sigue en borrador")
	assert.Empty(t, stored.Payments, "sin pagos registrados")
	eq(t, "0", store.Products["p1"].CurrentStock, "sin efecto de stock")
}

// Tras recibir, cualquier método de pago es válido.
func TestPurchasePayment_TransferenciaTrasRecibir(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), pur.ID, testUserID)
	require.NoError(t, err)

	paid, err := uc.RecordPayment(context.Background(), pur.ID, testUserID, dto.RecordPaymentRequest{
		Amount: d("10"), Method: entity.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusPartial, paid.Status)
	eq(t, "20", paid.Balance, "saldo restante")
	eq(t, "20", store.Suppliers["s1"].OutstandingBalance, "saldo del proveedor tras abono")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

// Anular una recibida saca la mercancía y libera el saldo; TotalPurchases queda.
func TestPurchaseCancel_RevierteStockPreservaHistorico(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), pur.ID, testUserID)
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), pur.ID, testUserID, "proveedor equivocado")
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.StockAdded)
	eq(t, "0", store.Products["p1"].CurrentStock, "mercancía devuelta")
	require.Len(t, store.Movements, 2, "entrada original + salida de devolución")
	assert.Equal(t, entity.MovementTypeOUT, store.Movements[1].Type)
	assert.Equal(t, entity.ReasonReturn, store.Movements[1].Reason)

	sup := store.Suppliers["s1"]
	eq(t, "0", sup.OutstandingBalance, "saldo liberado")
	eq(t, "30", sup.TotalPurchases, "el acumulado histórico no se revierte")
}

// Si la mercancía recibida ya se vendió, la anulación completa se rechaza.
func TestPurchaseCancel_StockYaVendidoAbortaTodo(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), pur.ID, testUserID)
	require.NoError(t, err)

	// Se vendieron 8 de las 10 unidades recibidas.
	store.Products["p1"].CurrentStock = d("2")

	_, err = uc.Cancel(context.Background(), pur.ID, testUserID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored := store.Purchases[pur.ID]
	assert.Equal(t, entity.DocStatusReceived, stored.Status, "la compra sigue recibida")
	assert.True(t, stored.StockAdded)
	eq(t, "2", store.Products["p1"].CurrentStock, "stock intacto")
	assert.Len(t, store.Movements, 1, "sin salida de devolución")
	eq(t, "30", store.Suppliers["s1"].OutstandingBalance, "saldo intacto")
}

func TestPurchaseCancel_PagadaNoSePuede(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0", "10", "NONE")
	seedSupplier(store, "s1")
	uc := newPurchaseUC(store)

	pur, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("10"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)
	_, err = uc.RecordPayment(context.Background(), pur.ID, testUserID, dto.RecordPaymentRequest{
		Amount: d("30"), Method: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), pur.ID, testUserID, "")
	assert.ErrorIs(t, err, domain.ErrCannotCancelPaid)
}
