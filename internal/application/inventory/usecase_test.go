package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/inventory"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

const testUserID = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eq(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

func newStockUC(store *testsupport.Store) *inventory.StockUseCase {
	return inventory.NewStockUseCase(testsupport.NewTxRunner(store), store.ProductRepo(), store.MovementRepo())
}

func seedProduct(store *testsupport.Store, id, stock, cost string) {
	store.Products[id] = &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		Price:        d("100"),
		Cost:         d(cost),
		TaxCode:      "B",
		CurrentStock: d(stock),
		CreatedAt:    time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceiveStock
// ──────────────────────────────────────────────────────────────────────────────

// 10 unidades a 5 y luego 10 a 7: el stock suma y el promedio queda en 6.
func TestReceiveStock_RecalculaCostoPromedio(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0")
	uc := newStockUC(store)

	mov1, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("10"), UnitCost: d("5"),
	})
	require.NoError(t, err)
	eq(t, "0", mov1.PreviousStock, "snapshot previo de la primera entrada")
	eq(t, "10", mov1.NewStock, "snapshot nuevo de la primera entrada")

	mov2, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("10"), UnitCost: d("7"),
	})
	require.NoError(t, err)
	eq(t, "10", mov2.PreviousStock, "snapshot previo de la segunda entrada")
	eq(t, "20", mov2.NewStock, "snapshot nuevo de la segunda entrada")

	p := store.Products["p1"]
	eq(t, "20", p.CurrentStock, "stock final")
	eq(t, "6", p.Cost, "costo promedio ponderado")
	assert.Len(t, store.Movements, 2, "dos entradas en el libro")
}

func TestReceiveStock_RazonInvalida(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0")
	uc := newStockUC(store)

	_, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("5"), UnitCost: d("2"), Reason: entity.ReasonDamage,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "damage no es razón de entrada directa")
}

func TestReceiveStock_ProductoInexistente(t *testing.T) {
	store := testsupport.NewStore()
	uc := newStockUC(store)

	_, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "nope", Quantity: d("5"), UnitCost: d("2"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements, "nada quedó en el libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

// Un ajuste de salida descuenta stock y nunca toca el costo promedio.
func TestAdjustStock_SalidaNoTocaCosto(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "50", "6")
	uc := newStockUC(store)

	mov, err := uc.AdjustStock(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: "p1", Quantity: d("8"), Direction: inventory.DirectionOut, Reason: entity.ReasonDamage,
	})
	require.NoError(t, err)
	eq(t, "50", mov.PreviousStock, "snapshot previo")
	eq(t, "42", mov.NewStock, "snapshot nuevo")

	p := store.Products["p1"]
	eq(t, "42", p.CurrentStock, "stock descontado")
	eq(t, "6", p.Cost, "el ajuste no recalcula costo")
}

func TestAdjustStock_EntradaPorCorreccion(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "10", "3")
	uc := newStockUC(store)

	_, err := uc.AdjustStock(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: "p1", Quantity: d("2"), Direction: inventory.DirectionIn, Reason: entity.ReasonCorrection,
	})
	require.NoError(t, err)
	eq(t, "12", store.Products["p1"].CurrentStock, "stock sumado")
	eq(t, "3", store.Products["p1"].Cost, "costo intacto")
}

// Salida mayor al disponible: se rechaza y nada cambia.
func TestAdjustStock_StockInsuficiente(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "5", "4")
	uc := newStockUC(store)

	_, err := uc.AdjustStock(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: "p1", Quantity: d("6"), Direction: inventory.DirectionOut, Reason: entity.ReasonLoss,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	eq(t, "5", detail.Available, "disponible en el error")
	eq(t, "6", detail.Required, "requerido en el error")

	eq(t, "5", store.Products["p1"].CurrentStock, "stock intacto tras el rechazo")
	assert.Empty(t, store.Movements, "el libro no registra el intento")
}

func TestAdjustStock_DireccionYRazonInvalidas(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "5", "4")
	uc := newStockUC(store)

	_, err := uc.AdjustStock(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: "p1", Quantity: d("1"), Direction: "sideways", Reason: entity.ReasonDamage,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dirección desconocida")

	_, err = uc.AdjustStock(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: "p1", Quantity: d("1"), Direction: inventory.DirectionOut, Reason: entity.ReasonSale,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sale no es razón de ajuste manual")
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteMovement
// ──────────────────────────────────────────────────────────────────────────────

// Borrar el último movimiento revierte el stock al snapshot previo.
func TestDeleteMovement_UltimoRevierteStock(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0")
	uc := newStockUC(store)

	_, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("10"), UnitCost: d("5"),
	})
	require.NoError(t, err)
	mov2, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("4"), UnitCost: d("5"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteMovement(context.Background(), mov2.ID))
	eq(t, "10", store.Products["p1"].CurrentStock, "stock revertido al snapshot previo")
	assert.Len(t, store.Movements, 1, "el movimiento borrado salió del libro")
}

// Borrar un movimiento que no es el último rompe la cadena: se rechaza.
func TestDeleteMovement_NoUltimoSeRechaza(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0")
	uc := newStockUC(store)

	mov1, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("10"), UnitCost: d("5"),
	})
	require.NoError(t, err)
	_, err = uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("4"), UnitCost: d("5"),
	})
	require.NoError(t, err)

	err = uc.DeleteMovement(context.Background(), mov1.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	eq(t, "14", store.Products["p1"].CurrentStock, "stock intacto")
	assert.Len(t, store.Movements, 2, "el libro quedó igual")
}

func TestDeleteMovement_Inexistente(t *testing.T) {
	store := testsupport.NewStore()
	uc := newStockUC(store)
	assert.ErrorIs(t, uc.DeleteMovement(context.Background(), "nope"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovementsByProduct_FiltraPorFecha(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "0", "0")
	uc := newStockUC(store)

	_, err := uc.ReceiveStock(context.Background(), testUserID, dto.ReceiveStockRequest{
		ProductID: "p1", Quantity: d("1"), UnitCost: d("1"),
	})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	movs, err := uc.ListMovementsByProduct(context.Background(), "p1", &future, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "ningún movimiento después de from")

	movs, err = uc.ListMovementsByProduct(context.Background(), "p1", nil, &future, 20, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "todos los movimientos antes de to")
}
