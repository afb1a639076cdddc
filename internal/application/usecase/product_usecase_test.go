package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/application/usecase"
	"github.com/jhoicas/Comercial-api/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProductUC(store *testsupport.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(store.ProductRepo())
}

func TestProductCreate_IniciaSinCostoNiStock(t *testing.T) {
	store := testsupport.NewStore()
	uc := newProductUC(store)

	out, err := uc.Create(dto.CreateProductRequest{
		SKU:               "CAM-001",
		Name:              "Camisa",
		Price:             d("45"),
		TaxCode:           "B",
		LowStockThreshold: d("5"),
	})
	require.NoError(t, err)

	assert.True(t, out.Cost.IsZero(), "el costo nace en cero")
	assert.True(t, out.CurrentStock.IsZero(), "el stock nace en cero")
	assert.Equal(t, "B", out.TaxCode)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	store := testsupport.NewStore()
	uc := newProductUC(store)

	_, err := uc.Create(dto.CreateProductRequest{SKU: "CAM-001", Name: "Camisa", Price: d("45")})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{SKU: "CAM-001", Name: "Otra camisa", Price: d("50")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validaciones(t *testing.T) {
	store := testsupport.NewStore()
	uc := newProductUC(store)

	_, err := uc.Create(dto.CreateProductRequest{Name: "Sin SKU", Price: d("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "SKU obligatorio")

	_, err = uc.Create(dto.CreateProductRequest{SKU: "X-1", Name: "Precio negativo", Price: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateProductRequest{SKU: "X-2", Name: "Impuesto raro", Price: d("1"), TaxCode: "Z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Update jamás toca costo ni stock aunque el caller los mande.
func TestProductUpdate_NoTocaCostoNiStock(t *testing.T) {
	store := testsupport.NewStore()
	uc := newProductUC(store)

	out, err := uc.Create(dto.CreateProductRequest{SKU: "CAM-001", Name: "Camisa", Price: d("45")})
	require.NoError(t, err)

	// Simula stock y costo acumulados vía movimientos.
	store.Products[out.ID].CurrentStock = d("12")
	store.Products[out.ID].Cost = d("20")

	updated, err := uc.Update(out.ID, dto.UpdateProductRequest{
		Name:  "Camisa manga larga",
		Price: d("55"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Camisa manga larga", updated.Name)
	assert.True(t, d("55").Equal(updated.Price))
	assert.True(t, d("12").Equal(store.Products[out.ID].CurrentStock), "stock intacto")
	assert.True(t, d("20").Equal(store.Products[out.ID].Cost), "costo intacto")
}

func TestProductListLowStock(t *testing.T) {
	store := testsupport.NewStore()
	uc := newProductUC(store)

	a, err := uc.Create(dto.CreateProductRequest{SKU: "A", Name: "A", Price: d("1"), LowStockThreshold: d("5")})
	require.NoError(t, err)
	b, err := uc.Create(dto.CreateProductRequest{SKU: "B", Name: "B", Price: d("1"), LowStockThreshold: d("5")})
	require.NoError(t, err)

	store.Products[a.ID].CurrentStock = d("3")
	store.Products[b.ID].CurrentStock = d("9")

	low, err := uc.ListLowStock()
	require.NoError(t, err)
	require.Len(t, low, 1, "solo el producto en o bajo el umbral")
	assert.Equal(t, a.ID, low[0].ID)
}
