package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	domainbilling "github.com/jhoicas/Comercial-api/internal/domain/billing"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// buildDocumentItems resuelve las líneas de una petición contra los productos:
// precio cero toma el precio de venta (facturas) o el costo promedio vigente
// (compras), código de impuesto vacío toma el del producto, y todos los campos
// derivados se recalculan descartando lo que traiga el caller.
func buildDocumentItems(products repository.ProductRepository, reqs []dto.DocumentItemRequest, forPurchase bool) ([]entity.DocumentItem, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.DocumentItem, 0, len(reqs))
	for _, r := range reqs {
		product, err := products.GetByID(r.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := r.UnitPrice
		if unitPrice.IsZero() {
			if forPurchase {
				unitPrice = product.Cost
			} else {
				unitPrice = product.Price
			}
		}
		taxCode := r.TaxCode
		if taxCode == "" {
			taxCode = product.TaxCode
		}
		if taxCode == "" {
			taxCode = domainbilling.TaxCodeNone
		}
		item := entity.DocumentItem{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    r.Quantity,
			UnitPrice:   unitPrice,
			Discount:    r.Discount,
			TaxCode:     taxCode,
		}
		if err := domainbilling.ValidateItem(&item); err != nil {
			return nil, err
		}
		domainbilling.ComputeItem(&item)
		items = append(items, item)
	}
	return items, nil
}

// validPaymentAmount valida el monto de un abono.
func validPaymentAmount(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}
