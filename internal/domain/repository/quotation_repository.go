package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// QuotationRepository define el puerto de persistencia para cotizaciones.
type QuotationRepository interface {
	Create(quotation *entity.Quotation) error
	Update(quotation *entity.Quotation) error
	ReplaceItems(quotationID string, items []entity.QuotationItem) error
	GetByID(id string) (*entity.Quotation, error)
	GetForUpdate(id string) (*entity.Quotation, error)
	List(status string, limit, offset int) ([]*entity.Quotation, error)
	Delete(id string) error
}
