package billing

import (
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación PDF de una factura.
// La implementación vive en infraestructura (maroto).
type InvoicePDFGenerator interface {
	Generate(invoice *entity.Invoice, client *entity.Client) ([]byte, error)
}
