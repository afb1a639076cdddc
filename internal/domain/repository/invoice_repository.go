package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas (cabecera,
// líneas y pagos). GetByID/GetForUpdate devuelven el agregado completo.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas.
	Create(invoice *entity.Invoice) error
	// Update actualiza cabecera: estado, totales, pagos acumulados y auditoría.
	Update(invoice *entity.Invoice) error
	// ReplaceItems reemplaza las líneas (solo legal en borradores).
	ReplaceItems(invoiceID string, items []entity.DocumentItem) error
	// AddPayment agrega un abono (append-only).
	AddPayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar transiciones.
	GetForUpdate(id string) (*entity.Invoice, error)
	List(status string, limit, offset int) ([]*entity.Invoice, error)
	Delete(id string) error
}
