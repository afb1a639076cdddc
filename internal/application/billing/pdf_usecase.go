package billing

import (
	"context"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// InvoicePDFUseCase arma el PDF imprimible de una factura.
type InvoicePDFUseCase struct {
	invoices  repository.InvoiceRepository
	clients   repository.ClientRepository
	generator InvoicePDFGenerator
}

// NewInvoicePDFUseCase construye el caso de uso.
func NewInvoicePDFUseCase(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	generator InvoicePDFGenerator,
) *InvoicePDFUseCase {
	return &InvoicePDFUseCase{invoices: invoices, clients: clients, generator: generator}
}

// Generate devuelve los bytes del PDF de la factura.
func (uc *InvoicePDFUseCase) Generate(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	client, err := uc.clients.GetByID(inv.ClientID)
	if err != nil {
		return nil, "", err
	}
	if client == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.generator.Generate(inv, client)
	if err != nil {
		return nil, "", err
	}
	return pdf, inv.Number + ".pdf", nil
}
