package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

func createQuotation(t *testing.T, store *testsupport.Store, validUntil *time.Time) *entity.Quotation {
	t.Helper()
	uc := newQuotationUC(store)
	q, err := uc.Create(context.Background(), testUserID, dto.CreateQuotationRequest{
		ClientID:   "c1",
		Items:      []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("4"), Discount: d("5")}},
		ValidUntil: validUntil,
	})
	require.NoError(t, err)
	return q
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// La cotización guarda precios congelados y no deriva impuestos todavía.
func TestQuotationCreate_SinImpuestos(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")

	q := createQuotation(t, store, nil)

	assert.Equal(t, "COT-00001", q.Number)
	assert.Equal(t, entity.QuotationStatusDraft, q.Status)
	eq(t, "40", q.Subtotal, "4 * 10")
	eq(t, "5", q.TotalDiscount, "descuento")
	eq(t, "35", q.Total, "total sin impuesto")
	require.Len(t, q.Items, 1)
	assert.Equal(t, "B", q.Items[0].TaxCode, "el código se guarda para la conversión")
	eq(t, "35", q.Items[0].Total, "línea neta")

	assert.Empty(t, store.Movements, "las cotizaciones nunca tocan stock")
}

func TestQuotationCreate_DescuentoMayorAlSubtotal(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateQuotationRequest{
		ClientID: "c1",
		Items:    []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("1"), Discount: d("11")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Send / Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestQuotationLifecycle_SendApprove(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	sent, err := uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	approved, err := uc.Approve(context.Background(), q.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusApproved, approved.Status)
	assert.Equal(t, testUserID, approved.ApprovedBy)

	_, err = uc.Send(context.Background(), q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "aprobada no se reenvía")
}

func TestQuotationReject(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	rejected, err := uc.Reject(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusRejected, rejected.Status)

	_, err = uc.Approve(context.Background(), q.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "rechazada no se aprueba")
}

// Aprobar exige que la cotización haya sido enviada: un borrador se rechaza.
func TestQuotationApprove_SoloEnviadas(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	_, err := uc.Approve(context.Background(), q.ID, testUserID)
	require.ErrorIs(t, err, domain.ErrInvalidState, "borrador no enviado no se aprueba")

	stored := store.Quotations[q.ID]
	assert.Equal(t, entity.QuotationStatusDraft, stored.Status, "el borrador queda intacto")
	assert.Empty(t, stored.ApprovedBy)
	assert.Nil(t, stored.ApprovedAt)

	_, err = uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin aprobación no hay conversión")
	assert.Empty(t, store.Invoices)
}

// Aprobar una vencida falla, pero el estado expired queda persistido.
func TestQuotationApprove_VencidaQuedaExpired(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)

	past := time.Now().Add(-24 * time.Hour)
	q := createQuotation(t, store, &past)

	_, err := uc.Send(context.Background(), q.ID)
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), q.ID, testUserID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	stored := store.Quotations[q.ID]
	assert.Equal(t, entity.QuotationStatusExpired, stored.Status, "el vencimiento se persistió")
}

// ──────────────────────────────────────────────────────────────────────────────
// Convert
// ──────────────────────────────────────────────────────────────────────────────

// La conversión crea una factura en borrador con los precios congelados de la
// cotización y deriva recién ahí los campos de impuesto.
func TestQuotationConvert_CreaFacturaBorrador(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	_, err := uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), q.ID, testUserID)
	require.NoError(t, err)

	// El precio del producto cambia después de cotizar: no debe afectar.
	store.Products["p1"].Price = d("99")

	inv, err := uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	require.NoError(t, err)

	assert.Equal(t, "FAC-00001", inv.Number)
	assert.Equal(t, entity.DocStatusDraft, inv.Status)
	assert.Equal(t, q.ID, inv.QuotationID)
	require.Len(t, inv.Items, 1)
	eq(t, "10", inv.Items[0].UnitPrice, "precio congelado al cotizar")
	eq(t, "18", inv.Items[0].TaxRate, "impuesto derivado del código B")
	// (40 - 5) * 18% = 6.3
	eq(t, "41.3", inv.RoundedAmount, "total con impuesto")

	stored := store.Quotations[q.ID]
	assert.Equal(t, entity.QuotationStatusConverted, stored.Status)
	assert.Equal(t, inv.ID, stored.ConvertedToInvoiceID)
	assert.NotNil(t, stored.ConvertedAt)

	assert.Empty(t, store.Movements, "la factura nace en borrador sin tocar stock")
}

// La conversión es única: el segundo intento se rechaza.
func TestQuotationConvert_SegundaConversionSeRechaza(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	_, err := uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), q.ID, testUserID)
	require.NoError(t, err)
	_, err = uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	require.NoError(t, err)

	_, err = uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
	assert.Len(t, store.Invoices, 1, "no se creó una segunda factura")
}

func TestQuotationConvert_SoloAprobadas(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	_, err := uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "borrador no se convierte")

	_, err = uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	_, err = uc.Convert(context.Background(), q.ID, testUserID, dto.ConvertQuotationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "enviada sin aprobar no se convierte")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestQuotationUpdate_SoloBorrador(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	updated, err := uc.Update(context.Background(), q.ID, dto.UpdateQuotationRequest{
		Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("2")}},
	})
	require.NoError(t, err)
	eq(t, "20", updated.Total, "totales recalculados")

	_, err = uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	_, err = uc.Update(context.Background(), q.ID, dto.UpdateQuotationRequest{
		Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "enviada no es editable")
}

func TestQuotationDelete_SoloBorrador(t *testing.T) {
	store := testsupport.NewStore()
	seedProduct(store, "p1", "100", "4", "10", "B")
	seedClient(store, "c1")
	uc := newQuotationUC(store)
	q := createQuotation(t, store, nil)

	_, err := uc.Send(context.Background(), q.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(context.Background(), q.ID), domain.ErrInvalidState)
}
