package testsupport

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// ── Products ──────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

// ProductRepo devuelve el repositorio fake de productos (para inyección directa).
func (s *Store) ProductRepo() repository.ProductRepository { return productRepo{s} }

func (r productRepo) Create(p *entity.Product) error {
	if _, ok := r.s.Products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.Products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.Products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.Products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r productRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r productRepo) Update(p *entity.Product) error {
	current, ok := r.s.Products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneProduct(p)
	// Stock y costo solo cambian vía UpdateStockAndCost.
	cp.CurrentStock = current.CurrentStock
	cp.Cost = current.Cost
	r.s.Products[p.ID] = cp
	return nil
}

func (r productRepo) UpdateStockAndCost(productID string, stock, cost decimal.Decimal) error {
	p, ok := r.s.Products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	p.Cost = cost
	return nil
}

func (r productRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.Products))
	for _, p := range r.s.Products {
		out = append(out, cloneProduct(p))
	}
	return page(out, limit, offset), nil
}

func (r productRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.IsLowStock() {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r productRepo) Delete(id string) error {
	if _, ok := r.s.Products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Products, id)
	return nil
}

// ── Movements ─────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

// MovementRepo devuelve el repositorio fake del libro de movimientos.
func (s *Store) MovementRepo() repository.StockMovementRepository { return movementRepo{s} }

func (r movementRepo) Create(m *entity.StockMovement) error {
	r.s.Movements = append(r.s.Movements, cloneMovement(m))
	return nil
}

func (r movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			return cloneMovement(m), nil
		}
	}
	return nil, nil
}

func (r movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.Movements) - 1; i >= 0; i-- {
		m := r.s.Movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.MovementDate.Before(*from) {
			continue
		}
		if to != nil && m.MovementDate.After(*to) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	return page(out, limit, offset), nil
}

func (r movementRepo) List(limit, offset int) ([]*entity.StockMovement, error) {
	out := make([]*entity.StockMovement, 0, len(r.s.Movements))
	for i := len(r.s.Movements) - 1; i >= 0; i-- {
		out = append(out, cloneMovement(r.s.Movements[i]))
	}
	return page(out, limit, offset), nil
}

func (r movementRepo) IsLatest(id, productID string) (bool, error) {
	for i := len(r.s.Movements) - 1; i >= 0; i-- {
		if r.s.Movements[i].ProductID == productID {
			return r.s.Movements[i].ID == id, nil
		}
	}
	return false, nil
}

func (r movementRepo) Delete(id string) error {
	for i, m := range r.s.Movements {
		if m.ID == id {
			r.s.Movements = append(r.s.Movements[:i], r.s.Movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type invoiceRepo struct{ s *Store }

// InvoiceRepo devuelve el repositorio fake de facturas.
func (s *Store) InvoiceRepo() repository.InvoiceRepository { return invoiceRepo{s} }

func (r invoiceRepo) Create(inv *entity.Invoice) error {
	if _, ok := r.s.Invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r invoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.s.Invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r invoiceRepo) ReplaceItems(invoiceID string, items []entity.DocumentItem) error {
	inv, ok := r.s.Invoices[invoiceID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Items = append([]entity.DocumentItem(nil), items...)
	return nil
}

func (r invoiceRepo) AddPayment(p *entity.Payment) error {
	inv, ok := r.s.Invoices[p.DocumentID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Payments = append(inv.Payments, *p)
	return nil
}

func (r invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.Invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r invoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) { return r.GetByID(id) }

func (r invoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.Invoices {
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	return page(out, limit, offset), nil
}

func (r invoiceRepo) Delete(id string) error {
	if _, ok := r.s.Invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Invoices, id)
	return nil
}

// ── Purchases ─────────────────────────────────────────────────────────────────

type purchaseRepo struct{ s *Store }

// PurchaseRepo devuelve el repositorio fake de compras.
func (s *Store) PurchaseRepo() repository.PurchaseRepository { return purchaseRepo{s} }

func (r purchaseRepo) Create(p *entity.Purchase) error {
	if _, ok := r.s.Purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r purchaseRepo) Update(p *entity.Purchase) error {
	if _, ok := r.s.Purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r purchaseRepo) ReplaceItems(purchaseID string, items []entity.DocumentItem) error {
	p, ok := r.s.Purchases[purchaseID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Items = append([]entity.DocumentItem(nil), items...)
	return nil
}

func (r purchaseRepo) AddPayment(pay *entity.Payment) error {
	p, ok := r.s.Purchases[pay.DocumentID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Payments = append(p.Payments, *pay)
	return nil
}

func (r purchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.s.Purchases[id]
	if !ok {
		return nil, nil
	}
	return clonePurchase(p), nil
}

func (r purchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) { return r.GetByID(id) }

func (r purchaseRepo) List(status string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.s.Purchases {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, clonePurchase(p))
	}
	return page(out, limit, offset), nil
}

func (r purchaseRepo) Delete(id string) error {
	if _, ok := r.s.Purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Purchases, id)
	return nil
}

// ── Quotations ────────────────────────────────────────────────────────────────

type quotationRepo struct{ s *Store }

// QuotationRepo devuelve el repositorio fake de cotizaciones.
func (s *Store) QuotationRepo() repository.QuotationRepository { return quotationRepo{s} }

func (r quotationRepo) Create(q *entity.Quotation) error {
	if _, ok := r.s.Quotations[q.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Quotations[q.ID] = cloneQuotation(q)
	return nil
}

func (r quotationRepo) Update(q *entity.Quotation) error {
	if _, ok := r.s.Quotations[q.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Quotations[q.ID] = cloneQuotation(q)
	return nil
}

func (r quotationRepo) ReplaceItems(quotationID string, items []entity.QuotationItem) error {
	q, ok := r.s.Quotations[quotationID]
	if !ok {
		return domain.ErrNotFound
	}
	q.Items = append([]entity.QuotationItem(nil), items...)
	return nil
}

func (r quotationRepo) GetByID(id string) (*entity.Quotation, error) {
	q, ok := r.s.Quotations[id]
	if !ok {
		return nil, nil
	}
	return cloneQuotation(q), nil
}

func (r quotationRepo) GetForUpdate(id string) (*entity.Quotation, error) { return r.GetByID(id) }

func (r quotationRepo) List(status string, limit, offset int) ([]*entity.Quotation, error) {
	var out []*entity.Quotation
	for _, q := range r.s.Quotations {
		if status != "" && q.Status != status {
			continue
		}
		out = append(out, cloneQuotation(q))
	}
	return page(out, limit, offset), nil
}

func (r quotationRepo) Delete(id string) error {
	if _, ok := r.s.Quotations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Quotations, id)
	return nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

type clientRepo struct{ s *Store }

// ClientRepo devuelve el repositorio fake de clientes.
func (s *Store) ClientRepo() repository.ClientRepository { return clientRepo{s} }

func (r clientRepo) Create(c *entity.Client) error {
	if _, ok := r.s.Clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Clients[c.ID] = cloneClient(c)
	return nil
}

func (r clientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.Clients[id]
	if !ok {
		return nil, nil
	}
	return cloneClient(c), nil
}

func (r clientRepo) GetForUpdate(id string) (*entity.Client, error) { return r.GetByID(id) }

func (r clientRepo) Update(c *entity.Client) error {
	current, ok := r.s.Clients[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneClient(c)
	// El saldo solo cambia vía UpdateBalance.
	cp.OutstandingBalance = current.OutstandingBalance
	r.s.Clients[c.ID] = cp
	return nil
}

func (r clientRepo) UpdateBalance(clientID string, balance decimal.Decimal) error {
	c, ok := r.s.Clients[clientID]
	if !ok {
		return domain.ErrNotFound
	}
	c.OutstandingBalance = balance
	return nil
}

func (r clientRepo) List(limit, offset int) ([]*entity.Client, error) {
	out := make([]*entity.Client, 0, len(r.s.Clients))
	for _, c := range r.s.Clients {
		out = append(out, cloneClient(c))
	}
	return page(out, limit, offset), nil
}

func (r clientRepo) Delete(id string) error {
	if _, ok := r.s.Clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Clients, id)
	return nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

// SupplierRepo devuelve el repositorio fake de proveedores.
func (s *Store) SupplierRepo() repository.SupplierRepository { return supplierRepo{s} }

func (r supplierRepo) Create(sup *entity.Supplier) error {
	if _, ok := r.s.Suppliers[sup.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Suppliers[sup.ID] = cloneSupplier(sup)
	return nil
}

func (r supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sup, ok := r.s.Suppliers[id]
	if !ok {
		return nil, nil
	}
	return cloneSupplier(sup), nil
}

func (r supplierRepo) GetForUpdate(id string) (*entity.Supplier, error) { return r.GetByID(id) }

func (r supplierRepo) Update(sup *entity.Supplier) error {
	current, ok := r.s.Suppliers[sup.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneSupplier(sup)
	// Los saldos solo cambian vía UpdateBalances.
	cp.OutstandingBalance = current.OutstandingBalance
	cp.TotalPurchases = current.TotalPurchases
	r.s.Suppliers[sup.ID] = cp
	return nil
}

func (r supplierRepo) UpdateBalances(supplierID string, outstanding, totalPurchases decimal.Decimal) error {
	sup, ok := r.s.Suppliers[supplierID]
	if !ok {
		return domain.ErrNotFound
	}
	sup.OutstandingBalance = outstanding
	sup.TotalPurchases = totalPurchases
	return nil
}

func (r supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.s.Suppliers))
	for _, sup := range r.s.Suppliers {
		out = append(out, cloneSupplier(sup))
	}
	return page(out, limit, offset), nil
}

func (r supplierRepo) Delete(id string) error {
	if _, ok := r.s.Suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Suppliers, id)
	return nil
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type sequenceRepo struct{ s *Store }

// SequenceRepo devuelve el repositorio fake de consecutivos.
func (s *Store) SequenceRepo() repository.SequenceRepository { return sequenceRepo{s} }

func (r sequenceRepo) Next(docType string) (int64, error) {
	r.s.Sequences[docType]++
	return r.s.Sequences[docType], nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

// UserRepo devuelve el repositorio fake de usuarios.
func (s *Store) UserRepo() repository.UserRepository { return userRepo{s} }

func (r userRepo) Create(u *entity.User) error {
	for _, existing := range r.s.Users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyExists, u.Email)
		}
	}
	r.s.Users[u.ID] = cloneUser(u)
	return nil
}

func (r userRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r userRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.Users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// page aplica limit/offset sobre un slice ya materializado.
func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
