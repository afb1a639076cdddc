// Package testsupport provee repositorios en memoria y un TxRunner con
// semántica de rollback para probar los casos de uso sin PostgreSQL.
package testsupport

import (
	"context"

	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// Store estado en memoria compartido por los repositorios fake.
type Store struct {
	Products   map[string]*entity.Product
	Movements  []*entity.StockMovement
	Invoices   map[string]*entity.Invoice
	Purchases  map[string]*entity.Purchase
	Quotations map[string]*entity.Quotation
	Clients    map[string]*entity.Client
	Suppliers  map[string]*entity.Supplier
	Users      map[string]*entity.User
	Sequences  map[string]int64
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		Products:   map[string]*entity.Product{},
		Invoices:   map[string]*entity.Invoice{},
		Purchases:  map[string]*entity.Purchase{},
		Quotations: map[string]*entity.Quotation{},
		Clients:    map[string]*entity.Client{},
		Suppliers:  map[string]*entity.Supplier{},
		Users:      map[string]*entity.User{},
		Sequences:  map[string]int64{},
	}
}

// TxRepos arma el juego de repositorios sobre este Store.
func (s *Store) TxRepos() ports.TxRepos {
	return ports.TxRepos{
		Products:   productRepo{s},
		Movements:  movementRepo{s},
		Invoices:   invoiceRepo{s},
		Purchases:  purchaseRepo{s},
		Quotations: quotationRepo{s},
		Clients:    clientRepo{s},
		Suppliers:  supplierRepo{s},
		Sequences:  sequenceRepo{s},
	}
}

// snapshot clona el estado completo para poder revertirlo.
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for id, p := range s.Products {
		snap.Products[id] = cloneProduct(p)
	}
	snap.Movements = make([]*entity.StockMovement, 0, len(s.Movements))
	for _, m := range s.Movements {
		snap.Movements = append(snap.Movements, cloneMovement(m))
	}
	for id, inv := range s.Invoices {
		snap.Invoices[id] = cloneInvoice(inv)
	}
	for id, p := range s.Purchases {
		snap.Purchases[id] = clonePurchase(p)
	}
	for id, q := range s.Quotations {
		snap.Quotations[id] = cloneQuotation(q)
	}
	for id, c := range s.Clients {
		snap.Clients[id] = cloneClient(c)
	}
	for id, sup := range s.Suppliers {
		snap.Suppliers[id] = cloneSupplier(sup)
	}
	for id, u := range s.Users {
		snap.Users[id] = cloneUser(u)
	}
	for k, v := range s.Sequences {
		snap.Sequences[k] = v
	}
	return snap
}

// restore reemplaza el estado con el del snapshot.
func (s *Store) restore(snap *Store) {
	s.Products = snap.Products
	s.Movements = snap.Movements
	s.Invoices = snap.Invoices
	s.Purchases = snap.Purchases
	s.Quotations = snap.Quotations
	s.Clients = snap.Clients
	s.Suppliers = snap.Suppliers
	s.Users = snap.Users
	s.Sequences = snap.Sequences
}

// TxRunner ejecuta la función sobre el Store y revierte todo si falla,
// imitando la atomicidad de la transacción real.
type TxRunner struct {
	Store *Store
}

// NewTxRunner construye el runner fake.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

// Run aplica fn sobre el estado; si devuelve error restaura el snapshot previo.
func (r *TxRunner) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	snap := r.Store.snapshot()
	if err := fn(r.Store.TxRepos()); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}

// ── Clones ────────────────────────────────────────────────────────────────────

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.DocumentItem(nil), inv.Items...)
	cp.Payments = append([]entity.Payment(nil), inv.Payments...)
	return &cp
}

func clonePurchase(p *entity.Purchase) *entity.Purchase {
	cp := *p
	cp.Items = append([]entity.DocumentItem(nil), p.Items...)
	cp.Payments = append([]entity.Payment(nil), p.Payments...)
	return &cp
}

func cloneQuotation(q *entity.Quotation) *entity.Quotation {
	cp := *q
	cp.Items = append([]entity.QuotationItem(nil), q.Items...)
	return &cp
}

func cloneClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func cloneSupplier(s *entity.Supplier) *entity.Supplier {
	cp := *s
	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}
