package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, type, reason, quantity, previous_stock, new_stock, unit_cost, total_cost, supplier_id, batch_number, reference_type, reference_id, notes, performed_by, movement_date, created_at`

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Reason, &m.Quantity, &m.PreviousStock, &m.NewStock,
		&m.UnitCost, &m.TotalCost, &m.SupplierID, &m.BatchNumber, &m.ReferenceType, &m.ReferenceID,
		&m.Notes, &m.PerformedBy, &m.MovementDate, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}

// Create inserta una entrada del libro (inmutable: nunca hay Update).
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, reason, quantity, previous_stock, new_stock, unit_cost, total_cost, supplier_id, batch_number, reference_type, reference_id, notes, performed_by, movement_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Reason, movement.Quantity,
		movement.PreviousStock, movement.NewStock, movement.UnitCost, movement.TotalCost,
		movement.SupplierID, movement.BatchNumber, movement.ReferenceType, movement.ReferenceID,
		movement.Notes, movement.PerformedBy, movement.MovementDate, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	return scanMovement(r.q.QueryRow(context.Background(), query, id))
}

// ListByProduct lista la cadena de movimientos de un producto, del más
// reciente al más antiguo, con filtro opcional por rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND movement_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND movement_date <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// List lista el libro completo con paginación.
func (r *StockMovementRepo) List(limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// IsLatest indica si el movimiento es el más reciente de su producto.
func (r *StockMovementRepo) IsLatest(id, productID string) (bool, error) {
	var latestID string
	err := r.q.QueryRow(context.Background(),
		`SELECT id FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		productID,
	).Scan(&latestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("latest movement: %w", err)
	}
	return latestID == id, nil
}

// Delete borra un movimiento (escape administrativo; el caso de uso ya validó
// que es el último y revierte el agregado).
func (r *StockMovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Reason, &m.Quantity, &m.PreviousStock, &m.NewStock,
			&m.UnitCost, &m.TotalCost, &m.SupplierID, &m.BatchNumber, &m.ReferenceType, &m.ReferenceID,
			&m.Notes, &m.PerformedBy, &m.MovementDate, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
