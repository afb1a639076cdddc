package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Comercial-api/internal/domain/inventory"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// Direcciones de ajuste manual.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// StockUseCase es el motor del libro de inventario: entradas directas, ajustes
// y el borrado administrativo. Cada operación ejecuta la secuencia
// leer-modificar-escribir-insertar como unidad atómica (TxRunner + bloqueo de
// fila del producto): o se persisten movimiento y agregado, o ninguno.
type StockUseCase struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, products: products, movements: movements}
}

// MovementInput entrada para aplicar un movimiento al libro.
// Quantity siempre > 0; Direction solo aplica a ADJUSTMENT.
type MovementInput struct {
	ProductID     string
	Type          string // IN, OUT, ADJUSTMENT
	Direction     string // in | out (solo ajustes)
	Reason        string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal // obligatorio en IN; en salidas se usa el promedio vigente
	SupplierID    string
	BatchNumber   string
	ReferenceType string
	ReferenceID   string
	Notes         string
	PerformedBy   string
}

// outbound indica si el movimiento resta stock.
func (in MovementInput) outbound() bool {
	return in.Type == entity.MovementTypeOUT ||
		(in.Type == entity.MovementTypeADJUSTMENT && in.Direction == DirectionOut)
}

// ApplyMovementInTx aplica un movimiento usando los repositorios de la
// transacción del caller. Es el ÚNICO camino que muta Product.CurrentStock y
// Product.Cost: bloquea la fila del producto, valida stock suficiente en
// salidas, captura el snapshot antes/después y escribe movimiento + agregado.
// Lo usan también los casos de uso de facturación dentro de su propia tx.
func ApplyMovementInTx(repos ports.TxRepos, input MovementInput, now time.Time) (*entity.StockMovement, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	// Bloquea la fila del producto (SELECT FOR UPDATE): serializa movimientos
	// concurrentes sobre el mismo producto sin frenar al resto.
	product, err := repos.Products.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var newStock decimal.Decimal
	if input.outbound() {
		if product.CurrentStock.LessThan(input.Quantity) {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Available: product.CurrentStock,
				Required:  input.Quantity,
			}
		}
		newStock = product.CurrentStock.Sub(input.Quantity)
	} else {
		newStock = product.CurrentStock.Add(input.Quantity)
	}

	// El costo promedio solo se recalcula en entradas (IN) con costo;
	// salidas y ajustes nunca lo tocan.
	newCost := product.Cost
	unitCost := decimal.Zero
	switch {
	case input.Type == entity.MovementTypeIN && input.UnitCost != nil:
		unitCost = *input.UnitCost
		newCost = domaininv.AverageCost(product.CurrentStock, product.Cost, input.Quantity, unitCost)
	case input.outbound():
		// Las salidas se valoran al costo promedio vigente.
		unitCost = product.Cost
	case input.UnitCost != nil:
		unitCost = *input.UnitCost
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          input.Type,
		Reason:        input.Reason,
		Quantity:      input.Quantity,
		PreviousStock: product.CurrentStock,
		NewStock:      newStock,
		UnitCost:      unitCost,
		TotalCost:     unitCost.Mul(input.Quantity),
		SupplierID:    input.SupplierID,
		BatchNumber:   input.BatchNumber,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Notes,
		PerformedBy:   input.PerformedBy,
		MovementDate:  now,
		CreatedAt:     now,
	}
	if err := repos.Movements.Create(mov); err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStockAndCost(product.ID, newStock, newCost); err != nil {
		return nil, err
	}
	return mov, nil
}

// ReceiveStock registra una entrada directa de mercancía (compra suelta o
// stock inicial): movimiento IN con recálculo de costo promedio ponderado.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, userID string, in dto.ReceiveStockRequest) (*entity.StockMovement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonPurchase
	}
	if reason != entity.ReasonPurchase && reason != entity.ReasonInitialStock && reason != entity.ReasonReturn {
		return nil, fmt.Errorf("%w: razón %q no válida para entrada directa", domain.ErrInvalidInput, reason)
	}

	unitCost := in.UnitCost
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		m, err := ApplyMovementInTx(repos, MovementInput{
			ProductID:     in.ProductID,
			Type:          entity.MovementTypeIN,
			Reason:        reason,
			Quantity:      in.Quantity,
			UnitCost:      &unitCost,
			SupplierID:    in.SupplierID,
			BatchNumber:   in.BatchNumber,
			ReferenceType: entity.RefManual,
			Notes:         in.Notes,
			PerformedBy:   userID,
		}, time.Now())
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// razones válidas para ajustes manuales.
var adjustmentReasons = map[string]bool{
	entity.ReasonDamage:     true,
	entity.ReasonLoss:       true,
	entity.ReasonTheft:      true,
	entity.ReasonExpired:    true,
	entity.ReasonCorrection: true,
	entity.ReasonTransfer:   true,
}

// AdjustStock registra un ajuste manual (merma, daño, robo, vencimiento,
// corrección, traslado). La dirección es explícita en la petición; los ajustes
// nunca recalculan el costo promedio.
func (uc *StockUseCase) AdjustStock(ctx context.Context, userID string, in dto.AdjustStockRequest) (*entity.StockMovement, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Direction != DirectionIn && in.Direction != DirectionOut {
		return nil, fmt.Errorf("%w: dirección %q", domain.ErrInvalidInput, in.Direction)
	}
	if !adjustmentReasons[in.Reason] {
		return nil, fmt.Errorf("%w: razón %q no válida para ajuste", domain.ErrInvalidInput, in.Reason)
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		m, err := ApplyMovementInTx(repos, MovementInput{
			ProductID:     in.ProductID,
			Type:          entity.MovementTypeADJUSTMENT,
			Direction:     in.Direction,
			Reason:        in.Reason,
			Quantity:      in.Quantity,
			ReferenceType: entity.RefManual,
			Notes:         in.Notes,
			PerformedBy:   userID,
		}, time.Now())
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// DeleteMovement es el escape administrativo: borra un movimiento y revierte
// el stock del producto al PreviousStock del movimiento. Solo es legal sobre
// el último movimiento del producto; de lo contrario el snapshot revertiría
// cambios posteriores y desincronizaría la cadena del libro.
func (uc *StockUseCase) DeleteMovement(ctx context.Context, movementID string) error {
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		mov, err := repos.Movements.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		// Bloquea el producto antes de decidir si el movimiento es el último.
		product, err := repos.Products.GetForUpdate(mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		latest, err := repos.Movements.IsLatest(mov.ID, mov.ProductID)
		if err != nil {
			return err
		}
		if !latest {
			return fmt.Errorf("%w: solo puede borrarse el último movimiento del producto", domain.ErrConflict)
		}
		if err := repos.Movements.Delete(mov.ID); err != nil {
			return err
		}
		// Revertir el agregado al snapshot previo; el costo promedio no se
		// reconstruye (requeriría reprocesar toda la cadena).
		return repos.Products.UpdateStockAndCost(product.ID, mov.PreviousStock, product.Cost)
	})
}

// ListMovements lista el libro completo con paginación.
func (uc *StockUseCase) ListMovements(ctx context.Context, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movements.List(limit, offset)
}

// ListMovementsByProduct lista la cadena de un producto, opcionalmente por rango de fechas.
func (uc *StockUseCase) ListMovementsByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByProduct(productID, from, to, limit, offset)
}
