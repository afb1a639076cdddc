package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// GetForUpdate bloquea la fila para actualizar el saldo sin lost updates.
	GetForUpdate(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	// UpdateBalance escribe el saldo pendiente derivado de una transición de documento.
	UpdateBalance(clientID string, balance decimal.Decimal) error
	List(limit, offset int) ([]*entity.Client, error)
	Delete(id string) error
}
