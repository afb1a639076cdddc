package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos por tipo de documento con un upsert
// atómico: dos transacciones concurrentes nunca reciben el mismo número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar la tx que crea el documento.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo del tipo dado en una sola operación.
func (r *SequenceRepo) Next(docType string) (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO document_sequences (doc_type, current_value)
		VALUES ($1, 1)
		ON CONFLICT (doc_type) DO UPDATE SET current_value = document_sequences.current_value + 1
		RETURNING current_value`,
		docType,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", docType, err)
	}
	return next, nil
}
