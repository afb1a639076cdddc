package repository

// SequenceRepository asigna consecutivos atómicos por tipo de documento.
// Reemplaza la numeración por conteo-al-guardar, que duplicaba números bajo
// creación concurrente: Next incrementa y devuelve el valor en una sola
// operación, dentro de la transacción que crea el documento.
type SequenceRepository interface {
	Next(docType string) (int64, error)
}
