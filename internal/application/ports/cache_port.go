package ports

import "context"

// StoreCache caché de lecturas con alcance por loja.
//
// Contrato de invalidación: toda escritura que toca el stock de una loja
// (alta/edición/ajuste/baja de stock item, venta creada o cancelada) llama
// Invalidate(storeID); a partir de ese momento ninguna entrada anterior de
// esa loja vuelve a servirse.
type StoreCache interface {
	// Get decodifica la entrada en dst. Devuelve false si no existe.
	Get(ctx context.Context, storeID, key string, dst any) (bool, error)
	Set(ctx context.Context, storeID, key string, value any) error
	Invalidate(ctx context.Context, storeID string) error
}
