package dto

// InconsistenciaStock is one divergence between the authoritative ledger
// (productos.stock_actual) and the denormalized snapshot (inventario).
// StockEspejo is nil when the snapshot row is missing entirely.
type InconsistenciaStock struct {
	ProductoID  string `json:"producto_id"`
	StockLedger int    `json:"stock_ledger"`
	StockEspejo *int   `json:"stock_espejo"`
}

type AjusteStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type AjusteStockResponse struct {
	ProductoID string `json:"producto_id"`
	StockNuevo int    `json:"stock_nuevo"`
}

type ReparacionResponse struct {
	Reparadas int `json:"reparadas"`
}
