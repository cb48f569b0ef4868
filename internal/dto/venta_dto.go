package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
	// PrecioUnitario is optional: offline terminals send the price at sale
	// time; when omitted the product's current PrecioVenta is used.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,min=0"`
}

type RegistrarVentaRequest struct {
	SesionCajaID string             `json:"sesion_caja_id" validate:"required,uuid"`
	VendedorID   string             `json:"vendedor_id"    validate:"required,uuid"`
	Items        []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
	MetodoPago   string             `json:"metodo_pago"    validate:"required,oneof=efectivo tarjeta transferencia"`
	// EfectivoRecibido is required for metodo_pago=efectivo; cambio is computed.
	EfectivoRecibido *decimal.Decimal `json:"efectivo_recibido" validate:"omitempty,min=0"`
	// Total, when the client declares one, must match the server-computed sum
	// of subtotals. The server figure is always the one persisted.
	Total *decimal.Decimal `json:"total" validate:"omitempty,min=0"`
	// OfflineID deduplicates sales buffered while the terminal was offline.
	OfflineID *string `json:"offline_id"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type SyncBatchRequest struct {
	Ventas []RegistrarVentaRequest `json:"ventas" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               string                 `json:"id"`
	SesionCajaID     string                 `json:"sesion_caja_id"`
	VendedorID       string                 `json:"vendedor_id"`
	Items            []DetalleVentaResponse `json:"items"`
	Total            decimal.Decimal        `json:"total"`
	MetodoPago       string                 `json:"metodo_pago"`
	EfectivoRecibido *decimal.Decimal       `json:"efectivo_recibido,omitempty"`
	Cambio           *decimal.Decimal       `json:"cambio,omitempty"`
	Estado           string                 `json:"estado"`
	OfflineID        *string                `json:"offline_id,omitempty"`
	FechaVenta       string                 `json:"fecha_venta"`
}

// SyncVentaFallida records one batch entry that could not be applied.
type SyncVentaFallida struct {
	OfflineID *string `json:"offline_id"`
	Motivo    string  `json:"motivo"`
}

type SyncBatchResponse struct {
	Aplicadas []VentaResponse    `json:"aplicadas"`
	Fallidas  []SyncVentaFallida `json:"fallidas"`
}
