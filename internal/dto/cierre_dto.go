package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CerrarCajaRequest struct {
	SesionCajaID string `json:"sesion_caja_id" validate:"required,uuid"`
	// SaldoFinalReal is the physically counted cash at close time.
	SaldoFinalReal decimal.Decimal `json:"saldo_final_real" validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotalesSesionResponse aggregates a session's completed sales at one
// consistent point in time.
type TotalesSesionResponse struct {
	SesionCajaID       string          `json:"sesion_caja_id"`
	CantidadVentas     int64           `json:"cantidad_ventas"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	TotalTarjeta       decimal.Decimal `json:"total_tarjeta"`
	TotalTransferencia decimal.Decimal `json:"total_transferencia"`
	GananciaBruta      decimal.Decimal `json:"ganancia_bruta"`
	SaldoTeorico       decimal.Decimal `json:"saldo_teorico"`
	// Advertencias carries degradations (e.g. session row missing, saldo
	// inicial defaulted to 0) without failing the calculation.
	Advertencias []string `json:"advertencias,omitempty"`
}

type CierreCajaResponse struct {
	ID                 string          `json:"id"`
	SesionCajaID       string          `json:"sesion_caja_id"`
	VendedorID         string          `json:"vendedor_id"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	TotalTarjeta       decimal.Decimal `json:"total_tarjeta"`
	TotalTransferencia decimal.Decimal `json:"total_transferencia"`
	GananciaBruta      decimal.Decimal `json:"ganancia_bruta"`
	SaldoTeorico       decimal.Decimal `json:"saldo_teorico"`
	SaldoReal          decimal.Decimal `json:"saldo_real"`
	Diferencia         decimal.Decimal `json:"diferencia"`
	// EstadoCaja: "exacto" | "sobrante" | "faltante", derived from Diferencia.
	EstadoCaja    string `json:"estado_caja"`
	Observaciones string `json:"observaciones,omitempty"`
	// Advertencias surfaces partial outcomes: the cierre persisted but a
	// secondary step (like the session flip) failed.
	Advertencias []string `json:"advertencias,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

type CierreListResponse struct {
	Data  []CierreCajaResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
