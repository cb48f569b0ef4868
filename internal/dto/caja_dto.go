package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	VendedorID   string          `json:"vendedor_id"   validate:"required,uuid"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionCajaResponse struct {
	ID            string           `json:"id"`
	VendedorID    string           `json:"vendedor_id"`
	SaldoInicial  decimal.Decimal  `json:"saldo_inicial"`
	SaldoFinal    *decimal.Decimal `json:"saldo_final,omitempty"`
	Estado        string           `json:"estado"`
	Observaciones *string          `json:"observaciones,omitempty"`
	FechaApertura string           `json:"fecha_apertura"`
	FechaCierre   *string          `json:"fecha_cierre,omitempty"`
}
