package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CierreCaja is the terminal reconciliation record of a session: theoretical
// vs. declared cash and the signed difference. Created exactly once per
// session (unique index) and immutable afterwards — it is the durable source
// of truth for the financial result even when the session bookkeeping is
// inconsistent.
type CierreCaja struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID       uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	VendedorID         uuid.UUID       `gorm:"type:uuid;index"`
	TotalVentas        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalEfectivo      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalTarjeta       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalTransferencia decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GananciaBruta      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoTeorico       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoReal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Diferencia = SaldoReal - SaldoTeorico. 0 exacto, >0 sobrante, <0 faltante.
	Diferencia    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observaciones string
	CreatedAt     time.Time
}

// TableName overrides GORM's pluralization (cierre_cajas → cierres_caja).
func (CierreCaja) TableName() string { return "cierres_caja" }
