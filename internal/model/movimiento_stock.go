package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock is the immutable journal of every ledger change on a
// producto: ventas debit, anulaciones restore, ajustes manuales do either.
// Rows are written inside the same transaction as the stock update itself.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"` // "venta" | "anulacion" | "ajuste_manual"
	Cantidad      int       `gorm:"not null"` // signed: positive entrada, negative salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	// ReferenciaID links back to the originating venta, when there is one.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

// TableName overrides GORM's pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
