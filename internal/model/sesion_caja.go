package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja brackets a vendor's working period at the register.
// Estado: "abierta" | "cerrada". Sessions are append-only: they are created
// open, mutated exactly once by the close, and never deleted.
//
// At most one open session per vendedor is allowed — guarded by a partial
// unique index on (vendedor_id) WHERE estado = 'abierta', not just the
// application pre-check.
type SesionCaja struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID    uuid.UUID        `gorm:"type:uuid;index;not null"`
	SaldoInicial  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SaldoFinal    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'abierta'"`
	Observaciones *string
	FechaApertura time.Time `gorm:"not null"`
	FechaCierre   *time.Time
}

// TableName overrides GORM's pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }

const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)
