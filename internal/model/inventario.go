package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventario is the denormalized stock snapshot, mirrored from
// Producto.StockActual on every ledger change. It is best-effort and never
// authoritative: reads that need correctness go to productos, and a sale is
// never blocked on this table being up to date.
type Inventario struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	StockActual         int       `gorm:"not null;default:0"`
	StockMinimo         int       `gorm:"not null;default:5"`
	UltimaActualizacion time.Time `gorm:"not null"`
}

// TableName overrides GORM's pluralization (inventarios → inventario).
func (Inventario) TableName() string { return "inventario" }
