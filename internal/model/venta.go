package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a completed (or later cancelled) sale. Total always equals the sum
// of its detalle subtotals — the server-computed figure, never a client one.
// Estado: "completada" | "anulada".
type Venta struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID     uuid.UUID        `gorm:"type:uuid;index;not null"`
	VendedorID       uuid.UUID        `gorm:"type:uuid;not null"`
	Total            decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MetodoPago       string           `gorm:"type:varchar(20);not null"` // efectivo | tarjeta | transferencia
	EfectivoRecibido *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Cambio           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado           string           `gorm:"type:varchar(20);not null;default:'completada'"`
	MotivoAnulacion  *string
	// OfflineID is the client-generated deduplication key for sales buffered
	// while the terminal was offline. Unique so a replay can never apply twice.
	OfflineID  *string   `gorm:"uniqueIndex"`
	FechaVenta time.Time `gorm:"not null"`

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

// DetalleVenta is one line of a sale. Immutable once created; rows only go
// away when the owning venta does (which never happens — ventas are anulada,
// not deleted).
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's pluralization (detalle_ventas → detalles_venta).
func (DetalleVenta) TableName() string { return "detalles_venta" }

const (
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)
