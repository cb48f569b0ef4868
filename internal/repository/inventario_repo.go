package repository

import (
	"context"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Inconsistencia is one ledger/snapshot divergence as read from the store.
// StockEspejo is nil when no snapshot row exists for the producto.
type Inconsistencia struct {
	ProductoID  uuid.UUID `gorm:"column:producto_id"`
	StockLedger int       `gorm:"column:stock_ledger"`
	StockEspejo *int      `gorm:"column:stock_espejo"`
}

// InventarioRepository owns the denormalized snapshot table. It sits on the
// best-effort side of the mirror: its writes run outside the sale transaction
// and its failures never propagate to the sale path.
type InventarioRepository interface {
	Upsert(ctx context.Context, productoID uuid.UUID, stockActual, stockMinimo int) error
	FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error)
	// ListInconsistencias compares the snapshot against the ledger. Diagnostic
	// read only — never on the write path.
	ListInconsistencias(ctx context.Context) ([]Inconsistencia, error)
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) Upsert(ctx context.Context, productoID uuid.UUID, stockActual, stockMinimo int) error {
	inv := model.Inventario{
		ProductoID:          productoID,
		StockActual:         stockActual,
		StockMinimo:         stockMinimo,
		UltimaActualizacion: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "producto_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stock_actual", "stock_minimo", "ultima_actualizacion"}),
	}).Create(&inv).Error
}

func (r *inventarioRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) ListInconsistencias(ctx context.Context) ([]Inconsistencia, error) {
	var out []Inconsistencia
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.id AS producto_id,
		        p.stock_actual AS stock_ledger,
		        i.stock_actual AS stock_espejo
		   FROM productos p
		   LEFT JOIN inventario i ON i.producto_id = p.id
		  WHERE p.activo = true
		    AND (i.producto_id IS NULL OR i.stock_actual <> p.stock_actual)`,
	).Scan(&out).Error
	return out, err
}
