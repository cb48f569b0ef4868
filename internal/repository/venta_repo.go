package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TotalesSesion is the aggregate of a session's completed sales, read at one
// consistent point in time.
type TotalesSesion struct {
	CantidadVentas     int64
	TotalVentas        decimal.Decimal
	TotalEfectivo      decimal.Decimal
	TotalTarjeta       decimal.Decimal
	TotalTransferencia decimal.Decimal
	GananciaBruta      decimal.Decimal
}

type VentaRepository interface {
	// CreateTx persists the venta with its detalles inside the caller's
	// transaction — the same one that debits stock.
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByOfflineID(ctx context.Context, offlineID string) (*model.Venta, error)
	ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error)
	// ListPorFecha returns the sales whose fecha_venta falls inside
	// [desde, hasta), oldest first.
	ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	// AnularTx flips estado completada → anulada inside the caller's
	// transaction and reports whether a row actually changed.
	AnularTx(tx *gorm.DB, id uuid.UUID, motivo string) (bool, error)
	// TotalesPorSesion aggregates completed sales in a repeatable-read
	// transaction so totals reflect a coherent snapshot even while new sales
	// are being recorded.
	TotalesPorSesion(ctx context.Context, sesionID uuid.UUID) (*TotalesSesion, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles.Producto").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) FindByOfflineID(ctx context.Context, offlineID string) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles.Producto").
		Where("offline_id = ?", offlineID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles.Producto").
		Where("sesion_caja_id = ?", sesionID).
		Order("fecha_venta ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles.Producto").
		Where("fecha_venta >= ? AND fecha_venta < ?", desde, hasta).
		Order("fecha_venta ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) AnularTx(tx *gorm.DB, id uuid.UUID, motivo string) (bool, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ?", id, model.VentaCompletada).
		Updates(map[string]interface{}{
			"estado":           model.VentaAnulada,
			"motivo_anulacion": motivo,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ventaRepo) TotalesPorSesion(ctx context.Context, sesionID uuid.UUID) (*TotalesSesion, error) {
	totales := &TotalesSesion{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agg struct {
			Cantidad           int64
			TotalVentas        decimal.Decimal
			TotalEfectivo      decimal.Decimal
			TotalTarjeta       decimal.Decimal
			TotalTransferencia decimal.Decimal
		}
		if err := tx.Raw(
			`SELECT COUNT(*) AS cantidad,
			        COALESCE(SUM(total), 0) AS total_ventas,
			        COALESCE(SUM(total) FILTER (WHERE metodo_pago = 'efectivo'), 0) AS total_efectivo,
			        COALESCE(SUM(total) FILTER (WHERE metodo_pago = 'tarjeta'), 0) AS total_tarjeta,
			        COALESCE(SUM(total) FILTER (WHERE metodo_pago = 'transferencia'), 0) AS total_transferencia
			   FROM ventas
			  WHERE sesion_caja_id = ? AND estado = ?`,
			sesionID, model.VentaCompletada,
		).Scan(&agg).Error; err != nil {
			return err
		}

		var margen decimal.Decimal
		if err := tx.Raw(
			`SELECT COALESCE(SUM((d.precio_unitario - p.precio_costo) * d.cantidad), 0)
			   FROM detalles_venta d
			   JOIN ventas v ON v.id = d.venta_id
			   JOIN productos p ON p.id = d.producto_id
			  WHERE v.sesion_caja_id = ? AND v.estado = ?`,
			sesionID, model.VentaCompletada,
		).Scan(&margen).Error; err != nil {
			return err
		}

		totales.CantidadVentas = agg.Cantidad
		totales.TotalVentas = agg.TotalVentas
		totales.TotalEfectivo = agg.TotalEfectivo
		totales.TotalTarjeta = agg.TotalTarjeta
		totales.TotalTransferencia = agg.TotalTransferencia
		totales.GananciaBruta = margen.Round(2)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})

	if err != nil {
		return nil, err
	}
	return totales, nil
}
