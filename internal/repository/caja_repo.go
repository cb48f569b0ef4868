package repository

import (
	"context"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	// CreateSesion inserts a new open session. A second open session for the
	// same vendedor violates the partial unique index and comes back as
	// gorm.ErrDuplicatedKey — the constraint, not the pre-check, is what
	// closes the concurrent-open race.
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.SesionCaja, error)
	ListSesionesPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]model.SesionCaja, error)
	// CerrarSesion flips estado abierta → cerrada in one guarded UPDATE and
	// reports whether a row was actually closed. Sessions are never deleted.
	CerrarSesion(ctx context.Context, id uuid.UUID, saldoFinal decimal.Decimal, observaciones *string) (bool, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	if s.FechaApertura.IsZero() {
		s.FechaApertura = time.Now().UTC()
	}
	s.Estado = model.SesionAbierta
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ? AND estado = ?", vendedorID, model.SesionAbierta).
		Order("fecha_apertura DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) ListSesionesPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]model.SesionCaja, error) {
	if limit <= 0 {
		limit = 30
	}
	var sesiones []model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).
		Order("fecha_apertura DESC").
		Limit(limit).
		Find(&sesiones).Error
	return sesiones, err
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, id uuid.UUID, saldoFinal decimal.Decimal, observaciones *string) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("id = ? AND estado = ?", id, model.SesionAbierta).
		Updates(map[string]interface{}{
			"estado":        model.SesionCerrada,
			"saldo_final":   saldoFinal,
			"observaciones": observaciones,
			"fecha_cierre":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
