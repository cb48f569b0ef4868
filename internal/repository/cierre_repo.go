package repository

import (
	"context"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CierreRepository interface {
	// Create inserts the cierre. The unique index on sesion_caja_id makes a
	// second cierre for the same session come back as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, c *model.CierreCaja) error
	FindBySesionID(ctx context.Context, sesionID uuid.UUID) (*model.CierreCaja, error)
	List(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error)
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) Create(ctx context.Context, c *model.CierreCaja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cierreRepo) FindBySesionID(ctx context.Context, sesionID uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cierreRepo) List(ctx context.Context, page, limit int) ([]model.CierreCaja, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CierreCaja{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cierres []model.CierreCaja
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cierres).Error
	return cierres, total, err
}
