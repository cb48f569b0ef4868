package repository

import (
	"context"
	"errors"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockInsuficiente signals that a debit would push stock_actual below
// zero. The service layer wraps it with product context before surfacing it.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// ProductoRepository is the data access contract for productos. Services
// depend on this interface, not the GORM implementation, so unit tests can
// swap in in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)

	// AjustarStockTx applies a signed delta to stock_actual inside the given
	// transaction and returns the new quantity. The UPDATE is guarded so the
	// result can never be negative: a violating debit returns
	// ErrStockInsuficiente and writes nothing. Callers touching several
	// productos must do so in a stable ID order.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int, error) {
	// Single guarded UPDATE: the row lock it takes serializes concurrent
	// adjustments on the same producto, and the WHERE clause rejects any
	// debit that would go negative before it is ever written.
	var nuevo int
	res := tx.Raw(
		`UPDATE productos
		    SET stock_actual = stock_actual + ?, updated_at = now()
		  WHERE id = ? AND stock_actual + ? >= 0
		  RETURNING stock_actual`,
		delta, id, delta,
	).Scan(&nuevo)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing producto from an insufficient one.
		var count int64
		if err := tx.Model(&model.Producto{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		return 0, ErrStockInsuficiente
	}
	return nuevo, nil
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
