package service

import (
	"context"
	"errors"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService is the stock ledger plus its best-effort mirror. The
// ledger side (productos.stock_actual) is authoritative and transactional;
// the mirror side (inventario) is a projection that may lag and is repaired
// out of band.
type InventarioService interface {
	// ReservarTx debits cantidad units inside the caller's transaction.
	// Returns repository.ErrStockInsuficiente when the debit would go
	// negative; the transaction rollback is the compensation.
	ReservarTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error)
	// DevolverTx credits cantidad units back (anulacion / rollback paths).
	// A credit never fails the negative-stock check.
	DevolverTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error)
	RegistrarMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error

	// Espejar pushes the new ledger quantity to the snapshot, fire and
	// forget. Called after the owning transaction committed.
	Espejar(ctx context.Context, productoID uuid.UUID, stockActual, stockMinimo int)

	// AjustarStock is the manual adjustment path (recepcion de mercaderia,
	// correcciones). Runs its own transaction and journals the movimiento.
	AjustarStock(ctx context.Context, productoID uuid.UUID, delta int, motivo string) (int, error)

	BuscarInconsistencias(ctx context.Context) ([]dto.InconsistenciaStock, error)
	// RepararInconsistencias rewrites divergent snapshot rows from the
	// ledger and returns how many it fixed.
	RepararInconsistencias(ctx context.Context) (int, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	inventarioRepo repository.InventarioRepository
	dispatcher     *worker.Dispatcher
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	inventarioRepo repository.InventarioRepository,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		inventarioRepo: inventarioRepo,
		dispatcher:     dispatcher,
	}
}

func (s *inventarioService) ReservarTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error) {
	return s.productoRepo.AjustarStockTx(tx, productoID, -cantidad)
}

func (s *inventarioService) DevolverTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error) {
	return s.productoRepo.AjustarStockTx(tx, productoID, cantidad)
}

func (s *inventarioService) RegistrarMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return s.movimientoRepo.CreateTx(tx, m)
}

func (s *inventarioService) Espejar(ctx context.Context, productoID uuid.UUID, stockActual, stockMinimo int) {
	s.dispatcher.EncolarEspejo(ctx, worker.EspejoJob{
		ProductoID:  productoID,
		StockActual: stockActual,
		StockMinimo: stockMinimo,
	})
}

func (s *inventarioService) AjustarStock(ctx context.Context, productoID uuid.UUID, delta int, motivo string) (int, error) {
	if delta == 0 {
		return 0, validacion("el delta de ajuste no puede ser 0")
	}

	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductoNoEncontrado
		}
		return 0, err
	}

	var nuevo int
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		n, err := s.productoRepo.AjustarStockTx(tx, productoID, delta)
		if err != nil {
			if errors.Is(err, repository.ErrStockInsuficiente) {
				return &StockInsuficienteError{
					ProductoID: productoID,
					Nombre:     p.Nombre,
					Solicitado: -delta,
					Disponible: p.StockActual,
				}
			}
			return err
		}
		nuevo = n
		return s.movimientoRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    productoID,
			Tipo:          "ajuste_manual",
			Cantidad:      delta,
			StockAnterior: n - delta,
			StockNuevo:    n,
			Motivo:        motivo,
		})
	})
	if txErr != nil {
		return 0, txErr
	}

	s.Espejar(ctx, productoID, nuevo, p.StockMinimo)
	return nuevo, nil
}

func (s *inventarioService) BuscarInconsistencias(ctx context.Context) ([]dto.InconsistenciaStock, error) {
	rows, err := s.inventarioRepo.ListInconsistencias(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InconsistenciaStock, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InconsistenciaStock{
			ProductoID:  r.ProductoID.String(),
			StockLedger: r.StockLedger,
			StockEspejo: r.StockEspejo,
		})
	}
	return out, nil
}

func (s *inventarioService) RepararInconsistencias(ctx context.Context) (int, error) {
	rows, err := s.inventarioRepo.ListInconsistencias(ctx)
	if err != nil {
		return 0, err
	}

	reparadas := 0
	for _, r := range rows {
		p, err := s.productoRepo.FindByID(ctx, r.ProductoID)
		if err != nil {
			log.Warn().Err(err).Str("producto_id", r.ProductoID.String()).
				Msg("reparacion: no se pudo leer el producto, se omite")
			continue
		}
		if err := s.inventarioRepo.Upsert(ctx, p.ID, p.StockActual, p.StockMinimo); err != nil {
			log.Warn().Err(err).Str("producto_id", p.ID.String()).
				Msg("reparacion: fallo el upsert del snapshot")
			continue
		}
		reparadas++
	}
	return reparadas, nil
}
