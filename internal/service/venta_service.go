package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/infra"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) (*dto.VentaResponse, error)
	// SyncBatch replays client-buffered offline sales. One entry failing is
	// recorded and never aborts the rest of the batch.
	SyncBatch(ctx context.Context, req dto.SyncBatchRequest) (*dto.SyncBatchResponse, error)
	ListarPorSesion(ctx context.Context, sesionID uuid.UUID) ([]dto.VentaResponse, error)
	// ListarPorFecha returns the sales of one calendar day, fecha in
	// YYYY-MM-DD (UTC).
	ListarPorFecha(ctx context.Context, fecha string) ([]dto.VentaResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	inventario   InventarioService
	caja         CajaService
	productoRepo repository.ProductoRepository
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	caja CajaService,
	productoRepo repository.ProductoRepository,
) VentaService {
	return &ventaService{
		repo:         repo,
		inventario:   inventario,
		caja:         caja,
		productoRepo: productoRepo,
	}
}

const storeTimeout = 5 * time.Second

// runTx executes fn inside a GORM transaction with a short store timeout and
// bounded retries on transient failures. When db is nil (unit test mode) fn
// runs directly.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return infra.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		return db.WithContext(txCtx).Transaction(fn)
	})
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction covers the venta, its detalles, the stock debits and
// their movimientos: a failure at any step rolls everything back, so debited
// stock can never outlive a missing venta nor the other way around. The
// snapshot mirror runs after commit, fire and forget.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, validacion("sesion_caja_id invalido: %v", err)
	}
	vendedorID, err := uuid.Parse(req.VendedorID)
	if err != nil {
		return nil, validacion("vendedor_id invalido: %v", err)
	}
	if len(req.Items) == 0 {
		return nil, validacion("la venta debe contener al menos un item")
	}

	// Offline dedup: replaying an already-applied local sale is a no-op
	// success, never a second stock debit.
	if req.OfflineID != nil && *req.OfflineID != "" {
		if existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID); err == nil {
			return ventaToResponse(existing), nil
		}
	}

	// Session check. Offline-tagged sales tolerate a session that never made
	// it to the server (created client-side while disconnected): the sale is
	// still the primary record and the cierre reconciles from sales alone.
	if err := s.caja.ValidarSesionAbierta(ctx, sesionID); err != nil {
		if req.OfflineID == nil {
			return nil, err
		}
		log.Warn().Str("sesion_caja_id", sesionID.String()).Err(err).
			Msg("venta offline aceptada sin sesion valida en el servidor")
	}

	resolved, total, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// The server-computed total is authoritative. A client-declared total
	// that disagrees is rejected, not silently replaced.
	if req.Total != nil && !req.Total.Round(2).Equal(total) {
		return nil, validacion("el total declarado %s no coincide con el total calculado %s",
			req.Total.Round(2).StringFixed(2), total.StringFixed(2))
	}

	var efectivoRecibido, cambio *decimal.Decimal
	if req.MetodoPago == model.PagoEfectivo {
		if req.EfectivoRecibido == nil {
			return nil, validacion("efectivo_recibido es requerido para pagos en efectivo")
		}
		if req.EfectivoRecibido.LessThan(total) {
			return nil, validacion("el efectivo recibido %s es insuficiente para el total %s",
				req.EfectivoRecibido.StringFixed(2), total.StringFixed(2))
		}
		rec := req.EfectivoRecibido.Round(2)
		vto := rec.Sub(total)
		efectivoRecibido, cambio = &rec, &vto
	}

	venta := model.Venta{
		SesionCajaID:     sesionID,
		VendedorID:       vendedorID,
		Total:            total,
		MetodoPago:       req.MetodoPago,
		EfectivoRecibido: efectivoRecibido,
		Cambio:           cambio,
		Estado:           model.VentaCompletada,
		OfflineID:        req.OfflineID,
		FechaVenta:       time.Now().UTC(),
	}
	for _, r := range resolved {
		venta.Detalles = append(venta.Detalles, model.DetalleVenta{
			ProductoID:     r.producto.ID,
			Cantidad:       r.cantidad,
			PrecioUnitario: r.precio,
			Subtotal:       r.subtotal,
		})
	}

	stockNuevo := make(map[uuid.UUID]int, len(resolved))
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}
		for _, r := range resolved {
			nuevo, err := s.inventario.ReservarTx(tx, r.producto.ID, r.cantidad)
			if err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return &StockInsuficienteError{
						ProductoID: r.producto.ID,
						Nombre:     r.producto.Nombre,
						Solicitado: r.cantidad,
						Disponible: r.producto.StockActual,
					}
				}
				return err
			}
			stockNuevo[r.producto.ID] = nuevo

			ref := venta.ID
			if err := s.inventario.RegistrarMovimientoTx(tx, &model.MovimientoStock{
				ProductoID:    r.producto.ID,
				Tipo:          "venta",
				Cantidad:      -r.cantidad,
				StockAnterior: nuevo + r.cantidad,
				StockNuevo:    nuevo,
				ReferenciaID:  &ref,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// A concurrent replay of the same offline sale may have won the
		// unique-index race; treat that as the no-op success it is.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) && req.OfflineID != nil {
			if existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID); err == nil {
				return ventaToResponse(existing), nil
			}
		}
		return nil, txErr
	}

	for _, r := range resolved {
		s.inventario.Espejar(ctx, r.producto.ID, stockNuevo[r.producto.ID], r.producto.StockMinimo)
	}

	resp := ventaToResponse(&venta)
	for i, r := range resolved {
		resp.Items[i].Producto = r.producto.Nombre
	}
	return resp, nil
}

type resolvedItem struct {
	producto *model.Producto
	cantidad int
	precio   decimal.Decimal
	subtotal decimal.Decimal
}

// resolverItems validates every line against the catalog and returns them in
// stable producto-ID order, which is also the lock order for the stock
// debits — anulaciones sort the same way, so two multi-product operations can
// never deadlock each other.
func (s *ventaService) resolverItems(ctx context.Context, items []dto.ItemVentaRequest) ([]resolvedItem, decimal.Decimal, error) {
	resolved := make([]resolvedItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, decimal.Zero, validacion("producto_id invalido: %v", err)
		}
		if item.Cantidad <= 0 {
			return nil, decimal.Zero, validacion("la cantidad debe ser mayor a 0")
		}

		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, validacion("el producto %s no existe", item.ProductoID)
			}
			return nil, decimal.Zero, err
		}
		if !p.Activo {
			return nil, decimal.Zero, validacion("el producto %q esta inactivo y no puede venderse", p.Nombre)
		}

		precio := p.PrecioVenta
		if item.PrecioUnitario != nil {
			if item.PrecioUnitario.IsNegative() {
				return nil, decimal.Zero, validacion("el precio unitario no puede ser negativo")
			}
			precio = item.PrecioUnitario.Round(2)
		}

		subtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad))).Round(2)
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			producto: p,
			cantidad: item.Cantidad,
			precio:   precio,
			subtotal: subtotal,
		})
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].producto.ID.String() < resolved[j].producto.ID.String()
	})
	return resolved, total.Round(2), nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Atomic: stock is restored and the estado flips in one transaction, or
// neither happens.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	if venta.Estado != model.VentaCompletada {
		return nil, ErrVentaYaAnulada
	}

	detalles := make([]model.DetalleVenta, len(venta.Detalles))
	copy(detalles, venta.Detalles)
	sort.Slice(detalles, func(i, j int) bool {
		return detalles[i].ProductoID.String() < detalles[j].ProductoID.String()
	})

	stockNuevo := make(map[uuid.UUID]int, len(detalles))
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Guarded flip first: a concurrent anulacion loses the race here and
		// rolls back before touching stock.
		ok, err := s.repo.AnularTx(tx, id, motivo)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVentaYaAnulada
		}

		for _, d := range detalles {
			nuevo, err := s.inventario.DevolverTx(tx, d.ProductoID, d.Cantidad)
			if err != nil {
				return err
			}
			stockNuevo[d.ProductoID] = nuevo

			ref := venta.ID
			if err := s.inventario.RegistrarMovimientoTx(tx, &model.MovimientoStock{
				ProductoID:    d.ProductoID,
				Tipo:          "anulacion",
				Cantidad:      d.Cantidad,
				StockAnterior: nuevo - d.Cantidad,
				StockNuevo:    nuevo,
				Motivo:        motivo,
				ReferenciaID:  &ref,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, d := range detalles {
		stockMin := 0
		if d.Producto != nil {
			stockMin = d.Producto.StockMinimo
		}
		s.inventario.Espejar(ctx, d.ProductoID, stockNuevo[d.ProductoID], stockMin)
	}

	venta.Estado = model.VentaAnulada
	venta.MotivoAnulacion = &motivo
	return ventaToResponse(venta), nil
}

// ── SyncBatch ─────────────────────────────────────────────────────────────────

func (s *ventaService) SyncBatch(ctx context.Context, req dto.SyncBatchRequest) (*dto.SyncBatchResponse, error) {
	resp := &dto.SyncBatchResponse{
		Aplicadas: make([]dto.VentaResponse, 0, len(req.Ventas)),
		Fallidas:  make([]dto.SyncVentaFallida, 0),
	}

	for _, ventaReq := range req.Ventas {
		aplicada, err := s.RegistrarVenta(ctx, ventaReq)
		if err != nil {
			log.Warn().Err(err).Msg("sync: venta del lote rechazada")
			resp.Fallidas = append(resp.Fallidas, dto.SyncVentaFallida{
				OfflineID: ventaReq.OfflineID,
				Motivo:    err.Error(),
			})
			continue
		}
		resp.Aplicadas = append(resp.Aplicadas, *aplicada)
	}
	return resp, nil
}

func (s *ventaService) ListarPorSesion(ctx context.Context, sesionID uuid.UUID) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListPorSesion(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, *ventaToResponse(&ventas[i]))
	}
	return out, nil
}

func (s *ventaService) ListarPorFecha(ctx context.Context, fecha string) ([]dto.VentaResponse, error) {
	dia, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return nil, validacion("fecha %q invalida: use el formato YYYY-MM-DD", fecha)
	}
	ventas, err := s.repo.ListPorFecha(ctx, dia, dia.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, *ventaToResponse(&ventas[i]))
	}
	return out, nil
}

func (s *ventaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		items = append(items, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:               v.ID.String(),
		SesionCajaID:     v.SesionCajaID.String(),
		VendedorID:       v.VendedorID.String(),
		Items:            items,
		Total:            v.Total,
		MetodoPago:       v.MetodoPago,
		EfectivoRecibido: v.EfectivoRecibido,
		Cambio:           v.Cambio,
		Estado:           v.Estado,
		OfflineID:        v.OfflineID,
		FechaVenta:       v.FechaVenta.UTC().Format(time.RFC3339),
	}
}
