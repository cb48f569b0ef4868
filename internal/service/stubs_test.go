package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository. AjustarStockTx holds
// the same invariant as the real guarded UPDATE: stock never goes negative,
// and concurrent adjustments on one producto serialize.
type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if p.StockActual+delta < 0 {
		return 0, repository.ErrStockInsuficiente
	}
	p.StockActual += delta
	return p.StockActual, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[id].StockActual
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func seedProducto(r *stubProductoRepo, nombre string, precioVenta, precioCosto float64, stock, stockMin int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		PrecioVenta: decimal.NewFromFloat(precioVenta),
		PrecioCosto: decimal.NewFromFloat(precioCosto),
		StockActual: stock,
		StockMinimo: stockMin,
		Activo:      true,
	}
	_ = r.Create(context.Background(), p)
	return p
}

// stubVentaRepo is an in-memory VentaRepository with a unique offline index.
type stubVentaRepo struct {
	mu         sync.Mutex
	ventas     map[uuid.UUID]*model.Venta
	offlineIdx map[string]*model.Venta
	// costos feeds the ganancia aggregate; keyed by producto.
	costos map[uuid.UUID]decimal.Decimal
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{
		ventas:     make(map[uuid.UUID]*model.Venta),
		offlineIdx: make(map[string]*model.Venta),
		costos:     make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.OfflineID != nil {
		if _, dup := r.offlineIdx[*v.OfflineID]; dup {
			return gorm.ErrDuplicatedKey
		}
		r.offlineIdx[*v.OfflineID] = v
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) FindByOfflineID(_ context.Context, offlineID string) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.offlineIdx[offlineID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SesionCajaID == sesionID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) ListPorFecha(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if !v.FechaVenta.Before(desde) && v.FechaVenta.Before(hasta) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) AnularTx(_ *gorm.DB, id uuid.UUID, motivo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok || v.Estado != model.VentaCompletada {
		return false, nil
	}
	v.Estado = model.VentaAnulada
	v.MotivoAnulacion = &motivo
	return true, nil
}

func (r *stubVentaRepo) TotalesPorSesion(_ context.Context, sesionID uuid.UUID) (*repository.TotalesSesion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &repository.TotalesSesion{
		TotalVentas:        decimal.Zero,
		TotalEfectivo:      decimal.Zero,
		TotalTarjeta:       decimal.Zero,
		TotalTransferencia: decimal.Zero,
		GananciaBruta:      decimal.Zero,
	}
	for _, v := range r.ventas {
		if v.SesionCajaID != sesionID || v.Estado != model.VentaCompletada {
			continue
		}
		t.CantidadVentas++
		t.TotalVentas = t.TotalVentas.Add(v.Total)
		switch v.MetodoPago {
		case model.PagoEfectivo:
			t.TotalEfectivo = t.TotalEfectivo.Add(v.Total)
		case model.PagoTarjeta:
			t.TotalTarjeta = t.TotalTarjeta.Add(v.Total)
		case model.PagoTransferencia:
			t.TotalTransferencia = t.TotalTransferencia.Add(v.Total)
		}
		for _, d := range v.Detalles {
			costo := r.costos[d.ProductoID]
			margen := d.PrecioUnitario.Sub(costo).Mul(decimal.NewFromInt(int64(d.Cantidad)))
			t.GananciaBruta = t.GananciaBruta.Add(margen)
		}
	}
	t.GananciaBruta = t.GananciaBruta.Round(2)
	return t, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubCajaRepo enforces the one-open-session-per-vendedor unique index.
type stubCajaRepo struct {
	mu       sync.Mutex
	sesiones map[uuid.UUID]*model.SesionCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *stubCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sesiones {
		if existing.VendedorID == s.VendedorID && existing.Estado == model.SesionAbierta {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Estado = model.SesionAbierta
	r.sesiones[s.ID] = s
	return nil
}

func (r *stubCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubCajaRepo) FindSesionAbiertaPorVendedor(_ context.Context, vendedorID uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sesiones {
		if s.VendedorID == vendedorID && s.Estado == model.SesionAbierta {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) ListSesionesPorVendedor(_ context.Context, vendedorID uuid.UUID, _ int) ([]model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if s.VendedorID == vendedorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) CerrarSesion(_ context.Context, id uuid.UUID, saldoFinal decimal.Decimal, observaciones *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok || s.Estado != model.SesionAbierta {
		return false, nil
	}
	s.Estado = model.SesionCerrada
	s.SaldoFinal = &saldoFinal
	s.Observaciones = observaciones
	return true, nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// stubInventarioRepo records snapshot upserts.
type stubInventarioRepo struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]*model.Inventario
	// inconsistencias is returned verbatim by ListInconsistencias.
	inconsistencias []repository.Inconsistencia
	upserts         int
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{snapshots: make(map[uuid.UUID]*model.Inventario)}
}

func (r *stubInventarioRepo) Upsert(_ context.Context, productoID uuid.UUID, stockActual, stockMinimo int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.snapshots[productoID] = &model.Inventario{
		ProductoID:  productoID,
		StockActual: stockActual,
		StockMinimo: stockMinimo,
	}
	return nil
}

func (r *stubInventarioRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.snapshots[productoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubInventarioRepo) ListInconsistencias(_ context.Context) ([]repository.Inconsistencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inconsistencias, nil
}

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// stubMovimientoRepo captures created journal rows for assertion.
type stubMovimientoRepo struct {
	mu          sync.Mutex
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// stubCierreRepo enforces the one-cierre-per-session unique index.
type stubCierreRepo struct {
	mu      sync.Mutex
	cierres map[uuid.UUID]*model.CierreCaja
}

func newStubCierreRepo() *stubCierreRepo {
	return &stubCierreRepo{cierres: make(map[uuid.UUID]*model.CierreCaja)}
}

func (r *stubCierreRepo) Create(_ context.Context, c *model.CierreCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.cierres[c.SesionCajaID]; dup {
		return gorm.ErrDuplicatedKey
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cierres[c.SesionCajaID] = c
	return nil
}

func (r *stubCierreRepo) FindBySesionID(_ context.Context, sesionID uuid.UUID) (*model.CierreCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cierres[sesionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCierreRepo) List(_ context.Context, page, limit int) ([]model.CierreCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CierreCaja
	for _, c := range r.cierres {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.CierreRepository = (*stubCierreRepo)(nil)

// ── Builders ─────────────────────────────────────────────────────────────────

type ventaFixture struct {
	svc            service.VentaService
	ventaRepo      *stubVentaRepo
	productoRepo   *stubProductoRepo
	cajaRepo       *stubCajaRepo
	inventarioRepo *stubInventarioRepo
	movimientoRepo *stubMovimientoRepo
	cajaSvc        service.CajaService
}

func buildVentaFixture() *ventaFixture {
	productoRepo := newStubProductoRepo()
	ventaRepo := newStubVentaRepo()
	cajaRepo := newStubCajaRepo()
	inventarioRepo := newStubInventarioRepo()
	movimientoRepo := &stubMovimientoRepo{}

	dispatcher := worker.NewDispatcher(nil, inventarioRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, inventarioRepo, dispatcher)
	cajaSvc := service.NewCajaService(cajaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, cajaSvc, productoRepo)

	return &ventaFixture{
		svc:            ventaSvc,
		ventaRepo:      ventaRepo,
		productoRepo:   productoRepo,
		cajaRepo:       cajaRepo,
		inventarioRepo: inventarioRepo,
		movimientoRepo: movimientoRepo,
		cajaSvc:        cajaSvc,
	}
}

// abrirSesion opens a session directly through the repo and returns its id.
func (f *ventaFixture) abrirSesion(vendedorID uuid.UUID, saldoInicial float64) uuid.UUID {
	s := &model.SesionCaja{
		VendedorID:   vendedorID,
		SaldoInicial: decimal.NewFromFloat(saldoInicial),
	}
	_ = f.cajaRepo.CreateSesion(context.Background(), s)
	return s.ID
}
