package service_test

import (
	"context"
	"testing"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventarioFixture struct {
	svc            service.InventarioService
	productoRepo   *stubProductoRepo
	inventarioRepo *stubInventarioRepo
	movimientoRepo *stubMovimientoRepo
}

func buildInventarioFixture() *inventarioFixture {
	productoRepo := newStubProductoRepo()
	inventarioRepo := newStubInventarioRepo()
	movimientoRepo := &stubMovimientoRepo{}
	dispatcher := worker.NewDispatcher(nil, inventarioRepo)
	return &inventarioFixture{
		svc:            service.NewInventarioService(productoRepo, movimientoRepo, inventarioRepo, dispatcher),
		productoRepo:   productoRepo,
		inventarioRepo: inventarioRepo,
		movimientoRepo: movimientoRepo,
	}
}

func TestAjustarStock_SumaYJornaliza(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Harina 1kg", 1.20, 0.70, 10, 3)

	nuevo, err := f.svc.AjustarStock(context.Background(), p.ID, 15, "recepcion de mercaderia")
	require.NoError(t, err)
	assert.Equal(t, 25, nuevo)

	movs, err := f.movimientoRepo.ListByProducto(context.Background(), p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "ajuste_manual", movs[0].Tipo)
	assert.Equal(t, 15, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 25, movs[0].StockNuevo)
}

func TestAjustarStock_NoDejaNegativo(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Aceite 900ml", 4.50, 3.00, 4, 1)

	_, err := f.svc.AjustarStock(context.Background(), p.ID, -7, "merma")
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, f.productoRepo.stock(p.ID))
}

func TestAjustarStock_ProductoInexistente(t *testing.T) {
	f := buildInventarioFixture()
	_, err := f.svc.AjustarStock(context.Background(), uuid.New(), 5, "carga inicial")
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

func TestAjustarStock_DeltaCero(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Sal 500g", 0.80, 0.40, 5, 1)

	_, err := f.svc.AjustarStock(context.Background(), p.ID, 0, "nada")
	var valErr *service.ValidacionError
	assert.ErrorAs(t, err, &valErr)
}

func TestEspejar_SinRedisActualizaSincronico(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Mermelada", 3.10, 1.90, 12, 2)

	f.svc.Espejar(context.Background(), p.ID, 12, 2)

	snap, err := f.inventarioRepo.FindByProductoID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, snap.StockActual)
	assert.Equal(t, 2, snap.StockMinimo)
}

func TestAjustarStock_ActualizaElEspejo(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Manteca", 2.40, 1.50, 6, 2)

	_, err := f.svc.AjustarStock(context.Background(), p.ID, -2, "rotura")
	require.NoError(t, err)

	snap, err := f.inventarioRepo.FindByProductoID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.StockActual)
}

func TestBuscarInconsistencias(t *testing.T) {
	f := buildInventarioFixture()
	pid := uuid.New()
	espejo := 7
	f.inventarioRepo.inconsistencias = []repository.Inconsistencia{
		{ProductoID: pid, StockLedger: 9, StockEspejo: &espejo},
		{ProductoID: uuid.New(), StockLedger: 3, StockEspejo: nil},
	}

	rows, err := f.svc.BuscarInconsistencias(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, pid.String(), rows[0].ProductoID)
	assert.Equal(t, 9, rows[0].StockLedger)
	require.NotNil(t, rows[0].StockEspejo)
	assert.Equal(t, 7, *rows[0].StockEspejo)
	assert.Nil(t, rows[1].StockEspejo, "fila sin snapshot se reporta con espejo nulo")
}

func TestRepararInconsistencias_ReescribeDesdeElLedger(t *testing.T) {
	f := buildInventarioFixture()
	p := seedProducto(f.productoRepo, "Dulce de leche", 5.60, 3.40, 18, 3)
	espejo := 11
	f.inventarioRepo.inconsistencias = []repository.Inconsistencia{
		{ProductoID: p.ID, StockLedger: 18, StockEspejo: &espejo},
		// Producto que ya no existe en el catalogo: se omite sin fallar.
		{ProductoID: uuid.New(), StockLedger: 2, StockEspejo: nil},
	}

	reparadas, err := f.svc.RepararInconsistencias(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reparadas)

	snap, err := f.inventarioRepo.FindByProductoID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, snap.StockActual, "el ledger es la fuente de verdad")
}
