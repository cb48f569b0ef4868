package router

import (
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/config"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/handler"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/middleware"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cierreRepo := repository.NewCierreRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb, inventarioRepo)

	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, inventarioRepo, dispatcher)
	cajaSvc := service.NewCajaService(cajaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, cajaSvc, productoRepo)
	cierreSvc := service.NewCierreService(cierreRepo, ventaRepo, cajaRepo, cajaSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	cierresH := handler.NewCierresHandler(cierreSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	productosH := handler.NewProductosHandler(productoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.POST("/:id/anular", ventasH.AnularVenta)
			ventas.POST("/sync-batch", ventasH.SyncBatch)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.GET("/fecha/:fecha", ventasH.ListarPorFecha)
			ventas.GET("/sesion/:sesionId", ventasH.ListarPorSesion)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.GET("/abierta", cajaH.BuscarAbierta)
			caja.GET("/sesiones", cajaH.Listar)
			caja.GET("/sesiones/:id", cajaH.BuscarPorID)
		}

		cierres := v1.Group("/cierres")
		{
			cierres.POST("", cierresH.Cerrar)
			cierres.GET("", cierresH.Listar)
			cierres.GET("/sesion/:sesionId", cierresH.BuscarPorSesion)
			cierres.GET("/sesion/:sesionId/totales", cierresH.Totales)
		}

		// Catalog reads for terminal cache sync.
		v1.GET("/productos", productosH.Listar)
		v1.GET("/productos/:id", productosH.ObtenerPorID)

		inventario := v1.Group("/inventario")
		{
			inventario.PATCH("/:id/stock", inventarioH.AjustarStock)
			inventario.GET("/inconsistencias", inventarioH.Inconsistencias)
			inventario.POST("/reparar", inventarioH.Reparar)
		}
	}

	return r
}
