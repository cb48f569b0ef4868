package handler

import (
	"net/http"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/apierror"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// AjustarStock applies a manual stock adjustment and journals it.
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de producto invalido"))
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	nuevo, err := h.svc.AjustarStock(c.Request.Context(), productoID, req.Delta, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AjusteStockResponse{
		ProductoID: productoID.String(),
		StockNuevo: nuevo,
	})
}

// Inconsistencias lists ledger/snapshot divergences without touching them.
func (h *InventarioHandler) Inconsistencias(c *gin.Context) {
	rows, err := h.svc.BuscarInconsistencias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": len(rows)})
}

// Reparar rewrites divergent snapshot rows from the ledger.
func (h *InventarioHandler) Reparar(c *gin.Context) {
	reparadas, err := h.svc.RepararInconsistencias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReparacionResponse{Reparadas: reparadas})
}
