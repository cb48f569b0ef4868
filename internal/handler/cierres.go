package handler

import (
	"net/http"
	"strconv"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/apierror"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CierresHandler struct{ svc service.CierreService }

func NewCierresHandler(svc service.CierreService) *CierresHandler {
	return &CierresHandler{svc: svc}
}

// Totales previews a session's aggregates without persisting anything.
func (h *CierresHandler) Totales(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesion invalido"))
		return
	}
	resp, err := h.svc.CalcularTotales(c.Request.Context(), sesionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar registers the arqueo for a session. A 201 with advertencias means
// the cierre persisted but a secondary step (closing the session) did not.
func (h *CierresHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// BuscarPorSesion returns the cierre registered for a session.
func (h *CierresHandler) BuscarPorSesion(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesion invalido"))
		return
	}
	resp, err := h.svc.BuscarPorSesion(c.Request.Context(), sesionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns cierres paginated, newest first.
func (h *CierresHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
