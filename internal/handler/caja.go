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

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir opens a cash session for a vendedor. Only one open session per
// vendedor is allowed; a second open attempt comes back 409.
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// BuscarPorID returns one session by id.
func (h *CajaHandler) BuscarPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarAbierta returns the vendedor's current open session, 404 when none.
func (h *CajaHandler) BuscarAbierta(c *gin.Context) {
	vendedorID, err := uuid.Parse(c.Query("vendedor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("vendedor_id invalido"))
		return
	}
	resp, err := h.svc.BuscarAbiertaPorVendedor(c.Request.Context(), vendedorID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("el vendedor no tiene una sesion abierta"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns the vendedor's recent sessions, newest first.
func (h *CajaHandler) Listar(c *gin.Context) {
	vendedorID, err := uuid.Parse(c.Query("vendedor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("vendedor_id invalido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.ListarPorVendedor(c.Request.Context(), vendedorID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}
