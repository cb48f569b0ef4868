package handler

import (
	"errors"
	"net/http"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/apierror"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductosHandler exposes the read-only catalog views the terminals pull
// for their local caches. Catalog writes live elsewhere.
type ProductosHandler struct{ repo repository.ProductoRepository }

func NewProductosHandler(repo repository.ProductoRepository) *ProductosHandler {
	return &ProductosHandler{repo: repo}
}

// Listar returns every active producto, ordered by nombre.
func (h *ProductosHandler) Listar(c *gin.Context) {
	productos, err := h.repo.ListActivos(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": productos, "total": len(productos)})
}

// ObtenerPorID returns one producto by id.
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("producto no encontrado"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}
