package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/apierror"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/infra"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP statuses. State
// conflicts come back 409 so terminals know a retry will not help; store
// unavailability comes back 503 so they buffer and retry later.
func respondError(c *gin.Context, err error) {
	var valErr *service.ValidacionError
	var stockErr *service.StockInsuficienteError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.New(stockErr.Error()))
	case errors.Is(err, service.ErrSesionYaAbierta),
		errors.Is(err, service.ErrSesionCerrada),
		errors.Is(err, service.ErrVentaYaAnulada),
		errors.Is(err, service.ErrCierreYaRegistrado):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSesionNoEncontrada),
		errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrCierreNoEncontrado),
		errors.Is(err, service.ErrProductoNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, apierror.New(valErr.Detalle))
	case errors.Is(err, infra.ErrAlmacenNoDisponible):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Almacen de datos no disponible, reintente"))
	default:
		// Internal detail stays in the logs; ErrorHandler picks this up.
		_ = c.Error(err)
	}
}
