package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain error taxonomy. Handlers map these onto HTTP statuses; callers use
// errors.Is / errors.As. State-conflict errors must not be retried blindly.
var (
	ErrSesionYaAbierta      = errors.New("ya existe una sesion de caja abierta para este vendedor")
	ErrSesionNoEncontrada   = errors.New("sesion de caja no encontrada")
	ErrSesionCerrada        = errors.New("la sesion de caja ya esta cerrada")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
	ErrVentaYaAnulada       = errors.New("la venta ya esta anulada")
	ErrCierreYaRegistrado   = errors.New("la sesion ya tiene un cierre registrado")
	ErrCierreNoEncontrado   = errors.New("cierre de caja no encontrado")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
)

// ValidacionError is a bad-input failure: wrong shape or range. Not retriable.
type ValidacionError struct {
	Detalle string
}

func (e *ValidacionError) Error() string { return e.Detalle }

func validacion(format string, args ...interface{}) error {
	return &ValidacionError{Detalle: fmt.Sprintf(format, args...)}
}

// StockInsuficienteError names the offending producto so the caller can tell
// the operator exactly which line item cannot be fulfilled.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Nombre     string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d",
		e.Nombre, e.Solicitado, e.Disponible)
}
