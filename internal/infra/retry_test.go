package infra

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_ErrorDeNegocioNoSeReintenta(t *testing.T) {
	errNegocio := errors.New("venta no encontrada")
	intentos := 0
	err := Retry(context.Background(), func() error {
		intentos++
		return errNegocio
	})
	assert.ErrorIs(t, err, errNegocio)
	assert.Equal(t, 1, intentos)
}

func TestRetry_TransitorioSeReintentaYRecupera(t *testing.T) {
	intentos := 0
	err := Retry(context.Background(), func() error {
		intentos++
		if intentos < 3 {
			return driver.ErrBadConn
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, intentos)
}

func TestRetry_AgotadoDevuelveAlmacenNoDisponible(t *testing.T) {
	intentos := 0
	err := Retry(context.Background(), func() error {
		intentos++
		return errors.New("dial tcp: connection refused")
	})
	assert.ErrorIs(t, err, ErrAlmacenNoDisponible)
	assert.Equal(t, retryMaxAttempts, intentos)
}

func TestRetry_ContextoCanceladoCorta(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, func() error {
		return driver.ErrBadConn
	})
	assert.ErrorIs(t, err, context.Canceled)
}
