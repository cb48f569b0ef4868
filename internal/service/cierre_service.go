package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CierreService interface {
	// CalcularTotales computes the session's aggregates without persisting
	// anything; it is the preview the cajero sees before counting the cash.
	CalcularTotales(ctx context.Context, sesionID uuid.UUID) (*dto.TotalesSesionResponse, error)
	// Cerrar persists the cierre and then closes the session. A session that
	// cannot be flipped afterwards degrades to an advertencia: the cierre is
	// the record that matters and is never rolled back for it.
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	BuscarPorSesion(ctx context.Context, sesionID uuid.UUID) (*dto.CierreCajaResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.CierreListResponse, error)
}

type cierreService struct {
	repo      repository.CierreRepository
	ventaRepo repository.VentaRepository
	cajaRepo  repository.CajaRepository
	caja      CajaService
}

func NewCierreService(
	repo repository.CierreRepository,
	ventaRepo repository.VentaRepository,
	cajaRepo repository.CajaRepository,
	caja CajaService,
) CierreService {
	return &cierreService{repo: repo, ventaRepo: ventaRepo, cajaRepo: cajaRepo, caja: caja}
}

type totalesSesion struct {
	repository.TotalesSesion
	saldoInicial decimal.Decimal
	vendedorID   uuid.UUID
	advertencias []string
}

// calcular never fails for a missing or broken session row: totals come from
// the ventas alone and the degradation is reported as an advertencia. This is
// what lets a terminal close out even after a half-synced offline day.
func (s *cierreService) calcular(ctx context.Context, sesionID uuid.UUID) (*totalesSesion, error) {
	agg, err := s.ventaRepo.TotalesPorSesion(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	out := &totalesSesion{TotalesSesion: *agg}
	sesion, err := s.cajaRepo.FindSesionByID(ctx, sesionID)
	switch {
	case err == nil:
		out.saldoInicial = sesion.SaldoInicial
		out.vendedorID = sesion.VendedorID
	case errors.Is(err, gorm.ErrRecordNotFound):
		out.advertencias = append(out.advertencias,
			"sesion no encontrada en el servidor; saldo inicial asumido en 0")
	default:
		log.Error().Err(err).Str("sesion_caja_id", sesionID.String()).
			Msg("cierre: no se pudo leer la sesion")
		out.advertencias = append(out.advertencias,
			fmt.Sprintf("no se pudo leer la sesion (%v); saldo inicial asumido en 0", err))
	}
	return out, nil
}

func (s *cierreService) CalcularTotales(ctx context.Context, sesionID uuid.UUID) (*dto.TotalesSesionResponse, error) {
	t, err := s.calcular(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	return &dto.TotalesSesionResponse{
		SesionCajaID:       sesionID.String(),
		CantidadVentas:     t.CantidadVentas,
		TotalVentas:        t.TotalVentas,
		TotalEfectivo:      t.TotalEfectivo,
		TotalTarjeta:       t.TotalTarjeta,
		TotalTransferencia: t.TotalTransferencia,
		GananciaBruta:      t.GananciaBruta,
		SaldoTeorico:       t.saldoInicial.Add(t.TotalEfectivo).Round(2),
		Advertencias:       t.advertencias,
	}, nil
}

func (s *cierreService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, validacion("sesion_caja_id invalido: %v", err)
	}
	if req.SaldoFinalReal.IsNegative() {
		return nil, validacion("el saldo final real no puede ser negativo")
	}

	t, err := s.calcular(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	saldoReal := req.SaldoFinalReal.Round(2)
	saldoTeorico := t.saldoInicial.Add(t.TotalEfectivo).Round(2)
	diferencia := saldoReal.Sub(saldoTeorico)

	cierre := model.CierreCaja{
		SesionCajaID:       sesionID,
		VendedorID:         t.vendedorID,
		TotalVentas:        t.TotalVentas,
		TotalEfectivo:      t.TotalEfectivo,
		TotalTarjeta:       t.TotalTarjeta,
		TotalTransferencia: t.TotalTransferencia,
		GananciaBruta:      t.GananciaBruta,
		SaldoTeorico:       saldoTeorico,
		SaldoReal:          saldoReal,
		Diferencia:         diferencia,
	}
	if req.Observaciones != nil {
		cierre.Observaciones = *req.Observaciones
	}
	if err := s.repo.Create(ctx, &cierre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCierreYaRegistrado
		}
		return nil, err
	}

	advertencias := append([]string{}, t.advertencias...)

	// The cierre is already on disk; a failed session flip is reported, not
	// propagated.
	if _, err := s.caja.Cerrar(ctx, sesionID, saldoReal, req.Observaciones); err != nil {
		switch {
		case errors.Is(err, ErrSesionCerrada):
			advertencias = append(advertencias, "la sesion ya estaba cerrada")
		case errors.Is(err, ErrSesionNoEncontrada):
			advertencias = append(advertencias, "la sesion no existe en el servidor y no pudo cerrarse")
		default:
			log.Error().Err(err).Str("sesion_caja_id", sesionID.String()).
				Msg("cierre registrado pero la sesion no pudo cerrarse")
			advertencias = append(advertencias, fmt.Sprintf("la sesion no pudo cerrarse: %v", err))
		}
	}

	resp := cierreToResponse(&cierre)
	resp.Advertencias = advertencias
	return resp, nil
}

func (s *cierreService) BuscarPorSesion(ctx context.Context, sesionID uuid.UUID) (*dto.CierreCajaResponse, error) {
	cierre, err := s.repo.FindBySesionID(ctx, sesionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCierreNoEncontrado
		}
		return nil, err
	}
	return cierreToResponse(cierre), nil
}

func (s *cierreService) Listar(ctx context.Context, page, limit int) (*dto.CierreListResponse, error) {
	cierres, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CierreCajaResponse, 0, len(cierres))
	for i := range cierres {
		data = append(data, *cierreToResponse(&cierres[i]))
	}
	return &dto.CierreListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func estadoCaja(diferencia decimal.Decimal) string {
	switch {
	case diferencia.IsZero():
		return "exacto"
	case diferencia.IsPositive():
		return "sobrante"
	default:
		return "faltante"
	}
}

func cierreToResponse(c *model.CierreCaja) *dto.CierreCajaResponse {
	return &dto.CierreCajaResponse{
		ID:                 c.ID.String(),
		SesionCajaID:       c.SesionCajaID.String(),
		VendedorID:         c.VendedorID.String(),
		TotalVentas:        c.TotalVentas,
		TotalEfectivo:      c.TotalEfectivo,
		TotalTarjeta:       c.TotalTarjeta,
		TotalTransferencia: c.TotalTransferencia,
		GananciaBruta:      c.GananciaBruta,
		SaldoTeorico:       c.SaldoTeorico,
		SaldoReal:          c.SaldoReal,
		Diferencia:         c.Diferencia,
		EstadoCaja:         estadoCaja(c.Diferencia),
		Observaciones:      c.Observaciones,
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
