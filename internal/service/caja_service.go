package service

import (
	"context"
	"errors"
	"time"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/dto"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"
	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	// Cerrar flips the session to cerrada. ErrSesionCerrada when it already
	// was; the flip happens at most once no matter how many callers race.
	Cerrar(ctx context.Context, id uuid.UUID, saldoFinal decimal.Decimal, observaciones *string) (*dto.SesionCajaResponse, error)
	// ValidarSesionAbierta reports nil only when the session exists and is
	// still abierta.
	ValidarSesionAbierta(ctx context.Context, id uuid.UUID) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error)
	BuscarAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*dto.SesionCajaResponse, error)
	ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]dto.SesionCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	vendedorID, err := uuid.Parse(req.VendedorID)
	if err != nil {
		return nil, validacion("vendedor_id invalido: %v", err)
	}
	if req.SaldoInicial.IsNegative() {
		return nil, validacion("el saldo inicial no puede ser negativo")
	}

	sesion := model.SesionCaja{
		VendedorID:    vendedorID,
		SaldoInicial:  req.SaldoInicial.Round(2),
		Estado:        model.SesionAbierta,
		FechaApertura: time.Now().UTC(),
	}
	if err := s.repo.CreateSesion(ctx, &sesion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSesionYaAbierta
		}
		return nil, err
	}
	return sesionToResponse(&sesion), nil
}

func (s *cajaService) Cerrar(ctx context.Context, id uuid.UUID, saldoFinal decimal.Decimal, observaciones *string) (*dto.SesionCajaResponse, error) {
	cerrada, err := s.repo.CerrarSesion(ctx, id, saldoFinal.Round(2), observaciones)
	if err != nil {
		return nil, err
	}
	if !cerrada {
		// No row flipped: missing session or already closed.
		sesion, err := s.repo.FindSesionByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSesionNoEncontrada
			}
			return nil, err
		}
		if sesion.Estado == model.SesionCerrada {
			return nil, ErrSesionCerrada
		}
		return nil, ErrSesionNoEncontrada
	}

	sesion, err := s.repo.FindSesionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) ValidarSesionAbierta(ctx context.Context, id uuid.UUID) error {
	sesion, err := s.repo.FindSesionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSesionNoEncontrada
		}
		return err
	}
	if sesion.Estado != model.SesionAbierta {
		return ErrSesionCerrada
	}
	return nil
}

func (s *cajaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSesionNoEncontrada
		}
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

// BuscarAbiertaPorVendedor returns nil, nil when the vendedor has no open
// session; the handler turns that into a 404.
func (s *cajaService) BuscarAbiertaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbiertaPorVendedor(ctx, vendedorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]dto.SesionCajaResponse, error) {
	sesiones, err := s.repo.ListSesionesPorVendedor(ctx, vendedorID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		out = append(out, *sesionToResponse(&sesiones[i]))
	}
	return out, nil
}

func sesionToResponse(s *model.SesionCaja) *dto.SesionCajaResponse {
	resp := &dto.SesionCajaResponse{
		ID:            s.ID.String(),
		VendedorID:    s.VendedorID.String(),
		SaldoInicial:  s.SaldoInicial,
		SaldoFinal:    s.SaldoFinal,
		Estado:        s.Estado,
		Observaciones: s.Observaciones,
		FechaApertura: s.FechaApertura.UTC().Format(time.RFC3339),
	}
	if s.FechaCierre != nil {
		fc := s.FechaCierre.UTC().Format(time.RFC3339)
		resp.FechaCierre = &fc
	}
	return resp
}
