package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/google/uuid"
)

type ChargeService interface {
	Create(ctx context.Context, req dto.CreateChargeRequest) (*dto.ChargeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ChargeResponse, error)
	List(ctx context.Context) ([]dto.ChargeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateChargeRequest) (*dto.ChargeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type chargeService struct {
	repo repository.ChargeRepository
}

func NewChargeService(repo repository.ChargeRepository) ChargeService {
	return &chargeService{repo: repo}
}

func (s *chargeService) Create(ctx context.Context, req dto.CreateChargeRequest) (*dto.ChargeResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date", ErrValidation)
	}
	charge := &model.Charge{
		Title:       req.Title,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, charge); err != nil {
		return nil, err
	}
	resp := chargeToResponse(charge)
	return &resp, nil
}

func (s *chargeService) Get(ctx context.Context, id uuid.UUID) (*dto.ChargeResponse, error) {
	charge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: charge", ErrNotFound)
	}
	resp := chargeToResponse(charge)
	return &resp, nil
}

func (s *chargeService) List(ctx context.Context) ([]dto.ChargeResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ChargeResponse, len(items))
	for i := range items {
		resp[i] = chargeToResponse(&items[i])
	}
	return resp, nil
}

func (s *chargeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateChargeRequest) (*dto.ChargeResponse, error) {
	charge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: charge", ErrNotFound)
	}
	if req.Title != "" {
		charge.Title = req.Title
	}
	if req.Amount != nil {
		charge.Amount = *req.Amount
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date", ErrValidation)
		}
		charge.Date = d
	}
	if req.Description != nil {
		charge.Description = *req.Description
	}
	if err := s.repo.Update(ctx, charge); err != nil {
		return nil, err
	}
	resp := chargeToResponse(charge)
	return &resp, nil
}

func (s *chargeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: charge", ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

func chargeToResponse(c *model.Charge) dto.ChargeResponse {
	return dto.ChargeResponse{
		ID:          c.ID.String(),
		Title:       c.Title,
		Amount:      c.Amount,
		Date:        c.Date.Format("2006-01-02"),
		Description: c.Description,
	}
}
