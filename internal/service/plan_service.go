package service

import (
	"context"
	"fmt"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/google/uuid"
)

type PlanService interface {
	Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.PlanResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	repo repository.PlanRepository
}

func NewPlanService(repo repository.PlanRepository) PlanService {
	return &planService{repo: repo}
}

func (s *planService) Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	plan := &model.Plan{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Active:       true,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	resp := planToResponse(plan)
	return &resp, nil
}

func (s *planService) Get(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	resp := planToResponse(plan)
	return &resp, nil
}

func (s *planService) List(ctx context.Context, activeOnly bool) ([]dto.PlanResponse, error) {
	plans, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PlanResponse, len(plans))
	for i := range plans {
		resp[i] = planToResponse(&plans[i])
	}
	return resp, nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	resp := planToResponse(plan)
	return &resp, nil
}

// Deactivate soft-disables the plan so existing memberships and payment
// history keep their reference.
func (s *planService) Deactivate(ctx context.Context, id uuid.UUID) error {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: plan", ErrNotFound)
	}
	plan.Active = false
	return s.repo.Update(ctx, plan)
}

func planToResponse(p *model.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Active:       p.Active,
	}
}
