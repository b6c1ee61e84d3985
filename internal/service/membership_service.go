package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MembershipService interface {
	// DirectSale is a staff-entered plan sale: membership, PAID payment and
	// invoice in one call.
	DirectSale(ctx context.Context, req dto.DirectMembershipRequest) (*dto.DirectMembershipResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MembershipResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.MembershipResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.MembershipResponse, error)
	// ListByPlan returns the subscribers of one plan, active or not.
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]dto.MembershipResponse, error)
	// ExpireOverdue deactivates memberships past their end date; also exposed
	// for the admin endpoint besides the nightly cron.
	ExpireOverdue(ctx context.Context) (int64, error)
}

type membershipService struct {
	repo        repository.MembershipRepository
	planRepo    repository.PlanRepository
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	dispatcher  *worker.Dispatcher
}

func NewMembershipService(
	repo repository.MembershipRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	dispatcher *worker.Dispatcher,
) MembershipService {
	return &membershipService{
		repo:        repo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		dispatcher:  dispatcher,
	}
}

func (s *membershipService) DirectSale(ctx context.Context, req dto.DirectMembershipRequest) (*dto.DirectMembershipResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client_id", ErrValidation)
	}
	client, err := s.userRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client", ErrNotFound)
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%w: abonnement_id", ErrValidation)
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: plan is inactive", ErrValidation)
	}

	start := time.Now().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		if start, err = time.Parse("2006-01-02", req.StartDate); err != nil {
			return nil, fmt.Errorf("%w: date_debut", ErrValidation)
		}
	}
	end := start.AddDate(0, 0, plan.DurationDays)

	method := req.Method
	if method == "" {
		method = "CASH"
	}

	var (
		payment    model.Payment
		membership model.Membership
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := time.Now()
		payment = model.Payment{
			ClientID: &clientID,
			PlanID:   &planID,
			Amount:   plan.Price,
			Status:   "PAID",
			Method:   method,
			PaidAt:   &now,
		}
		if err := s.paymentRepo.CreateTx(tx, &payment); err != nil {
			return err
		}

		pid := payment.ID
		membership = model.Membership{
			ClientID:  clientID,
			PlanID:    planID,
			StartDate: start,
			EndDate:   end,
			Active:    true,
			PaymentID: &pid,
		}
		return s.repo.CreateTx(tx, &membership)
	})
	if txErr != nil {
		return nil, txErr
	}

	membership.Client = client
	membership.Plan = plan
	resp := &dto.DirectMembershipResponse{
		MembershipResponse: membershipToResponse(&membership),
	}

	if inv, _, err := s.invoiceRepo.GetOrCreate(ctx, payment.ID, "PLAN"); err == nil {
		ticketID := inv.ID.String()
		url := invoicePDFURL(inv)
		resp.TicketID = &ticketID
		resp.TicketURL = &url
		job := worker.InvoiceJobPayload{InvoiceID: ticketID, ClientEmail: clientEmail(client)}
		if err := s.dispatcher.EnqueueInvoice(ctx, job); err != nil {
			log.Warn().Err(err).Str("invoice_id", ticketID).Msg("membership: enqueue invoice render failed")
		}
	} else {
		log.Error().Err(err).Str("payment_id", payment.ID.String()).Msg("membership: invoice creation failed")
	}

	return resp, nil
}

func (s *membershipService) Get(ctx context.Context, id uuid.UUID) (*dto.MembershipResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: membership", ErrNotFound)
	}
	resp := membershipToResponse(m)
	return &resp, nil
}

func (s *membershipService) List(ctx context.Context, activeOnly bool) ([]dto.MembershipResponse, error) {
	items, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MembershipResponse, len(items))
	for i := range items {
		resp[i] = membershipToResponse(&items[i])
	}
	return resp, nil
}

func (s *membershipService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.MembershipResponse, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MembershipResponse, len(items))
	for i := range items {
		resp[i] = membershipToResponse(&items[i])
	}
	return resp, nil
}

func (s *membershipService) ListByPlan(ctx context.Context, planID uuid.UUID) ([]dto.MembershipResponse, error) {
	if _, err := s.planRepo.FindByID(ctx, planID); err != nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	items, err := s.repo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MembershipResponse, len(items))
	for i := range items {
		resp[i] = membershipToResponse(&items[i])
	}
	return resp, nil
}

func (s *membershipService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.DeactivateExpired(ctx, time.Now())
}

func membershipToResponse(m *model.Membership) dto.MembershipResponse {
	resp := dto.MembershipResponse{
		ID:        m.ID.String(),
		ClientID:  m.ClientID.String(),
		PlanID:    m.PlanID.String(),
		StartDate: m.StartDate.Format("2006-01-02"),
		EndDate:   m.EndDate.Format("2006-01-02"),
		Active:    m.Active,
	}
	if m.Client != nil {
		resp.ClientName = m.Client.FullName()
	}
	if m.Plan != nil {
		resp.PlanName = m.Plan.Name
		resp.PlanPrice = m.Plan.Price
	}
	if m.PaymentID != nil {
		id := m.PaymentID.String()
		resp.PaymentID = &id
	}
	return resp
}
