package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReservationService interface {
	Create(ctx context.Context, clientID *uuid.UUID, req dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error)
	List(ctx context.Context, filter dto.ReservationFilter) (*dto.ReservationListResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.ReservationResponse, error)
	Validate(ctx context.Context, id uuid.UUID, req dto.ValidateReservationRequest) (*dto.ValidateReservationResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) error
	MarkDone(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reservationService struct {
	repo           repository.ReservationRepository
	paymentRepo    repository.PaymentRepository
	planRepo       repository.PlanRepository
	invoiceRepo    repository.InvoiceRepository
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	dispatcher     *worker.Dispatcher
}

func NewReservationService(
	repo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	dispatcher *worker.Dispatcher,
) ReservationService {
	return &reservationService{
		repo:           repo,
		paymentRepo:    paymentRepo,
		planRepo:       planRepo,
		invoiceRepo:    invoiceRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// planNamePattern extracts the plan name out of legacy free-text descriptions
// like "Abonnement Gold - janvier". Older clients created reservations without
// an explicit plan reference.
var planNamePattern = regexp.MustCompile(`Abonnement\s+([\w\- ]+)`)

// priceTolerance is the relative window for the price-proximity fallback.
var priceTolerance = decimal.NewFromFloat(0.10)

func (s *reservationService) Create(ctx context.Context, clientID *uuid.UUID, req dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	res := &model.Reservation{
		Kind:        req.Kind,
		Hours:       req.Hours,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      "PENDING",
	}
	if res.Hours <= 0 {
		res.Hours = 1
	}
	if clientID != nil {
		client, err := s.userRepo.FindByID(ctx, *clientID)
		if err != nil {
			return nil, fmt.Errorf("%w: client", ErrNotFound)
		}
		res.ClientID = clientID
		res.ClientName = client.FullName()
	}

	if req.PlanID != nil {
		pid, err := uuid.Parse(*req.PlanID)
		if err != nil {
			return nil, fmt.Errorf("%w: plan_id", ErrValidation)
		}
		plan, err := s.planRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("%w: plan", ErrNotFound)
		}
		if !plan.Active {
			return nil, fmt.Errorf("%w: plan is inactive", ErrValidation)
		}
		res.PlanID = &pid
		// Amount defaults to the plan price when the client omits it.
		if res.Amount.IsZero() {
			res.Amount = plan.Price
		}
	}

	if req.DesiredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.DesiredAt)
		if err != nil {
			return nil, fmt.Errorf("%w: desired_at", ErrValidation)
		}
		res.DesiredAt = &t
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	resp := reservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: reservation", ErrNotFound)
	}
	resp := reservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) List(ctx context.Context, filter dto.ReservationFilter) (*dto.ReservationListResponse, error) {
	items, total, err := s.repo.List(ctx, repository.ReservationFilter{
		Status: filter.Status,
		Kind:   filter.Kind,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.ReservationListResponse{
		Data:  make([]dto.ReservationResponse, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Data[i] = reservationToResponse(&items[i])
	}
	return resp, nil
}

func (s *reservationService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.ReservationResponse, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ReservationResponse, len(items))
	for i := range items {
		resp[i] = reservationToResponse(&items[i])
	}
	return resp, nil
}

// Validate records a staff-entered payment against the reservation and
// reconciles the running total with the reference price. The reservation row
// is locked for the whole transaction so concurrent validations serialize:
// two cashiers can never both settle the same reservation.
func (s *reservationService) Validate(ctx context.Context, id uuid.UUID, req dto.ValidateReservationRequest) (*dto.ValidateReservationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	method := req.Method
	if method == "" {
		method = "CASH"
	}

	var (
		payment   model.Payment
		reference decimal.Decimal
		refPlanID *uuid.UUID
		total     decimal.Decimal
		settled   bool
		clientID  *uuid.UUID
		kind      string
	)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		res, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("%w: reservation", ErrNotFound)
		}
		if res.Status != "PENDING" {
			return fmt.Errorf("%w: reservation is %s", ErrStateConflict, strings.ToLower(res.Status))
		}

		now := time.Now()

		// Session reservations have no catalog price: the cashier-entered
		// amount is the price, and a single payment settles the visit.
		if res.Kind == "SESSION" {
			payment = model.Payment{
				ClientID:      res.ClientID,
				ReservationID: &res.ID,
				Amount:        req.Amount,
				Status:        "PAID",
				Method:        method,
				PaidAt:        &now,
			}
			if err := s.paymentRepo.CreateTx(tx, &payment); err != nil {
				return err
			}
			reference = req.Amount
			total = req.Amount
			settled = true
			res.Amount = req.Amount
			res.AmountPaid = total
			res.Status = "CONFIRMED"
			clientID = res.ClientID
			kind = res.Kind
			return s.repo.UpdateTx(tx, res)
		}

		reference, refPlanID = s.resolveReference(ctx, res, req.Amount)

		existing, err := s.paymentRepo.SumPaidByReservation(tx, res.ID)
		if err != nil {
			return err
		}
		if existing.Add(req.Amount).GreaterThan(reference) {
			return fmt.Errorf("%w: payment of %s would exceed the reference price %s (already paid %s)",
				ErrStateConflict, req.Amount.StringFixed(2), reference.StringFixed(2), existing.StringFixed(2))
		}

		payment = model.Payment{
			ClientID:      res.ClientID,
			PlanID:        refPlanID,
			ReservationID: &res.ID,
			Amount:        req.Amount,
			Status:        "PAID",
			Method:        method,
			PaidAt:        &now,
		}
		if err := s.paymentRepo.CreateTx(tx, &payment); err != nil {
			return err
		}

		total = existing.Add(req.Amount)
		res.AmountPaid = total
		settled = total.Equal(reference)
		if settled {
			res.Status = "CONFIRMED"
			// A settled plan reservation opens the subscription itself.
			if err := s.openMembership(ctx, tx, res, refPlanID, payment.ID); err != nil {
				return err
			}
		}
		clientID = res.ClientID
		kind = res.Kind
		return s.repo.UpdateTx(tx, res)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.ValidateReservationResponse{
		PaymentID:      payment.ID.String(),
		Amount:         req.Amount,
		TotalPaid:      total,
		ReferencePrice: reference,
		Status:         "PENDING",
	}

	if !settled {
		remaining := reference.Sub(total)
		resp.Remaining = &remaining
		resp.Message = fmt.Sprintf("Partial payment recorded, %s remaining", remaining.StringFixed(2))
		return resp, nil
	}

	resp.Status = "CONFIRMED"
	resp.Message = "Reservation confirmed"
	resp.InvoiceURL = s.issueInvoice(ctx, payment.ID, kind, clientID)
	return resp, nil
}

// openMembership activates the subscription once a plan reservation is fully
// paid. Reservations without a resolvable plan or a known client (walk-in
// legacy rows) settle without one.
func (s *reservationService) openMembership(ctx context.Context, tx *gorm.DB, res *model.Reservation, planID *uuid.UUID, paymentID uuid.UUID) error {
	if s.membershipRepo == nil || res.Kind != "PLAN" || planID == nil || res.ClientID == nil {
		return nil
	}
	plan, err := s.planRepo.FindByID(ctx, *planID)
	if err != nil {
		return fmt.Errorf("%w: plan", ErrNotFound)
	}
	start := time.Now().Truncate(24 * time.Hour)
	pid := paymentID
	m := model.Membership{
		ClientID:  *res.ClientID,
		PlanID:    *planID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, plan.DurationDays),
		Active:    true,
		PaymentID: &pid,
	}
	return s.membershipRepo.CreateTx(tx, &m)
}

// issueInvoice creates the invoice row and queues the PDF render. Invoice
// failures are logged, never propagated: the money has already moved.
func (s *reservationService) issueInvoice(ctx context.Context, paymentID uuid.UUID, kind string, clientID *uuid.UUID) *string {
	if s.invoiceRepo == nil {
		return nil
	}
	inv, _, err := s.invoiceRepo.GetOrCreate(ctx, paymentID, kind)
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID.String()).Msg("reservation: invoice creation failed")
		return nil
	}
	var email *string
	if clientID != nil {
		if client, err := s.userRepo.FindByID(ctx, *clientID); err == nil {
			email = clientEmail(client)
		}
	}
	job := worker.InvoiceJobPayload{InvoiceID: inv.ID.String(), ClientEmail: email}
	if err := s.dispatcher.EnqueueInvoice(ctx, job); err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("reservation: enqueue invoice render failed")
	}
	url := invoicePDFURL(inv)
	return &url
}

// resolveReference determines the price the running total must reach.
// Resolution order: explicit plan reference, plan name parsed from the
// description, price proximity among active plans, then the stored amount.
func (s *reservationService) resolveReference(ctx context.Context, res *model.Reservation, paid decimal.Decimal) (decimal.Decimal, *uuid.UUID) {
	if res.PlanID != nil {
		if plan, err := s.planRepo.FindByID(ctx, *res.PlanID); err == nil {
			return plan.Price, res.PlanID
		}
	}

	if res.Kind == "PLAN" {
		plans, err := s.planRepo.ListActiveOrdered(ctx)
		if err == nil && len(plans) > 0 {
			// Legacy descriptions carry the plan name.
			if m := planNamePattern.FindStringSubmatch(res.Description); m != nil {
				wanted := strings.TrimSpace(m[1])
				for i := range plans {
					if strings.EqualFold(plans[i].Name, wanted) {
						pid := plans[i].ID
						return plans[i].Price, &pid
					}
				}
			}

			// Price proximity: closest plan within 10% of the probe amount.
			// Ties break on creation order, which ListActiveOrdered guarantees.
			probe := res.Amount
			if probe.IsZero() {
				probe = paid
			}
			var best *model.Plan
			var bestDiff decimal.Decimal
			for i := range plans {
				diff := plans[i].Price.Sub(probe).Abs()
				if diff.GreaterThan(plans[i].Price.Mul(priceTolerance)) {
					continue
				}
				if best == nil || diff.LessThan(bestDiff) {
					best = &plans[i]
					bestDiff = diff
				}
			}
			if best != nil {
				pid := best.ID
				return best.Price, &pid
			}
		}
	}

	// Stored amount, or the payment itself when nothing else is known
	// (settles immediately).
	if res.Amount.IsPositive() {
		return res.Amount, nil
	}
	return paid, nil
}

// Cancel rejects anything already settled or done. When requesterID is set
// (client self-service) the reservation must belong to them.
func (s *reservationService) Cancel(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) error {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: reservation", ErrNotFound)
	}
	if requesterID != nil {
		if res.ClientID == nil || *res.ClientID != *requesterID {
			return fmt.Errorf("%w: not your reservation", ErrPermissionDenied)
		}
	}
	if res.Status != "PENDING" {
		return fmt.Errorf("%w: only pending reservations can be cancelled", ErrStateConflict)
	}
	res.Status = "CANCELLED"
	return s.repo.Update(ctx, res)
}

// MarkDone closes a confirmed reservation after the visit took place.
func (s *reservationService) MarkDone(ctx context.Context, id uuid.UUID) error {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: reservation", ErrNotFound)
	}
	if res.Status != "CONFIRMED" {
		return fmt.Errorf("%w: only confirmed reservations can be completed", ErrStateConflict)
	}
	res.Status = "DONE"
	return s.repo.Update(ctx, res)
}

func (s *reservationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: reservation", ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

func reservationToResponse(r *model.Reservation) dto.ReservationResponse {
	resp := dto.ReservationResponse{
		ID:          r.ID.String(),
		ClientName:  r.ClientName,
		Kind:        r.Kind,
		Hours:       r.Hours,
		Amount:      r.Amount,
		AmountPaid:  r.AmountPaid,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.ClientID != nil {
		id := r.ClientID.String()
		resp.ClientID = &id
	}
	if r.PlanID != nil {
		id := r.PlanID.String()
		resp.PlanID = &id
	}
	if r.DesiredAt != nil {
		at := r.DesiredAt.Format(time.RFC3339)
		resp.DesiredAt = &at
	}
	return resp
}

// invoicePDFURL is the public download path served by the files route.
func invoicePDFURL(inv *model.Invoice) string {
	return "/api/factures/" + inv.ID.String() + "/pdf"
}
