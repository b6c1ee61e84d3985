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

type SessionService interface {
	Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	List(ctx context.Context, from, to *time.Time) ([]dto.SessionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DirectSale registers a walk-in session together with its PAID payment
	// and ticket in one call.
	DirectSale(ctx context.Context, req dto.DirectSessionRequest) (*dto.DirectSessionResponse, error)
}

type sessionService struct {
	repo        repository.SessionRepository
	staffRepo   repository.StaffRepository
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
	dispatcher  *worker.Dispatcher
}

func NewSessionService(
	repo repository.SessionRepository,
	staffRepo repository.StaffRepository,
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	dispatcher *worker.Dispatcher,
) SessionService {
	return &sessionService{
		repo:        repo,
		staffRepo:   staffRepo,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

func (s *sessionService) Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.buildSession(ctx, req.ClientFirstName, req.ClientLastName, req.Date, req.Hours, req.CoachID)
	if err != nil {
		return nil, err
	}
	session.AmountPaid = req.AmountPaid

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) List(ctx context.Context, from, to *time.Time) ([]dto.SessionResponse, error) {
	items, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SessionResponse, len(items))
	for i := range items {
		resp[i] = sessionToResponse(&items[i])
	}
	return resp, nil
}

func (s *sessionService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if req.ClientFirstName != "" {
		session.ClientFirstName = req.ClientFirstName
	}
	if req.ClientLastName != "" {
		session.ClientLastName = req.ClientLastName
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date", ErrValidation)
		}
		session.Date = d
	}
	if req.Hours != nil {
		session.Hours = *req.Hours
	}
	if req.AmountPaid != nil {
		session.AmountPaid = *req.AmountPaid
	}
	if req.CoachID != nil {
		if *req.CoachID == "" {
			session.CoachID = nil
			session.Coach = nil
		} else {
			coachID, err := s.resolveCoach(ctx, *req.CoachID)
			if err != nil {
				return nil, err
			}
			session.CoachID = coachID
		}
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: session", ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

func (s *sessionService) DirectSale(ctx context.Context, req dto.DirectSessionRequest) (*dto.DirectSessionResponse, error) {
	if !req.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	session, err := s.buildSession(ctx, req.ClientFirstName, req.ClientLastName, req.Date, req.Hours, req.CoachID)
	if err != nil {
		return nil, err
	}
	session.AmountPaid = req.AmountPaid

	var clientID *uuid.UUID
	var client *model.User
	if req.ClientID != nil && *req.ClientID != "" {
		cid, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("%w: client_id", ErrValidation)
		}
		if client, err = s.userRepo.FindByID(ctx, cid); err != nil {
			return nil, fmt.Errorf("%w: client", ErrNotFound)
		}
		clientID = &cid
	}

	method := req.Method
	if method == "" {
		method = "CASH"
	}

	var payment model.Payment
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, session); err != nil {
			return err
		}
		now := time.Now()
		sid := session.ID
		payment = model.Payment{
			ClientID:  clientID,
			SessionID: &sid,
			Amount:    req.AmountPaid,
			Status:    "PAID",
			Method:    method,
			PaidAt:    &now,
		}
		return s.paymentRepo.CreateTx(tx, &payment)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.DirectSessionResponse{
		SessionResponse: sessionToResponse(session),
		PaymentID:       payment.ID.String(),
	}

	// Ticket failure never rolls back the sale.
	if inv, _, err := s.invoiceRepo.GetOrCreate(ctx, payment.ID, "SESSION"); err == nil {
		ticketID := inv.ID.String()
		url := invoicePDFURL(inv)
		resp.TicketID = &ticketID
		resp.TicketURL = &url
		job := worker.InvoiceJobPayload{InvoiceID: ticketID, ClientEmail: clientEmail(client)}
		if err := s.dispatcher.EnqueueInvoice(ctx, job); err != nil {
			log.Warn().Err(err).Str("invoice_id", ticketID).Msg("session: enqueue ticket render failed")
		}
	} else {
		log.Error().Err(err).Str("payment_id", payment.ID.String()).Msg("session: ticket creation failed")
	}

	return resp, nil
}

func (s *sessionService) buildSession(ctx context.Context, firstName, lastName, date string, hours int, coachID *string) (*model.Session, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: date", ErrValidation)
	}
	if hours <= 0 {
		hours = 1
	}
	session := &model.Session{
		ClientFirstName: firstName,
		ClientLastName:  lastName,
		Date:            d,
		Hours:           hours,
	}
	if coachID != nil && *coachID != "" {
		cid, err := s.resolveCoach(ctx, *coachID)
		if err != nil {
			return nil, err
		}
		session.CoachID = cid
	}
	return session, nil
}

func (s *sessionService) resolveCoach(ctx context.Context, raw string) (*uuid.UUID, error) {
	cid, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: coach_id", ErrValidation)
	}
	staff, err := s.staffRepo.FindByID(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("%w: coach", ErrNotFound)
	}
	if staff.Category != "COACH" {
		return nil, fmt.Errorf("%w: staff member is not a coach", ErrValidation)
	}
	return &cid, nil
}

func sessionToResponse(s *model.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:              s.ID.String(),
		ClientFirstName: s.ClientFirstName,
		ClientLastName:  s.ClientLastName,
		Date:            s.Date.Format("2006-01-02"),
		Hours:           s.Hours,
		AmountPaid:      s.AmountPaid,
	}
	if s.CoachID != nil {
		id := s.CoachID.String()
		resp.CoachID = &id
	}
	if s.Coach != nil {
		resp.CoachName = s.Coach.FirstName + " " + s.Coach.LastName
	}
	return resp
}
