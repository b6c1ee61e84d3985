package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// rechargePrefix marks gateway transactions that credit the client wallet
// instead of paying for a plan or session.
const rechargePrefix = "recharge-"

// PaymentGateway abstracts the CinetPay client so unit tests can stub the
// network.
type PaymentGateway interface {
	InitTransaction(ctx context.Context, trxID, description string, amount decimal.Decimal) (*infra.InitResult, error)
	CheckTransaction(ctx context.Context, trxID string) (*infra.TransactionStatus, error)
}

type PaymentService interface {
	InitPayment(ctx context.Context, clientID uuid.UUID, req dto.InitPaymentRequest) (*dto.InitPaymentResponse, error)
	Recharge(ctx context.Context, clientID uuid.UUID, req dto.RechargeRequest) (*dto.InitPaymentResponse, error)
	DirectPayment(ctx context.Context, req dto.DirectPaymentRequest) (*dto.PaymentResponse, error)
	ValidatePending(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	HandleWebhook(ctx context.Context, trxID string) error
	Get(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	List(ctx context.Context, filter dto.PaymentFilter) (*dto.PaymentListResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.PaymentResponse, error)
}

type paymentService struct {
	repo        repository.PaymentRepository
	userRepo    repository.UserRepository
	invoiceRepo repository.InvoiceRepository
	gateway     PaymentGateway
	cb          *infra.CircuitBreaker
	dispatcher  *worker.Dispatcher
}

func NewPaymentService(
	repo repository.PaymentRepository,
	userRepo repository.UserRepository,
	invoiceRepo repository.InvoiceRepository,
	gateway PaymentGateway,
	cb *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
) PaymentService {
	return &paymentService{
		repo:        repo,
		userRepo:    userRepo,
		invoiceRepo: invoiceRepo,
		gateway:     gateway,
		cb:          cb,
		dispatcher:  dispatcher,
	}
}

// InitPayment starts a client payment. With use_balance the wallet is debited
// immediately inside one transaction; otherwise a CinetPay checkout is
// initialized and the payment stays PENDING until the webhook settles it.
func (s *paymentService) InitPayment(ctx context.Context, clientID uuid.UUID, req dto.InitPaymentRequest) (*dto.InitPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	planID, sessionID, err := parseTargets(req.PlanID, req.SessionID)
	if err != nil {
		return nil, err
	}

	if req.UseBalance {
		return s.payFromBalance(ctx, clientID, req.Amount, planID, sessionID)
	}

	trxID := "gym-" + uuid.NewString()
	payment := &model.Payment{
		ClientID:      &clientID,
		PlanID:        planID,
		SessionID:     sessionID,
		Amount:        req.Amount,
		Status:        "PENDING",
		Method:        "CINETPAY",
		TransactionID: &trxID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	initRes, err := s.callGatewayInit(ctx, trxID, "Paiement GYMZONE", req.Amount)
	if err != nil {
		payment.Status = "FAILED"
		_ = s.repo.Update(ctx, payment)
		return nil, fmt.Errorf("payment gateway unavailable: %w", err)
	}

	return &dto.InitPaymentResponse{
		PaymentID:     payment.ID.String(),
		TransactionID: &trxID,
		Status:        "PENDING",
		Amount:        req.Amount,
		PaymentURL:    &initRes.PaymentURL,
	}, nil
}

func (s *paymentService) payFromBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal, planID, sessionID *uuid.UUID) (*dto.InitPaymentResponse, error) {
	var (
		payment    model.Payment
		newBalance decimal.Decimal
		email      *string
	)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the wallet row: two concurrent balance payments must not both
		// pass the funds check.
		u, err := s.userRepo.FindByIDForUpdate(tx, clientID)
		if err != nil {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		if u.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, required %s", ErrInsufficientFunds, u.Balance.StringFixed(2), amount.StringFixed(2))
		}
		// Compute before the adjust: u may alias the stored row.
		newBalance = u.Balance.Sub(amount)
		if err := s.userRepo.AdjustBalanceTx(tx, u.ID, amount.Neg()); err != nil {
			return err
		}
		email = clientEmail(u)

		now := time.Now()
		payment = model.Payment{
			ClientID:  &clientID,
			PlanID:    planID,
			SessionID: sessionID,
			Amount:    amount,
			Status:    "PAID",
			Method:    "BALANCE",
			PaidAt:    &now,
		}
		return s.repo.CreateTx(tx, &payment)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.issueInvoice(ctx, &payment, email)

	return &dto.InitPaymentResponse{
		PaymentID:  payment.ID.String(),
		Status:     "PAID",
		Amount:     amount,
		NewBalance: &newBalance,
	}, nil
}

// Recharge starts a wallet top-up through the gateway. The credit happens on
// webhook success, keyed by the recharge- transaction prefix.
func (s *paymentService) Recharge(ctx context.Context, clientID uuid.UUID, req dto.RechargeRequest) (*dto.InitPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	trxID := rechargePrefix + uuid.NewString()
	payment := &model.Payment{
		ClientID:      &clientID,
		Amount:        req.Amount,
		Status:        "PENDING",
		Method:        "CINETPAY",
		TransactionID: &trxID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	initRes, err := s.callGatewayInit(ctx, trxID, "Rechargement de compte GYMZONE", req.Amount)
	if err != nil {
		payment.Status = "FAILED"
		_ = s.repo.Update(ctx, payment)
		return nil, fmt.Errorf("payment gateway unavailable: %w", err)
	}

	return &dto.InitPaymentResponse{
		PaymentID:     payment.ID.String(),
		TransactionID: &trxID,
		Status:        "PENDING",
		Amount:        req.Amount,
		PaymentURL:    &initRes.PaymentURL,
	}, nil
}

// DirectPayment records a staff-entered cash or card payment as PAID.
func (s *paymentService) DirectPayment(ctx context.Context, req dto.DirectPaymentRequest) (*dto.PaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client_id", ErrValidation)
	}
	client, err := s.userRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client", ErrNotFound)
	}

	planID, sessionID, err := parseTargets(req.PlanID, req.SessionID)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = "CASH"
	}

	now := time.Now()
	payment := &model.Payment{
		ClientID:  &clientID,
		PlanID:    planID,
		SessionID: sessionID,
		Amount:    req.Amount,
		Status:    "PAID",
		Method:    method,
		PaidAt:    &now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.issueInvoice(ctx, payment, clientEmail(client))

	resp := paymentToResponse(payment)
	return &resp, nil
}

// ValidatePending lets staff confirm a PENDING payment by hand, for money
// that arrived outside the gateway. The transition reuses the conditional
// update so a concurrent webhook settlement cannot double-confirm.
func (s *paymentService) ValidatePending(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: payment", ErrNotFound)
	}
	if payment.Status != "PENDING" {
		return nil, fmt.Errorf("%w: payment is %s", ErrStateConflict, payment.Status)
	}

	now := time.Now()
	var won bool
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		won, err = s.repo.MarkPaidIfPending(tx, payment.ID, now)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	if !won {
		return nil, fmt.Errorf("%w: payment already settled", ErrStateConflict)
	}
	payment.Status = "PAID"
	payment.PaidAt = &now

	var email *string
	if payment.ClientID != nil {
		if client, err := s.userRepo.FindByID(ctx, *payment.ClientID); err == nil {
			email = clientEmail(client)
		}
	}
	s.issueInvoice(ctx, payment, email)

	resp := paymentToResponse(payment)
	return &resp, nil
}

// HandleWebhook settles a gateway transaction. The notification body is only
// a wake-up signal: the authoritative state comes from a check call, and the
// PENDING-to-PAID transition is a conditional update so redelivered webhooks
// are no-ops.
func (s *paymentService) HandleWebhook(ctx context.Context, trxID string) error {
	payment, err := s.repo.FindByTransactionID(ctx, trxID)
	if err != nil {
		return fmt.Errorf("%w: transaction", ErrNotFound)
	}
	if payment.Status != "PENDING" {
		// Already settled by an earlier delivery.
		return nil
	}

	var status *infra.TransactionStatus
	gwErr := s.callGateway(func() error {
		st, err := s.gateway.CheckTransaction(ctx, trxID)
		if err != nil {
			return err
		}
		status = st
		return nil
	})
	if gwErr != nil {
		return fmt.Errorf("gateway check failed: %w", gwErr)
	}

	if status.Status == "ACCEPTED" {
		return s.settleGatewayPayment(ctx, payment, trxID)
	}
	// REFUSED and every unknown result code are terminal: the gateway only
	// notifies once the customer flow ended.
	log.Info().Str("transaction_id", trxID).Str("gateway_status", status.Status).Msg("webhook: payment failed")
	payment.Status = "FAILED"
	return s.repo.Update(ctx, payment)
}

func (s *paymentService) settleGatewayPayment(ctx context.Context, payment *model.Payment, trxID string) error {
	var won bool
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		won, err = s.repo.MarkPaidIfPending(tx, payment.ID, time.Now())
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		// Wallet credit for top-ups, atomically with the status flip.
		if strings.HasPrefix(trxID, rechargePrefix) && payment.ClientID != nil {
			if err := s.userRepo.AdjustBalanceTx(tx, *payment.ClientID, payment.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	if !won {
		log.Info().Str("transaction_id", trxID).Msg("webhook: transaction already settled, skipping")
		return nil
	}

	log.Info().Str("transaction_id", trxID).Str("payment_id", payment.ID.String()).Msg("webhook: payment settled")

	if !strings.HasPrefix(trxID, rechargePrefix) {
		var email *string
		if payment.ClientID != nil {
			if client, err := s.userRepo.FindByID(ctx, *payment.ClientID); err == nil {
				email = clientEmail(client)
			}
		}
		s.issueInvoice(ctx, payment, email)
	}
	return nil
}

// issueInvoice creates the invoice row and queues the render. Failures are
// logged and swallowed: the payment is already committed.
func (s *paymentService) issueInvoice(ctx context.Context, payment *model.Payment, email *string) {
	if s.invoiceRepo == nil {
		return
	}
	kind := "SESSION"
	if payment.PlanID != nil {
		kind = "PLAN"
	}
	inv, _, err := s.invoiceRepo.GetOrCreate(ctx, payment.ID, kind)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID.String()).Msg("payment: invoice creation failed")
		return
	}
	job := worker.InvoiceJobPayload{InvoiceID: inv.ID.String(), ClientEmail: email}
	if err := s.dispatcher.EnqueueInvoice(ctx, job); err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("payment: enqueue invoice render failed")
	}
}

func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: payment", ErrNotFound)
	}
	resp := paymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) List(ctx context.Context, filter dto.PaymentFilter) (*dto.PaymentListResponse, error) {
	repoFilter := repository.PaymentFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.Client != "" {
		cid, err := uuid.Parse(filter.Client)
		if err != nil {
			return nil, fmt.Errorf("%w: client", ErrValidation)
		}
		repoFilter.ClientID = &cid
	}

	items, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PaymentListResponse{
		Data:  make([]dto.PaymentResponse, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Data[i] = paymentToResponse(&items[i])
	}
	return resp, nil
}

func (s *paymentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.PaymentResponse, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentResponse, len(items))
	for i := range items {
		resp[i] = paymentToResponse(&items[i])
	}
	return resp, nil
}

// callGatewayInit wraps the init call in the circuit breaker when present.
func (s *paymentService) callGatewayInit(ctx context.Context, trxID, description string, amount decimal.Decimal) (*infra.InitResult, error) {
	var res *infra.InitResult
	err := s.callGateway(func() error {
		r, err := s.gateway.InitTransaction(ctx, trxID, description, amount)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	return res, err
}

func (s *paymentService) callGateway(fn func() error) error {
	if s.cb == nil {
		return fn()
	}
	return s.cb.Execute(fn)
}

func parseTargets(planID, sessionID *string) (*uuid.UUID, *uuid.UUID, error) {
	var pid, sid *uuid.UUID
	if planID != nil && *planID != "" {
		id, err := uuid.Parse(*planID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: plan id", ErrValidation)
		}
		pid = &id
	}
	if sessionID != nil && *sessionID != "" {
		id, err := uuid.Parse(*sessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: session id", ErrValidation)
		}
		sid = &id
	}
	return pid, sid, nil
}

func clientEmail(u *model.User) *string {
	if u == nil || u.Email == "" {
		return nil
	}
	email := u.Email
	return &email
}

func paymentToResponse(p *model.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:            p.ID.String(),
		Amount:        p.Amount,
		Status:        p.Status,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.ClientID != nil {
		id := p.ClientID.String()
		resp.ClientID = &id
	}
	if p.PlanID != nil {
		id := p.PlanID.String()
		resp.PlanID = &id
	}
	if p.SessionID != nil {
		id := p.SessionID.String()
		resp.SessionID = &id
	}
	if p.ReservationID != nil {
		id := p.ReservationID.String()
		resp.ReservationID = &id
	}
	if p.PaidAt != nil {
		at := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &at
	}
	return resp
}
