package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubUserRepo is an in-memory UserRepository for testing.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	r.add(u)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.User, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubUserRepo) AdjustBalanceTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Balance = u.Balance.Add(delta)
	return nil
}

func (r *stubUserRepo) CountActiveClients(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == "CLIENT" && u.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubPlanRepo holds plans in insertion order so the reconciliation tie-break
// is observable.
type stubPlanRepo struct {
	plans []*model.Plan
}

func newStubPlanRepo() *stubPlanRepo { return &stubPlanRepo{} }

func (r *stubPlanRepo) add(p *model.Plan) *model.Plan {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.plans = append(r.plans, p)
	return p
}

func (r *stubPlanRepo) Create(_ context.Context, p *model.Plan) error {
	r.add(p)
	return nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPlanRepo) List(_ context.Context, activeOnly bool) ([]model.Plan, error) {
	out := make([]model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPlanRepo) Update(_ context.Context, p *model.Plan) error { return nil }

func (r *stubPlanRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func (r *stubPlanRepo) ListActiveOrdered(_ context.Context) ([]model.Plan, error) {
	out := make([]model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) DB() *gorm.DB { return nil }

var _ repository.PlanRepository = (*stubPlanRepo)(nil)

// stubReservationRepo is an in-memory ReservationRepository.
type stubReservationRepo struct {
	reservations map[uuid.UUID]*model.Reservation
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{reservations: make(map[uuid.UUID]*model.Reservation)}
}

func (r *stubReservationRepo) add(res *model.Reservation) *model.Reservation {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	r.reservations[res.ID] = res
	return res
}

func (r *stubReservationRepo) Create(_ context.Context, res *model.Reservation) error {
	r.add(res)
	return nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return res, nil
}

func (r *stubReservationRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Reservation, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubReservationRepo) List(_ context.Context, _ repository.ReservationFilter) ([]model.Reservation, int64, error) {
	out := make([]model.Reservation, 0, len(r.reservations))
	for _, res := range r.reservations {
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (r *stubReservationRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range r.reservations {
		if res.ClientID != nil && *res.ClientID == clientID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) Update(_ context.Context, res *model.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}

func (r *stubReservationRepo) UpdateTx(_ *gorm.DB, res *model.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}

func (r *stubReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.reservations, id)
	return nil
}

func (r *stubReservationRepo) DB() *gorm.DB { return nil }

var _ repository.ReservationRepository = (*stubReservationRepo)(nil)

// stubPaymentRepo is an in-memory PaymentRepository.
type stubPaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (r *stubPaymentRepo) add(p *model.Payment) *model.Payment {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments[p.ID] = p
	return p
}

func (r *stubPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	r.add(p)
	return nil
}

func (r *stubPaymentRepo) CreateTx(_ *gorm.DB, p *model.Payment) error {
	r.add(p)
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPaymentRepo) FindByTransactionID(_ context.Context, trxID string) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.TransactionID != nil && *p.TransactionID == trxID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) List(_ context.Context, _ repository.PaymentFilter) ([]model.Payment, int64, error) {
	out := make([]model.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPaymentRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.ClientID != nil && *p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) Update(_ context.Context, p *model.Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *stubPaymentRepo) MarkPaidIfPending(_ *gorm.DB, id uuid.UUID, paidAt time.Time) (bool, error) {
	p, ok := r.payments[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if p.Status != "PENDING" {
		return false, nil
	}
	p.Status = "PAID"
	p.PaidAt = &paidAt
	return true, nil
}

func (r *stubPaymentRepo) SumPaidByReservation(_ *gorm.DB, reservationID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.ReservationID != nil && *p.ReservationID == reservationID && p.Status == "PAID" {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

// stubInvoiceRepo is an in-memory InvoiceRepository keyed by payment id, which
// mirrors the unique index the real table enforces.
type stubInvoiceRepo struct {
	byPayment map[uuid.UUID]*model.Invoice
	created   int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{byPayment: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	if _, exists := r.byPayment[inv.PaymentID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.byPayment[inv.PaymentID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	for _, inv := range r.byPayment {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) FindByPaymentID(_ context.Context, paymentID uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.byPayment[paymentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) GetOrCreate(_ context.Context, paymentID uuid.UUID, kind string) (*model.Invoice, bool, error) {
	if inv, ok := r.byPayment[paymentID]; ok {
		return inv, false, nil
	}
	inv := &model.Invoice{
		ID:        uuid.New(),
		PaymentID: paymentID,
		Reference: uuid.New(),
		Kind:      kind,
	}
	r.byPayment[paymentID] = inv
	r.created++
	return inv, true, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _, _ int) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.byPayment))
	for _, inv := range r.byPayment {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) ListByClient(_ context.Context, _ uuid.UUID) ([]model.Invoice, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	r.byPayment[inv.PaymentID] = inv
	return nil
}

func (r *stubInvoiceRepo) ListPendingRetries(_ context.Context, _ time.Time, _ int) ([]model.Invoice, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) ListPaidWithoutInvoice(_ context.Context, _ int) ([]model.Payment, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// stubGateway scripts InitTransaction / CheckTransaction outcomes.
type stubGateway struct {
	initErr     error
	checkStatus string
	checkErr    error
	initCalls   int
	checkCalls  int
}

func (g *stubGateway) InitTransaction(_ context.Context, trxID, _ string, _ decimal.Decimal) (*infra.InitResult, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &infra.InitResult{PaymentURL: "https://checkout.test/" + trxID, PaymentToken: "tok-" + trxID}, nil
}

func (g *stubGateway) CheckTransaction(_ context.Context, _ string) (*infra.TransactionStatus, error) {
	g.checkCalls++
	if g.checkErr != nil {
		return nil, g.checkErr
	}
	return &infra.TransactionStatus{Status: g.checkStatus}, nil
}

var _ service.PaymentGateway = (*stubGateway)(nil)
