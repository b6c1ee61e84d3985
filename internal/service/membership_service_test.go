package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubMembershipRepo is an in-memory MembershipRepository.
type stubMembershipRepo struct {
	memberships map[uuid.UUID]*model.Membership
}

func newStubMembershipRepo() *stubMembershipRepo {
	return &stubMembershipRepo{memberships: make(map[uuid.UUID]*model.Membership)}
}

func (r *stubMembershipRepo) save(m *model.Membership) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.memberships[m.ID] = m
}

func (r *stubMembershipRepo) Create(_ context.Context, m *model.Membership) error {
	r.save(m)
	return nil
}

func (r *stubMembershipRepo) CreateTx(_ *gorm.DB, m *model.Membership) error {
	r.save(m)
	return nil
}

func (r *stubMembershipRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Membership, error) {
	m, ok := r.memberships[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMembershipRepo) List(_ context.Context, activeOnly bool) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range r.memberships {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMembershipRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range r.memberships {
		if m.ClientID == clientID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) ListByPlan(_ context.Context, planID uuid.UUID) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range r.memberships {
		if m.PlanID == planID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) Update(_ context.Context, m *model.Membership) error {
	r.memberships[m.ID] = m
	return nil
}

func (r *stubMembershipRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, m := range r.memberships {
		if m.Active && m.EndDate.Before(now) {
			m.Active = false
			n++
		}
	}
	return n, nil
}

func (r *stubMembershipRepo) DB() *gorm.DB { return nil }

var _ repository.MembershipRepository = (*stubMembershipRepo)(nil)

type membershipFixture struct {
	svc      service.MembershipService
	repo     *stubMembershipRepo
	plans    *stubPlanRepo
	users    *stubUserRepo
	payments *stubPaymentRepo
	invoices *stubInvoiceRepo
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		repo:     newStubMembershipRepo(),
		plans:    newStubPlanRepo(),
		users:    newStubUserRepo(),
		payments: newStubPaymentRepo(),
		invoices: newStubInvoiceRepo(),
	}
	f.svc = service.NewMembershipService(f.repo, f.plans, f.users, f.payments, f.invoices, nil)
	return f
}

func TestMembershipDirectSale(t *testing.T) {
	f := newMembershipFixture()
	client := f.users.add(&model.User{Email: "ama@x.y", FirstName: "Ama", LastName: "Koffi", Role: "CLIENT", Active: true})
	plan := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})

	resp, err := f.svc.DirectSale(context.Background(), dto.DirectMembershipRequest{
		ClientID:  client.ID.String(),
		PlanID:    plan.ID.String(),
		StartDate: "2026-09-01",
	})
	require.NoError(t, err)

	assert.True(t, resp.Active)
	assert.Equal(t, "2026-09-01", resp.StartDate)
	assert.Equal(t, "2026-10-01", resp.EndDate)
	assert.True(t, resp.PlanPrice.Equal(dec("30000")))
	require.NotNil(t, resp.TicketURL)

	// The payment is PAID at the plan price and the invoice is a PLAN one.
	require.Len(t, f.payments.payments, 1)
	for _, p := range f.payments.payments {
		assert.Equal(t, "PAID", p.Status)
		assert.True(t, p.Amount.Equal(dec("30000")))
	}
	for _, inv := range f.invoices.byPayment {
		assert.Equal(t, "PLAN", inv.Kind)
	}
}

func TestMembershipDirectSaleRejectsInactivePlan(t *testing.T) {
	f := newMembershipFixture()
	client := f.users.add(&model.User{Email: "ama@x.y", Role: "CLIENT", Active: true})
	plan := f.plans.add(&model.Plan{Name: "Retired", Price: dec("10000"), DurationDays: 30, Active: false})

	_, err := f.svc.DirectSale(context.Background(), dto.DirectMembershipRequest{
		ClientID: client.ID.String(),
		PlanID:   plan.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, f.payments.payments)
}

func TestExpireOverdueDeactivatesPastMemberships(t *testing.T) {
	f := newMembershipFixture()
	past := &model.Membership{
		ClientID:  uuid.New(),
		PlanID:    uuid.New(),
		StartDate: time.Now().AddDate(0, -2, 0),
		EndDate:   time.Now().AddDate(0, -1, 0),
		Active:    true,
	}
	current := &model.Membership{
		ClientID:  uuid.New(),
		PlanID:    uuid.New(),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		Active:    true,
	}
	f.repo.save(past)
	f.repo.save(current)

	n, err := f.svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, f.repo.memberships[past.ID].Active)
	assert.True(t, f.repo.memberships[current.ID].Active)
}

func TestListByPlanReturnsSubscribers(t *testing.T) {
	f := newMembershipFixture()
	gold := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})
	silver := f.plans.add(&model.Plan{Name: "Silver", Price: dec("15000"), DurationDays: 30, Active: true})

	f.repo.save(&model.Membership{ClientID: uuid.New(), PlanID: gold.ID, Active: true})
	f.repo.save(&model.Membership{ClientID: uuid.New(), PlanID: gold.ID, Active: false})
	f.repo.save(&model.Membership{ClientID: uuid.New(), PlanID: silver.ID, Active: true})

	// Expired subscriptions are listed too.
	subs, err := f.svc.ListByPlan(context.Background(), gold.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	_, err = f.svc.ListByPlan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
