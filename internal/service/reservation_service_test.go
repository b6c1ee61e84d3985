package service_test

import (
	"context"
	"testing"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	svc         service.ReservationService
	repo        *stubReservationRepo
	payments    *stubPaymentRepo
	plans       *stubPlanRepo
	invoices    *stubInvoiceRepo
	users       *stubUserRepo
	memberships *stubMembershipRepo
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		repo:        newStubReservationRepo(),
		payments:    newStubPaymentRepo(),
		plans:       newStubPlanRepo(),
		invoices:    newStubInvoiceRepo(),
		users:       newStubUserRepo(),
		memberships: newStubMembershipRepo(),
	}
	f.svc = service.NewReservationService(f.repo, f.payments, f.plans, f.invoices, f.users, f.memberships, nil)
	return f
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateReservationDefaultsAmountToPlanPrice(t *testing.T) {
	f := newReservationFixture()
	client := f.users.add(&model.User{Email: "a@b.c", FirstName: "Ama", LastName: "Koffi", Role: "CLIENT", Active: true})
	plan := f.plans.add(&model.Plan{Name: "Gold", Price: dec("25000"), DurationDays: 30, Active: true})

	pid := plan.ID.String()
	resp, err := f.svc.Create(context.Background(), &client.ID, dto.CreateReservationRequest{
		Kind:   "PLAN",
		PlanID: &pid,
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "Ama Koffi", resp.ClientName)
	assert.True(t, resp.Amount.Equal(dec("25000")))
	require.NotNil(t, resp.PlanID)
	assert.Equal(t, pid, *resp.PlanID)
}

func TestCreateReservationRejectsInactivePlan(t *testing.T) {
	f := newReservationFixture()
	plan := f.plans.add(&model.Plan{Name: "Retired", Price: dec("10000"), DurationDays: 30, Active: false})

	pid := plan.ID.String()
	_, err := f.svc.Create(context.Background(), nil, dto.CreateReservationRequest{Kind: "PLAN", PlanID: &pid})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestValidateAccumulatesPartialPaymentsUntilConfirmed(t *testing.T) {
	f := newReservationFixture()
	plan := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})
	res := f.repo.add(&model.Reservation{
		Kind:   "PLAN",
		PlanID: &plan.ID,
		Amount: dec("30000"),
		Status: "PENDING",
	})

	// First instalment: reservation stays pending with the remainder reported.
	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("10000")})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	require.NotNil(t, resp.Remaining)
	assert.True(t, resp.Remaining.Equal(dec("20000")))
	assert.Nil(t, resp.InvoiceURL)
	assert.Equal(t, "PENDING", f.repo.reservations[res.ID].Status)

	// Second instalment completes the reference price and confirms.
	resp, err = f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("20000")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.TotalPaid.Equal(dec("30000")))
	assert.Nil(t, resp.Remaining)
	require.NotNil(t, resp.InvoiceURL)
	assert.Equal(t, "CONFIRMED", f.repo.reservations[res.ID].Status)
	assert.Equal(t, 1, f.invoices.created)

	// Each instalment is its own PAID row attached to the reservation.
	total, err := f.payments.SumPaidByReservation(nil, res.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("30000")))
}

func TestValidateRejectsOverpayment(t *testing.T) {
	f := newReservationFixture()
	plan := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})
	res := f.repo.add(&model.Reservation{Kind: "PLAN", PlanID: &plan.ID, Amount: dec("30000"), Status: "PENDING"})

	_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("20000")})
	require.NoError(t, err)

	_, err = f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("15000")})
	assert.ErrorIs(t, err, service.ErrStateConflict)
	// The rejected payment must not have been recorded.
	total, _ := f.payments.SumPaidByReservation(nil, res.ID)
	assert.True(t, total.Equal(dec("20000")))
}

func TestValidateRejectsCancelledAndDone(t *testing.T) {
	f := newReservationFixture()
	for _, status := range []string{"CANCELLED", "DONE"} {
		res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("2000"), Status: status})
		_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("2000")})
		assert.ErrorIs(t, err, service.ErrStateConflict, "status %s", status)
	}
}

func TestValidateRejectsAlreadyConfirmed(t *testing.T) {
	f := newReservationFixture()
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("2000"), Status: "CONFIRMED"})

	_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("2000")})
	assert.ErrorIs(t, err, service.ErrStateConflict)
}

func TestValidateSessionSettlesOnEnteredAmount(t *testing.T) {
	f := newReservationFixture()
	// The amount quoted at booking time is only an estimate; the cashier's
	// entry is the actual price of the visit.
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("5000"), Hours: 2, Status: "PENDING"})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("3000")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.TotalPaid.Equal(dec("3000")))
	assert.True(t, resp.ReferencePrice.Equal(dec("3000")))
	assert.Nil(t, resp.Remaining)
	require.NotNil(t, resp.InvoiceURL)

	stored := f.repo.reservations[res.ID]
	assert.Equal(t, "CONFIRMED", stored.Status)
	assert.True(t, stored.Amount.Equal(dec("3000")))
	assert.True(t, stored.AmountPaid.Equal(dec("3000")))
}

func TestValidateSessionAcceptsAmountAboveEstimate(t *testing.T) {
	f := newReservationFixture()
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("5000"), Status: "PENDING"})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("6000")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.TotalPaid.Equal(dec("6000")))
	assert.True(t, f.repo.reservations[res.ID].Amount.Equal(dec("6000")))
}

func TestValidatePlanSettlementOpensMembership(t *testing.T) {
	f := newReservationFixture()
	client := f.users.add(&model.User{Email: "a@b.c", FirstName: "Ama", LastName: "Koffi", Role: "CLIENT", Active: true})
	plan := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})
	res := f.repo.add(&model.Reservation{
		Kind:     "PLAN",
		ClientID: &client.ID,
		PlanID:   &plan.ID,
		Amount:   dec("30000"),
		Status:   "PENDING",
	})

	// A partial payment must not open the subscription.
	_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("10000")})
	require.NoError(t, err)
	assert.Empty(t, f.memberships.memberships)

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("20000")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)

	require.Len(t, f.memberships.memberships, 1)
	for _, m := range f.memberships.memberships {
		assert.Equal(t, client.ID, m.ClientID)
		assert.Equal(t, plan.ID, m.PlanID)
		assert.True(t, m.Active)
		require.NotNil(t, m.PaymentID)
		assert.Equal(t, 30, int(m.EndDate.Sub(m.StartDate).Hours()/24))
	}
}

func TestValidateResolvesPlanFromDescription(t *testing.T) {
	f := newReservationFixture()
	f.plans.add(&model.Plan{Name: "Silver", Price: dec("15000"), DurationDays: 30, Active: true})
	gold := f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})

	// No explicit plan reference; the description names the plan. A partial
	// payment proves the name match set the reference, not the price fallback.
	res := f.repo.add(&model.Reservation{
		Kind:        "PLAN",
		Description: "Abonnement Gold",
		Status:      "PENDING",
	})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("10000")})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, resp.ReferencePrice.Equal(dec("30000")))
	require.NotNil(t, resp.Remaining)
	assert.True(t, resp.Remaining.Equal(dec("20000")))

	// The payment carries the resolved plan so reporting attributes revenue.
	var found bool
	for _, p := range f.payments.payments {
		if p.PlanID != nil && *p.PlanID == gold.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateResolvesPlanByPriceProximity(t *testing.T) {
	f := newReservationFixture()
	f.plans.add(&model.Plan{Name: "Silver", Price: dec("15000"), DurationDays: 30, Active: true})
	f.plans.add(&model.Plan{Name: "Gold", Price: dec("30000"), DurationDays: 30, Active: true})

	// Amount within 10% of Gold's price; no name, no explicit reference.
	res := f.repo.add(&model.Reservation{Kind: "PLAN", Amount: dec("29000"), Status: "PENDING"})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("29000")})
	require.NoError(t, err)
	// Reference snaps to the matched plan's price, leaving a remainder.
	assert.True(t, resp.ReferencePrice.Equal(dec("30000")))
	assert.Equal(t, "PENDING", resp.Status)
	require.NotNil(t, resp.Remaining)
	assert.True(t, resp.Remaining.Equal(dec("1000")))
}

func TestValidatePriceProximityTieBreaksOnCreationOrder(t *testing.T) {
	f := newReservationFixture()
	first := f.plans.add(&model.Plan{Name: "Duo A", Price: dec("20000"), DurationDays: 30, Active: true})
	f.plans.add(&model.Plan{Name: "Duo B", Price: dec("20000"), DurationDays: 30, Active: true})

	res := f.repo.add(&model.Reservation{Kind: "PLAN", Amount: dec("20000"), Status: "PENDING"})

	_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("20000")})
	require.NoError(t, err)

	for _, p := range f.payments.payments {
		require.NotNil(t, p.PlanID)
		assert.Equal(t, first.ID, *p.PlanID)
	}
}

func TestValidateFallsBackToStoredAmount(t *testing.T) {
	f := newReservationFixture()
	// A session reservation never matches a plan; its own amount is the
	// reference.
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("2000"), Hours: 2, Status: "PENDING"})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("2000")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.ReferencePrice.Equal(dec("2000")))
}

func TestValidateSettlesImmediatelyWhenNothingIsKnown(t *testing.T) {
	f := newReservationFixture()
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Status: "PENDING"})

	resp, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: dec("1500")})
	require.NoError(t, err)
	// The payment itself becomes the reference and settles in one shot.
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.ReferencePrice.Equal(dec("1500")))
}

func TestValidateRejectsNonPositiveAmount(t *testing.T) {
	f := newReservationFixture()
	res := f.repo.add(&model.Reservation{Kind: "SESSION", Amount: dec("2000"), Status: "PENDING"})

	_, err := f.svc.Validate(context.Background(), res.ID, dto.ValidateReservationRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCancelOwnershipAndState(t *testing.T) {
	f := newReservationFixture()
	owner := uuid.New()
	stranger := uuid.New()
	res := f.repo.add(&model.Reservation{Kind: "SESSION", ClientID: &owner, Status: "PENDING"})

	err := f.svc.Cancel(context.Background(), res.ID, &stranger)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	err = f.svc.Cancel(context.Background(), res.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", f.repo.reservations[res.ID].Status)

	// A cancelled reservation cannot be cancelled again.
	err = f.svc.Cancel(context.Background(), res.ID, &owner)
	assert.ErrorIs(t, err, service.ErrStateConflict)
}

func TestMarkDoneRequiresConfirmed(t *testing.T) {
	f := newReservationFixture()
	pending := f.repo.add(&model.Reservation{Kind: "SESSION", Status: "PENDING"})
	confirmed := f.repo.add(&model.Reservation{Kind: "SESSION", Status: "CONFIRMED"})

	assert.ErrorIs(t, f.svc.MarkDone(context.Background(), pending.ID), service.ErrStateConflict)
	require.NoError(t, f.svc.MarkDone(context.Background(), confirmed.ID))
	assert.Equal(t, "DONE", f.repo.reservations[confirmed.ID].Status)
}
