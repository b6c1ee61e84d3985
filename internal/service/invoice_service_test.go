package service_test

import (
	"context"
	"testing"

	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoicePDFPathPendingRender(t *testing.T) {
	invoices := newStubInvoiceRepo()
	svc := service.NewInvoiceService(invoices)

	inv, created, err := invoices.GetOrCreate(context.Background(), uuid.New(), "PLAN")
	require.NoError(t, err)
	require.True(t, created)

	// No PDF yet: the download endpoint reports not found, the client retries.
	_, err = svc.PDFPath(context.Background(), inv.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	path := "facture_" + inv.Reference.String() + ".pdf"
	inv.PDFPath = &path
	got, err := svc.PDFPath(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Contains(t, got, path)
}

func TestInvoiceGetOrCreateIsIdempotent(t *testing.T) {
	invoices := newStubInvoiceRepo()
	paymentID := uuid.New()

	first, created, err := invoices.GetOrCreate(context.Background(), paymentID, "PLAN")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := invoices.GetOrCreate(context.Background(), paymentID, "PLAN")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestInvoiceResponseExposesPDFURLOnlyWhenRendered(t *testing.T) {
	invoices := newStubInvoiceRepo()
	svc := service.NewInvoiceService(invoices)

	inv, _, err := invoices.GetOrCreate(context.Background(), uuid.New(), "SESSION")
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.PDFUrl)

	path := "ticket_" + inv.Reference.String() + ".pdf"
	inv.PDFPath = &path
	resp, err = svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.PDFUrl)
}
