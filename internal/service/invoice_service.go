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

type InvoiceService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.InvoiceResponse, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.InvoiceResponse, error)
	// PDFPath returns the on-disk path for download, or ErrNotFound while the
	// render is still pending.
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type invoiceService struct {
	repo repository.InvoiceRepository
}

func NewInvoiceService(repo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo}
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice", ErrNotFound)
	}
	resp := invoiceToResponse(inv)
	return &resp, nil
}

func (s *invoiceService) List(ctx context.Context, page, limit int) ([]dto.InvoiceResponse, int64, error) {
	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.InvoiceResponse, len(items))
	for i := range items {
		resp[i] = invoiceToResponse(&items[i])
	}
	return resp, total, nil
}

func (s *invoiceService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.InvoiceResponse, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InvoiceResponse, len(items))
	for i := range items {
		resp[i] = invoiceToResponse(&items[i])
	}
	return resp, nil
}

func (s *invoiceService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: invoice", ErrNotFound)
	}
	if inv.PDFPath == nil {
		return "", fmt.Errorf("%w: PDF not rendered yet", ErrNotFound)
	}
	return *inv.PDFPath, nil
}

func invoiceToResponse(inv *model.Invoice) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:        inv.ID.String(),
		PaymentID: inv.PaymentID.String(),
		Reference: inv.Reference.String(),
		Kind:      inv.Kind,
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.PDFPath != nil {
		url := invoicePDFURL(inv)
		resp.PDFUrl = &url
	}
	return resp
}
