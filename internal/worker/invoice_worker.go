package worker

// invoice_worker.go renders invoice and ticket PDFs off the request path.
// Settlement endpoints only create the invoice row and enqueue a job here;
// a failed render schedules a retry instead of failing the payment.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/infra"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxInvoiceRetries bounds the render retry sweep before a job lands in the DLQ.
const MaxInvoiceRetries = 5

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	InvoiceID   string  `json:"invoice_id"`
	ClientEmail *string `json:"client_email,omitempty"`
}

type InvoiceWorker struct {
	invoiceRepo    repository.InvoiceRepository
	paymentRepo    repository.PaymentRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewInvoiceWorker(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *InvoiceWorker {
	return &InvoiceWorker{
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the PDF for one invoice and optionally enqueues an email
// with the document attached.
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: invalid invoice_id")
		return
	}

	inv, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: invoice not found")
		return
	}
	if inv.PDFPath != nil {
		// Already rendered; duplicate delivery is a no-op.
		return
	}

	pdfPath, renderErr := w.Render(ctx, inv)
	if renderErr != nil {
		w.scheduleRetry(ctx, inv, renderErr)
		return
	}

	if payload.ClientEmail != nil && *payload.ClientEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.ClientEmail,
			Subject: fmt.Sprintf("GYMZONE — Facture %s", inv.Reference),
			Body:    "Veuillez trouver votre facture en pièce jointe.\nMerci de votre confiance !",
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.ClientEmail).Msg("invoice_worker: failed to enqueue email")
		}
	}
}

// Render generates the PDF for an invoice and persists the path. Shared with
// the retry sweep.
func (w *InvoiceWorker) Render(ctx context.Context, inv *model.Invoice) (string, error) {
	payment, err := w.paymentRepo.FindByID(ctx, inv.PaymentID)
	if err != nil {
		return "", fmt.Errorf("invoice_worker: payment not found: %w", err)
	}

	clientName, detail := describePayment(payment)
	pdfPath, err := infra.GenerateInvoicePDF(infra.InvoiceData{
		Invoice:    inv,
		Payment:    payment,
		ClientName: clientName,
		Detail:     detail,
	}, w.pdfStoragePath)
	if err != nil {
		return "", err
	}

	inv.PDFPath = &pdfPath
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		return "", fmt.Errorf("invoice_worker: persist pdf path: %w", err)
	}

	log.Info().Str("pdf", pdfPath).Str("invoice_id", inv.ID.String()).Msg("invoice_worker: PDF generated")
	return pdfPath, nil
}

func (w *InvoiceWorker) scheduleRetry(ctx context.Context, inv *model.Invoice, cause error) {
	inv.RetryCount++
	errMsg := cause.Error()
	inv.LastError = &errMsg

	if inv.RetryCount >= MaxInvoiceRetries {
		inv.NextRetryAt = nil
		_ = w.invoiceRepo.Update(ctx, inv)
		log.Error().
			Str("invoice_id", inv.ID.String()).
			Int("retries", inv.RetryCount).
			Msg("invoice_worker: max retries exceeded")
		return
	}

	next := time.Now().Add(computeRetryBackoff(inv.RetryCount))
	inv.NextRetryAt = &next
	_ = w.invoiceRepo.Update(ctx, inv)
	log.Warn().
		Str("invoice_id", inv.ID.String()).
		Int("retry_count", inv.RetryCount).
		Time("next_retry_at", next).
		Msg("invoice_worker: render failed, scheduled retry")
}

// computeRetryBackoff doubles the wait per attempt: 1m, 2m, 4m, ...
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}

// describePayment resolves the display name and document line for a payment.
func describePayment(p *model.Payment) (clientName, detail string) {
	clientName = "Client de passage"
	if p.Client != nil {
		clientName = p.Client.FullName()
	}

	switch {
	case p.Plan != nil:
		detail = "Abonnement " + p.Plan.Name
	case p.Session != nil:
		detail = fmt.Sprintf("Séance du %s (%dh)", p.Session.Date.Format("02/01/2006"), p.Session.Hours)
		if p.Client == nil {
			clientName = p.Session.ClientFirstName + " " + p.Session.ClientLastName
		}
	case p.TransactionID != nil && len(*p.TransactionID) > 9 && (*p.TransactionID)[:9] == "recharge-":
		detail = "Rechargement de compte"
	default:
		detail = "Paiement GYMZONE"
	}
	return clientName, detail
}
