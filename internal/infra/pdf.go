package infra

// pdf.go generates invoice and session ticket PDFs with go-pdf/fpdf.
// Invoices are A4 with a header block, a detail table and a bold total.
// Session tickets use a smaller receipt-style page.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/go-pdf/fpdf"
)

// InvoiceData carries everything the renderer needs. The caller resolves
// associations up front so the renderer stays free of DB access.
type InvoiceData struct {
	Invoice    *model.Invoice
	Payment    *model.Payment
	ClientName string
	Detail     string // plan name, session description, or "Account top-up"
}

// GenerateInvoicePDF writes an A4 invoice to storagePath and returns the
// absolute file path.
func GenerateInvoicePDF(data InvoiceData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("facture_%s.pdf", data.Invoice.Reference)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 12, "GYMZONE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	title := "FACTURE"
	if data.Invoice.Kind == "TICKET" {
		title = "TICKET DE SEANCE"
	}
	pdf.CellFormat(contentW, 7, title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Reference block
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Reference : %s", data.Invoice.Reference), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	when := data.Invoice.CreatedAt
	if data.Payment.PaidAt != nil {
		when = *data.Payment.PaidAt
	}
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Date : %s", when.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Client : %s", data.ClientName), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Detail table
	colDesc := contentW * 0.55
	colMethod := contentW * 0.20
	colAmount := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colDesc, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colMethod, 8, "Mode", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colAmount, 8, "Montant", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(colDesc, 8, data.Detail, "1", 0, "L", false, 0, "")
	pdf.CellFormat(colMethod, 8, data.Payment.Method, "1", 0, "C", false, 0, "")
	pdf.CellFormat(colAmount, 8, data.Payment.Amount.StringFixed(2)+" FCFA", "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Total
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(colDesc+colMethod, 10, "TOTAL :", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 10, data.Payment.Amount.StringFixed(2)+" FCFA", "T", 1, "R", false, 0, "")

	// Footer
	pdf.Ln(15)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Merci de votre confiance !", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, "GYMZONE - Votre salle de sport", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GenerateSessionTicketPDF writes a receipt-style ticket for a walk-in
// session sale and returns the absolute file path.
func GenerateSessionTicketPDF(session *model.Session, reference string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%s.pdf", reference)
	filePath := filepath.Join(storagePath, fileName)

	// A7-ish receipt size, close to thermal paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "GYMZONE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de seance", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Ref : %s", reference), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Client : %s %s", session.ClientFirstName, session.ClientLastName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Date : %s", session.Date.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Duree : %dh", session.Hours), "", 1, "L", false, 0, "")
	if session.Coach != nil {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Coach : %s %s", session.Coach.FirstName, session.Coach.LastName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.5, 6, "TOTAL :", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, session.AmountPaid.StringFixed(2)+" FCFA", "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Bonne seance !", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
