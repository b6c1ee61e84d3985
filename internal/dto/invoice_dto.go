package dto

type InvoiceResponse struct {
	ID        string  `json:"id"`
	PaymentID string  `json:"payment_id"`
	Reference string  `json:"reference"`
	Kind      string  `json:"kind"`
	PDFUrl    *string `json:"pdf_url"`
	CreatedAt string  `json:"created_at"`
}
