package handler

import (
	"net/http"
	"strconv"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

func (h *InvoicesHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	data, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Mine lists the authenticated client's own invoices.
func (h *InvoicesHandler) Mine(c *gin.Context) {
	clientID := claimsClientID(c)
	if clientID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Malformed token"))
		return
	}
	resp, err := h.svc.ListByClient(c.Request.Context(), *clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF streams the rendered invoice. Returns 404 while the render is
// still queued; the client retries once the worker has produced the file.
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
