package handler

import (
	"net/http"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// InitPayment godoc
// @Summary Start a client payment
// @Description Opens a CinetPay checkout, or debits the account balance
// @Description immediately when use_balance is set.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body dto.InitPaymentRequest true "Payment details"
// @Success 201 {object} dto.InitPaymentResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/init-paiement [post]
func (h *PaymentsHandler) InitPayment(c *gin.Context) {
	var req dto.InitPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	clientID := claimsClientID(c)
	if clientID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Malformed token"))
		return
	}
	resp, err := h.svc.InitPayment(c.Request.Context(), *clientID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Recharge credits the authenticated client's balance through the gateway.
func (h *PaymentsHandler) Recharge(c *gin.Context) {
	var req dto.RechargeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	clientID := claimsClientID(c)
	if clientID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Malformed token"))
		return
	}
	resp, err := h.svc.Recharge(c.Request.Context(), *clientID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DirectPayment is the staff counter entry: the payment is recorded PAID
// immediately, no gateway involved.
func (h *PaymentsHandler) DirectPayment(c *gin.Context) {
	var req dto.DirectPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DirectPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Validate confirms a pending payment by hand, for money that arrived
// outside the gateway.
func (h *PaymentsHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ValidatePending(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook receives CinetPay notifications. The body only identifies the
// transaction; the gateway is queried back for the authoritative status, so a
// forged or replayed notification cannot settle a payment. Always acknowledges
// with 200 once the transaction id parses, otherwise the gateway retries a
// notification we can never process.
func (h *PaymentsHandler) Webhook(c *gin.Context) {
	var notif dto.CinetPayNotification
	if err := c.ShouldBind(&notif); err != nil || notif.TransactionID == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Missing cpm_trans_id"))
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), notif.TransactionID); err != nil {
		log.Error().Err(err).Str("transaction_id", notif.TransactionID).
			Msg("webhook processing failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *PaymentsHandler) List(c *gin.Context) {
	var filter dto.PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentsHandler) Get(c *gin.Context) {
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

// Mine lists the authenticated client's own payments.
func (h *PaymentsHandler) Mine(c *gin.Context) {
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
