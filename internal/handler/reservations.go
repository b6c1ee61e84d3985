package handler

import (
	"net/http"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/middleware"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationsHandler struct{ svc service.ReservationService }

func NewReservationsHandler(svc service.ReservationService) *ReservationsHandler {
	return &ReservationsHandler{svc: svc}
}

// Create books a session or plan reservation. Clients always book for
// themselves; staff can record a walk-in reservation without a client account.
func (h *ReservationsHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var clientID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil && claims.Role == "CLIENT" {
		clientID = claimsClientID(c)
	}
	resp, err := h.svc.Create(c.Request.Context(), clientID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReservationsHandler) List(c *gin.Context) {
	var filter dto.ReservationFilter
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

// ByClient lists one client's reservations for back-office review.
func (h *ReservationsHandler) ByClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByClient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationsHandler) Get(c *gin.Context) {
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

// Mine lists the authenticated client's own reservations.
func (h *ReservationsHandler) Mine(c *gin.Context) {
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

// Validate godoc
// @Summary Staff settlement of a reservation payment
// @Description Records a payment against the reservation. Partial amounts
// @Description accumulate; the reservation is confirmed once the total reaches
// @Description the reference price.
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation id"
// @Param body body dto.ValidateReservationRequest true "Payment"
// @Success 200 {object} dto.ValidateReservationResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/reservations/{id}/valider [post]
func (h *ReservationsHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ValidateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validate(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel cancels a pending reservation. Staff can cancel any reservation;
// clients only their own, which the service enforces via the requester id.
func (h *ReservationsHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var requesterID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil && claims.Role == "CLIENT" {
		requesterID = claimsClientID(c)
	}
	if err := h.svc.Cancel(c.Request.Context(), id, requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation annulee"})
}

func (h *ReservationsHandler) MarkDone(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.MarkDone(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation terminee"})
}

func (h *ReservationsHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// claimsClientID extracts the authenticated user's id, or nil when the request
// carries no parseable identity.
func claimsClientID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
