package handler

import (
	"net/http"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipsHandler struct{ svc service.MembershipService }

func NewMembershipsHandler(svc service.MembershipService) *MembershipsHandler {
	return &MembershipsHandler{svc: svc}
}

// DirectSale is a counter plan sale: membership, PAID payment and invoice in
// one call.
func (h *MembershipsHandler) DirectSale(c *gin.Context) {
	var req dto.DirectMembershipRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DirectSale(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns memberships; ?all=true includes expired ones.
func (h *MembershipsHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	resp, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MembershipsHandler) Get(c *gin.Context) {
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

// Mine lists the authenticated client's own memberships.
func (h *MembershipsHandler) Mine(c *gin.Context) {
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

// ByPlan lists the subscribers of one plan, expired memberships included.
func (h *MembershipsHandler) ByPlan(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByPlan(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpireOverdue runs the expiry sweep on demand. The same sweep also runs
// nightly.
func (h *MembershipsHandler) ExpireOverdue(c *gin.Context) {
	n, err := h.svc.ExpireOverdue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}
