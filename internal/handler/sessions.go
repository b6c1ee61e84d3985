package handler

import (
	"net/http"
	"time"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

func (h *SessionsHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SessionsHandler) List(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionsHandler) Get(c *gin.Context) {
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

func (h *SessionsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionsHandler) Delete(c *gin.Context) {
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

// DirectSale records a walk-in session paid at the counter: the session, its
// PAID payment and the ticket are created in one call.
func (h *SessionsHandler) DirectSale(c *gin.Context) {
	var req dto.DirectSessionRequest
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

// parseDateQuery reads an optional YYYY-MM-DD query parameter. Returns false
// after responding when the value is present but malformed.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name+" date, expected YYYY-MM-DD"))
		return nil, false
	}
	return &t, true
}
