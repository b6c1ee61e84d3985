package handler

import (
	"net/http"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
)

type PlansHandler struct{ svc service.PlanService }

func NewPlansHandler(svc service.PlanService) *PlansHandler { return &PlansHandler{svc: svc} }

func (h *PlansHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
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

// List returns active plans; staff can pass ?all=true to include retired ones.
func (h *PlansHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	resp, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlansHandler) Get(c *gin.Context) {
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

func (h *PlansHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
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

func (h *PlansHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
