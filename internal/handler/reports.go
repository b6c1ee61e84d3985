package handler

import (
	"net/http"
	"time"

	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Financial godoc
// @Summary Financial dashboard report
// @Description Revenue, expenses and per-plan totals over [from, to). Defaults
// @Description to the current calendar year when no range is given.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.FinancialReportResponse
// @Router /api/financial-report [get]
func (h *ReportsHandler) Financial(c *gin.Context) {
	fromPtr, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	toPtr, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	var from, to time.Time
	if fromPtr != nil {
		from = *fromPtr
	}
	if toPtr != nil {
		to = *toPtr
	}
	resp, err := h.svc.Financial(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
