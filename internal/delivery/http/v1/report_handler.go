package v1

import (
	"net/http"

	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportUC domain.ReportUsecase
}

func NewReportHandler(protected *gin.RouterGroup, reportUC domain.ReportUsecase) {
	handler := &ReportHandler{reportUC: reportUC}

	reports := protected.Group("/reports")
	{
		reports.GET("", handler.List)
		reports.POST("", handler.Submit)
	}
}

type SubmitReportRequest struct {
	Content string `json:"content" binding:"required"`
	// Date is the client's local calendar day; empty falls back to the
	// server's today.
	Date string `json:"date" binding:"omitempty,dateonly"`
}

// List godoc
// @Summary      List Reports
// @Description  List all reports of the caller's company for one calendar date, newest first.
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Calendar date (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	session := c.MustGet(domain.SessionKey).(*domain.Session)

	reports, err := h.reportUC.ListForDate(c.Request.Context(), session, c.Query("date"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Reports for the day", reports)
}

// Submit godoc
// @Summary      Submit Report
// @Description  Store one daily report. Content is saved verbatim; blank content is rejected. Reports are immutable once stored.
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        report  body      SubmitReportRequest  true  "Report"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	session := c.MustGet(domain.SessionKey).(*domain.Session)

	report, err := h.reportUC.Submit(c.Request.Context(), session, req.Content, req.Date)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Report submitted", report)
}
