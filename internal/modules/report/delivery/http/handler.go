package handler

import (
	"net/http"

	"anoa.com/collegeattendance/internal/middleware"
	report "anoa.com/collegeattendance/internal/modules/report/service"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	service report.ReportService
}

func NewReportHandler(service report.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) StudentDashboard(c *gin.Context) {
	student, err := middleware.CurrentStudent(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.StudentDashboard(c.Request.Context(), student)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) StudentAttendance(c *gin.Context) {
	student, err := middleware.CurrentStudent(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.StudentAttendance(c.Request.Context(), student)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) FacultyDashboard(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.FacultyDashboard(c.Request.Context(), faculty)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) BatchSummaries(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.BatchSummaries(c.Request.Context(), faculty)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) StudentForFaculty(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var uri scheduleDto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	studentID, err := uuid.Parse(uri.ID)
	if err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.StudentForFaculty(c.Request.Context(), faculty, studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
