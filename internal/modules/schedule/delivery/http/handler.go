package handler

import (
	"net/http"

	"anoa.com/collegeattendance/internal/middleware"
	"anoa.com/collegeattendance/internal/modules/schedule/dto"
	schedule "anoa.com/collegeattendance/internal/modules/schedule/service"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	service schedule.ScheduleService
}

func NewScheduleHandler(service schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CreateSchedule(c.Request.Context(), faculty, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), faculty)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	faculty, id, ok := FacultyAndSchedule(c)
	if !ok {
		return
	}

	resp, err := h.service.GetSchedule(c.Request.Context(), faculty, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ScheduleHandler) ListEligibleStudents(c *gin.Context) {
	faculty, id, ok := FacultyAndSchedule(c)
	if !ok {
		return
	}

	students, err := h.service.ListEligibleStudents(c.Request.Context(), faculty, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
