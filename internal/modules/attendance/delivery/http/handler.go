package handler

import (
	"net/http"
	"strings"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/modules/attendance/dto"
	attendance "anoa.com/collegeattendance/internal/modules/attendance/service"
	scheduleHandler "anoa.com/collegeattendance/internal/modules/schedule/delivery/http"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttendanceHandler struct {
	service attendance.AttendanceService
}

func NewAttendanceHandler(service attendance.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func (h *AttendanceHandler) GetSheet(c *gin.Context) {
	faculty, scheduleID, ok := scheduleHandler.FacultyAndSchedule(c)
	if !ok {
		return
	}

	sheet, err := h.service.Sheet(c.Request.Context(), faculty, scheduleID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheet)
}

func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	faculty, scheduleID, ok := scheduleHandler.FacultyAndSchedule(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	statuses, err := parseStatuses(req.Statuses)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.MarkAttendance(c.Request.Context(), faculty, scheduleID, statuses)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseStatuses keys the submitted statuses by student id. Two keys that
// spell the same id differently are rejected.
func parseStatuses(raw map[string]string) (map[uuid.UUID]entity.AttendanceStatus, error) {
	statuses := make(map[uuid.UUID]entity.AttendanceStatus, len(raw))
	verr := &apperror.ValidationError{}
	for key, status := range raw {
		studentID, err := uuid.Parse(key)
		if err != nil {
			verr.Add(key, "student id must be a valid id")
			continue
		}
		if _, dup := statuses[studentID]; dup {
			verr.Add(studentID.String(), "student id given more than once")
			continue
		}
		statuses[studentID] = entity.AttendanceStatus(strings.ToLower(strings.TrimSpace(status)))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return statuses, nil
}

