package handler

import (
	"anoa.com/collegeattendance/internal/identity"
	"anoa.com/collegeattendance/internal/middleware"
	"anoa.com/collegeattendance/internal/modules/schedule/dto"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FacultyAndSchedule reads the faculty principal and the :id path
// parameter, writing the error response itself when either is missing.
func FacultyAndSchedule(c *gin.Context) (identity.Faculty, uuid.UUID, bool) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return identity.Faculty{}, uuid.Nil, false
	}

	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return identity.Faculty{}, uuid.Nil, false
	}

	id, err := uuid.Parse(uri.ID)
	if err != nil {
		response.BindError(c, err)
		return identity.Faculty{}, uuid.Nil, false
	}
	return faculty, id, true
}
