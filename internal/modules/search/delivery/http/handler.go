package handler

import (
	"net/http"

	"anoa.com/collegeattendance/internal/middleware"
	search "anoa.com/collegeattendance/internal/modules/search/service"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchService
}

func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchStudents(c *gin.Context) {
	faculty, err := middleware.CurrentFaculty(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	students, err := h.service.SearchBatch(c.Request.Context(), faculty, c.Query("q"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
