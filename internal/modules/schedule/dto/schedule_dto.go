package dto

import (
	"time"

	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Subject string `json:"subject" binding:"required,max=100"`
	Topic   string `json:"topic" binding:"required,max=200"`
}

type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type ScheduleResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

func NewScheduleResponse(s entity.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID,
		Date:      s.Day(),
		Subject:   s.Subject,
		Topic:     s.Topic,
		CreatedAt: s.CreatedAt,
	}
}

func NewScheduleResponses(schedules []entity.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, NewScheduleResponse(s))
	}
	return out
}

type StudentResponse struct {
	ID           uuid.UUID     `json:"id"`
	HallTicketID string        `json:"hall_ticket_id"`
	Name         string        `json:"name"`
	Branch       entity.Branch `json:"branch"`
	Year         int           `json:"year"`
}

func NewStudentResponses(students []entity.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, StudentResponse{
			ID:           s.ID,
			HallTicketID: s.HallTicketID,
			Name:         s.Name,
			Branch:       s.Branch,
			Year:         s.Year,
		})
	}
	return out
}
