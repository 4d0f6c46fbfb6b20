package dto

import (
	"anoa.com/collegeattendance/internal/entity"
)

type RegisterRequest struct {
	Role            string `json:"role" binding:"required,oneof=student faculty"`
	HallTicketID    string `json:"hall_ticket_id" binding:"required_if=Role student,max=20"`
	Username        string `json:"username" binding:"required_if=Role faculty,max=50"`
	Name            string `json:"name" binding:"required,max=100"`
	Subject         string `json:"subject" binding:"required_if=Role faculty,max=100"`
	Branch          string `json:"branch" binding:"required,oneof=CSE ECE IT ME CE"`
	Year            int    `json:"year" binding:"required,min=1,max=4"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Role     string `json:"role" binding:"required,oneof=student faculty"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   int64       `json:"expires_at"`
	Me          *MeResponse `json:"me"`
}

type MeResponse struct {
	Role      entity.Role     `json:"role"`
	Name      string          `json:"name"`
	Dashboard string          `json:"dashboard"`
	Student   *entity.Student `json:"student,omitempty"`
	Faculty   *entity.Faculty `json:"faculty,omitempty"`
}
