// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type RegisterRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended inactive"`
}

type UpdateTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=basic intermediate advanced admin super_admin"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
}

// UserResponse is the sanitized projection of a user; the password hash
// never leaves the service layer.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Tier        string     `json:"tier"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Tier     string `json:"tier"`
	Status   string `json:"status"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Tier:        u.Tier,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
