package application

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Redirect string    `json:"redirect"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`

	// Filled by the HTTP adapter, not the submitted form.
	IPAddress      string `json:"-"`
	PriorSessionID string `json:"-"`
	Target         string `json:"-"`
}

type LoginResponse struct {
	SessionID         string       `json:"-"`
	RememberToken     string       `json:"-"`
	RememberExpiresAt time.Time    `json:"-"`
	Redirect          string       `json:"redirect"`
	User              ProfileBrief `json:"user"`
}

type ProfileBrief struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type UpdateProfileRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type ProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	AvatarPath  string     `json:"avatar_path,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type UserSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type DashboardResponse struct {
	Profile     ProfileResponse `json:"profile"`
	ActiveUsers int64           `json:"active_users"`
}

// ResumeResult is produced when a remember-me token re-establishes a session.
type ResumeResult struct {
	SessionID         string
	RememberToken     string
	RememberExpiresAt time.Time
}
