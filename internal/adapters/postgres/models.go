package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	AvatarPath   *string    `gorm:"column:avatar_path"`
	Active       bool       `gorm:"column:active"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (userModel) TableName() string { return "users" }

type loginAttemptModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Email       string    `gorm:"column:email"`
	IPAddress   string    `gorm:"column:ip_address"`
	Succeeded   bool      `gorm:"column:succeeded"`
	AttemptedAt time.Time `gorm:"column:attempted_at"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }

type rememberTokenModel struct {
	TokenHash string    `gorm:"column:token_hash;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (rememberTokenModel) TableName() string { return "remember_tokens" }
