package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

func (r *loginAttemptRepository) Record(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := loginAttemptModel{
		Email:       attempt.Email,
		IPAddress:   attempt.IPAddress,
		Succeeded:   attempt.Succeeded,
		AttemptedAt: attempt.AttemptedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *loginAttemptRepository) CountFailures(ctx context.Context, email, ipAddress string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&loginAttemptModel{}).
		Where("email = ?", email).
		Where("ip_address = ?", ipAddress).
		Where("succeeded = ?", false).
		Where("attempted_at > ?", since).
		Count(&count).Error
	return count, err
}
