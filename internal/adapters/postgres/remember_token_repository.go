package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

type rememberTokenRepository struct {
	db *gorm.DB
}

func (r *rememberTokenRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string, createdAt, expiresAt time.Time) error {
	rec := rememberTokenModel{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

// Consume deletes the row under a row lock so a token replayed concurrently
// can only succeed once.
func (r *rememberTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec rememberTokenModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_hash = ?", tokenHash).
			Take(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&rememberTokenModel{}, "token_hash = ?", tokenHash).Error; err != nil {
			return err
		}
		if !rec.ExpiresAt.After(now) {
			return domain.ErrNotFound
		}
		userID = rec.UserID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (r *rememberTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Delete(&rememberTokenModel{}, "token_hash = ?", tokenHash).Error
}
