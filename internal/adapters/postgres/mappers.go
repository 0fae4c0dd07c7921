package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

func toDomainUser(row userModel) domain.User {
	avatar := ""
	if row.AvatarPath != nil {
		avatar = *row.AvatarPath
	}
	return domain.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		AvatarPath:   avatar,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLoginAt:  row.LastLoginAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
