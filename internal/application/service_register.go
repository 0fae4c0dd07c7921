package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

// Register creates a new active account. Validation accumulates every
// violation before returning so the form can show all of them at once.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var verrs domain.ValidationErrors

	if err := domain.ValidateName(req.Name); err != nil {
		verrs = append(verrs, userMessage(err))
	}
	email := domain.NormalizeEmail(req.Email)
	if err := domain.ValidateEmail(req.Email); err != nil {
		verrs = append(verrs, userMessage(err))
	} else {
		taken, err := s.users.EmailTaken(ctx, email, uuid.Nil)
		if err != nil {
			// A broken uniqueness probe must not be swallowed into a
			// false "available" answer.
			return RegisterResponse{}, fmt.Errorf("check email availability: %w", err)
		}
		if taken {
			verrs = append(verrs, "email is already registered")
		}
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		verrs = append(verrs, userMessage(err))
	}
	if err := domain.ValidatePasswordConfirmation(req.Password, req.ConfirmPassword); err != nil {
		verrs = append(verrs, userMessage(err))
	}
	if len(verrs) > 0 {
		return RegisterResponse{}, verrs
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         trimmed(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		// A concurrent registration can slip past the pre-check; the
		// storage uniqueness constraint is the authority.
		return RegisterResponse{}, err
	}

	slog.Default().InfoContext(ctx, "user registered",
		"operation", "register",
		"outcome", "success",
		"user_id", user.ID,
	)

	return RegisterResponse{UserID: user.ID, Redirect: "/login"}, nil
}
