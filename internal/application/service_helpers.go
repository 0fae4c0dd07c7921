package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

// recordAttempt appends the credential-check outcome to the ledger. Ledger
// writes degrade gracefully: a storage hiccup is logged and never aborts the
// login flow itself.
func (s *Service) recordAttempt(ctx context.Context, email, ipAddress string, succeeded bool) {
	err := s.attempts.Record(ctx, domain.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		Succeeded:   succeeded,
		AttemptedAt: s.nowFn(),
	})
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to record login attempt",
			"operation", "record_login_attempt",
			"outcome", "failure",
			"email", email,
			"error", err,
		)
	}
}

func toProfileResponse(user domain.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AvatarPath:  user.AvatarPath,
		Active:      user.Active,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

// hashToken stores one-way token fingerprints instead of raw secrets.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a cryptographically random hex token.
func randomHex(bytesLen int) string {
	raw := make([]byte, bytesLen)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

// userMessage strips the sentinel prefix so accumulated validation messages
// read the way forms display them.
func userMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return cut
	}
	return msg
}

func trimmed(v string) string { return strings.TrimSpace(v) }
