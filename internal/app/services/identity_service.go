package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/auth"
)

// fallbackEmailDomain is used when the identity token carries no email
const fallbackEmailDomain = "example.local"

// IdentityService maps verified identity principals to local user records
type IdentityService interface {
	Resolve(ctx context.Context, principal *auth.Principal) (*models.User, error)
}

type identityServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(users UserStore, logger zerolog.Logger) IdentityService {
	return &identityServiceImpl{users: users, logger: logger}
}

// Resolve upserts the user so the stored email and name follow the latest claims
func (s *identityServiceImpl) Resolve(ctx context.Context, principal *auth.Principal) (*models.User, error) {
	if principal == nil || strings.TrimSpace(principal.Subject) == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	email := strings.TrimSpace(principal.Email)
	if email == "" {
		email = principal.Subject + "@" + fallbackEmailDomain
	}

	user, err := s.users.Upsert(ctx, principal.Subject, email, DisplayName(principal, email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("subject", principal.Subject).Msg("Failed to resolve identity")
		return nil, fmt.Errorf("error resolving identity: %w", err)
	}
	return user, nil
}

// DisplayName picks "first last", then username, then email, then subject
func DisplayName(p *auth.Principal, email string) string {
	if name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)); name != "" {
		return name
	}
	if username := strings.TrimSpace(p.Username); username != "" {
		return username
	}
	if email != "" {
		return email
	}
	return p.Subject
}
