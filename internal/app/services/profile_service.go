package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/filestorage"
	"github.com/yigit/openhacks/internal/pkg/helpers"
)

// recentLimit caps the recent organized and judged events on a profile
const recentLimit = 3

// Profile errors
var (
	ErrNoProfileFields = apperrors.NewBadRequestError("no valid fields to update")
)

// ProfileService defines the interface for the caller's own account
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	DeleteProfile(ctx context.Context, userID string) error
	FindByEmail(ctx context.Context, email string) (*dto.UserLookupResponse, error)
	Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
	Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type profileServiceImpl struct {
	users         UserStore
	events        EventStore
	registrations RegistrationStore
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	users UserStore,
	events EventStore,
	registrations RegistrationStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		users:         users,
		events:        events,
		registrations: registrations,
		storage:       storage,
		logger:        logger,
	}
}

func (s *profileServiceImpl) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// GetProfile returns the caller's profile with activity counts and recent events
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *profileServiceImpl) profile(ctx context.Context, user *models.User) (*dto.ProfileResponse, error) {
	counts, err := s.users.ActivityCounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting activity: %w", err)
	}
	organized, err := s.events.ListOrganizedBy(ctx, user.ID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading organized events: %w", err)
	}
	judged, err := s.events.ListJudgedBy(ctx, user.ID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading judged events: %w", err)
	}

	resp := dto.FromUser(user)
	resp.Counts = dto.ProfileCounts{
		Registrations:   counts.Registrations,
		OrganizedEvents: counts.OrganizedEvents,
		JudgedEvents:    counts.JudgedEvents,
	}
	for i := range organized {
		resp.RecentOrganized = append(resp.RecentOrganized, dto.ToEventSummary(&organized[i].Event))
	}
	for i := range judged {
		resp.RecentJudged = append(resp.RecentJudged, dto.ToEventSummary(&judged[i]))
	}
	return &resp, nil
}

// UpdateProfile applies a partial update of the caller's profile
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	update := models.ProfileUpdate{
		Bio:            trimmed(req.Bio),
		Avatar:         trimmed(req.Avatar),
		Website:        trimmed(req.Website),
		GitHub:         trimmed(req.GitHub),
		LinkedIn:       trimmed(req.LinkedIn),
		Twitter:        trimmed(req.Twitter),
		University:     trimmed(req.University),
		GraduationYear: req.GraduationYear,
		Skills:         req.Skills.List(),
	}
	if name := helpers.NullIfBlank(req.Name); name != nil {
		update.Name = name
	}
	if update.IsEmpty() {
		return nil, ErrNoProfileFields
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to update profile")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return s.profile(ctx, user)
}

// DeleteProfile removes the caller's account unless they still organize events or own teams
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, userID string) error {
	counts, err := s.users.ActivityCounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("error counting activity: %w", err)
	}
	if counts.OrganizedEvents > 0 || counts.OwnedTeams > 0 {
		return apperrors.NewCustomError(apperrors.ErrConflict,
			"delete or hand over your events and teams before deleting your account").
			WithDetails(map[string]any{
				"organizedEvents": counts.OrganizedEvents,
				"ownedTeams":      counts.OwnedTeams,
			})
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to delete account")
		return fmt.Errorf("error deleting account: %w", err)
	}
	return nil
}

// FindByEmail looks a user up by email
func (s *profileServiceImpl) FindByEmail(ctx context.Context, email string) (*dto.UserLookupResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	return &dto.UserLookupResponse{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// Dashboard collects the caller's registrations, organized events and judging assignments
func (s *profileServiceImpl) Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	regs, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading registrations: %w", err)
	}
	organized, err := s.events.ListOrganizedBy(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("error loading organized events: %w", err)
	}
	judged, err := s.events.ListJudgedBy(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("error loading judged events: %w", err)
	}

	resp := &dto.DashboardResponse{
		Registrations: make([]dto.DashboardRegistration, 0, len(regs)),
		Organized:     make([]dto.OrganizedEventResponse, 0, len(organized)),
		Judging:       make([]dto.EventSummary, 0, len(judged)),
	}
	for i := range regs {
		resp.Registrations = append(resp.Registrations, dto.DashboardRegistration{
			ID:        regs[i].ID,
			CreatedAt: regs[i].CreatedAt,
			Event:     dto.ToEventSummary(&regs[i].Event),
		})
	}
	for i := range organized {
		resp.Organized = append(resp.Organized, dto.OrganizedEventResponse{
			EventSummary:      dto.ToEventSummary(&organized[i].Event),
			RegistrationCount: organized[i].RegistrationCount,
			CreatedAt:         organized[i].CreatedAt,
		})
	}
	for i := range judged {
		resp.Judging = append(resp.Judging, dto.ToEventSummary(&judged[i]))
	}
	return resp, nil
}

// Upload stores an image and returns its public URL
func (s *profileServiceImpl) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	url, err := s.storage.SaveImage(file)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to store upload")
		return nil, fmt.Errorf("error storing upload: %w", err)
	}
	return &dto.UploadResponse{URL: url}, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
