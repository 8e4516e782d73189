package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/openhacks/internal/app/models"
	appRepos "github.com/yigit/openhacks/internal/app/repositories"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/openhacks/internal/pkg/auth"
)

// demoUser is an account created for local development
type demoUser struct {
	ID    string
	Email string
	Name  string
}

var (
	demoOrganizer = demoUser{ID: "demo-organizer", Email: "organizer@openhacks.local", Name: "Demo Organizer"}
	demoJudge     = demoUser{ID: "demo-judge", Email: "judge@openhacks.local", Name: "Demo Judge"}
	demoHacker    = demoUser{ID: "demo-hacker", Email: "hacker@openhacks.local", Name: "Demo Hacker"}
)

// TokenIssuer signs development tokens for the demo accounts
type TokenIssuer interface {
	IssueToken(p pkgAuth.Principal, ttl time.Duration) (string, error)
}

// CreateDefaultData creates demo users and a sample event if the organizer has none yet.
// Failures are collected so one bad record does not stop the rest.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, issuer TokenIssuer, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	for _, u := range []demoUser{demoOrganizer, demoJudge, demoHacker} {
		if _, err := repos.UserRepository.Upsert(ctx, u.ID, u.Email, u.Name); err != nil {
			lgr.Error().Err(err).Str("userID", u.ID).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	organized, err := repos.EventRepository.ListOrganizedBy(ctx, demoOrganizer.ID, 1)
	if err != nil {
		return err
	}
	if len(organized) > 0 {
		lgr.Info().Msg("Demo event already exists, skipping")
		logTokens(issuer, lgr)
		return nil
	}

	theme := "Tools for open communities"
	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	event := &appModels.Event{
		Title:       "OpenHacks Demo Weekend",
		Description: "A weekend of building open tools with friends.",
		Mode:        appModels.ModeHybrid,
		StartAt:     start,
		EndAt:       start.Add(48 * time.Hour),
		Theme:       &theme,
		Tracks:      []string{"Developer tools", "Civic tech", "Education"},
		Timeline:    []string{"Friday 18:00 Kickoff", "Sunday 14:00 Submissions close", "Sunday 17:00 Awards"},
		OrganizerID: demoOrganizer.ID,
		FAQs: []appModels.EventFAQ{
			{Question: "Who can join?", Answer: "Anyone with an account.", Position: 0},
			{Question: "How big can teams be?", Answer: "Up to five people.", Position: 1},
		},
	}
	if err := repos.EventRepository.Create(ctx, event); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo event")
		return err
	}

	if err := repos.EventRepository.AddJudge(ctx, event.ID, demoJudge.ID); err != nil {
		lgr.Error().Err(err).Msg("Error adding demo judge")
		finalErr = errors.Join(finalErr, err)
	}
	if _, err := repos.RegistrationRepository.Create(ctx, event.ID, demoHacker.ID); err != nil && !errors.Is(err, apperrors.ErrConflict) {
		lgr.Error().Err(err).Msg("Error registering demo hacker")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Str("eventID", event.ID).Msg("Demo data created")
	logTokens(issuer, lgr)
	return finalErr
}

// logTokens prints a day-long token per demo account when the verifier can sign them
func logTokens(issuer TokenIssuer, lgr zerolog.Logger) {
	if issuer == nil {
		return
	}
	for _, u := range []demoUser{demoOrganizer, demoJudge, demoHacker} {
		token, err := issuer.IssueToken(pkgAuth.Principal{Subject: u.ID, Email: u.Email, Username: u.Name}, 24*time.Hour)
		if err != nil {
			lgr.Debug().Err(err).Msg("Demo tokens unavailable")
			return
		}
		lgr.Info().Str("userID", u.ID).Str("token", token).Msg("Demo token")
	}
}
