package services

import (
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/helpers"
	"github.com/yigit/openhacks/internal/pkg/search"
)

func teamSummary(team *models.Team, members []models.TeamMember) dto.TeamSummaryResponse {
	resp := dto.TeamSummaryResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Members: make([]models.UserSummary, 0, len(members)),
	}
	for _, m := range members {
		if m.UserID == team.OwnerID {
			owner := m.User
			resp.Owner = &owner
		}
		resp.Members = append(resp.Members, m.User)
	}
	return resp
}

func eventResponses(events []models.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.FromEvent(&events[i]))
	}
	return out
}

func eventDocument(e *models.Event) search.EventDocument {
	return search.EventDocument{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Theme:       helpers.StringValue(e.Theme),
		Tracks:      e.Tracks,
		Mode:        string(e.Mode),
		StartAt:     e.StartAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func faqsFromRequest(reqs []dto.FAQRequest) []models.EventFAQ {
	faqs := make([]models.EventFAQ, 0, len(reqs))
	for _, f := range reqs {
		faqs = append(faqs, models.EventFAQ{Question: f.Question, Answer: f.Answer})
	}
	return faqs
}
