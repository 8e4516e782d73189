package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/auth"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	testNow    = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	testClock  = func() time.Time { return testNow }
	testLogger = zerolog.Nop()
)

// world is an in-memory stand-in for both stores
type world struct {
	seq     int
	users   map[string]*models.User
	events  map[string]*models.Event
	judges  map[string]map[string]bool
	regs    map[string]*models.Registration
	teams   map[string]*models.Team
	members map[string][]models.TeamMember
	invites map[string]*models.TeamInvite
	rounds  map[string]*models.Round
	scores  []*models.Score
	subs    map[string]*models.Submission
	anns    []*models.Announcement
}

func newWorld() *world {
	return &world{
		users:   map[string]*models.User{},
		events:  map[string]*models.Event{},
		judges:  map[string]map[string]bool{},
		regs:    map[string]*models.Registration{},
		teams:   map[string]*models.Team{},
		members: map[string][]models.TeamMember{},
		invites: map[string]*models.TeamInvite{},
		rounds:  map[string]*models.Round{},
		subs:    map[string]*models.Submission{},
	}
}

func (w *world) nextID(prefix string) string {
	w.seq++
	return fmt.Sprintf("%s-%d", prefix, w.seq)
}

func (w *world) tick() time.Time {
	w.seq++
	return testNow.Add(time.Duration(w.seq) * time.Second)
}

func regKey(eventID, userID string) string { return eventID + "/" + userID }

// fixtures

func (w *world) addUser(id string) *models.User {
	u := &models.User{ID: id, Email: id + "@example.com", Name: strings.ToUpper(id), Skills: []string{}}
	w.users[id] = u
	return u
}

func (w *world) addEvent(id, organizerID string, startIn time.Duration) *models.Event {
	e := &models.Event{
		ID:          id,
		Title:       "Event " + id,
		Description: "A hackathon for testing",
		Mode:        models.ModeOnline,
		StartAt:     testNow.Add(startIn),
		EndAt:       testNow.Add(startIn + 48*time.Hour),
		OrganizerID: organizerID,
		FAQs:        []models.EventFAQ{},
	}
	w.events[id] = e
	return e
}

func (w *world) register(eventID, userID string) {
	w.regs[regKey(eventID, userID)] = &models.Registration{ID: w.nextID("reg"), EventID: eventID, UserID: userID, CreatedAt: w.tick()}
}

func (w *world) addTeam(id, eventID, ownerID string) *models.Team {
	t := &models.Team{ID: id, Name: "Team " + id, EventID: eventID, OwnerID: ownerID}
	w.teams[id] = t
	w.members[id] = []models.TeamMember{{TeamID: id, UserID: ownerID, User: w.summary(ownerID)}}
	return t
}

func (w *world) addMember(teamID, userID string) {
	w.members[teamID] = append(w.members[teamID], models.TeamMember{TeamID: teamID, UserID: userID, User: w.summary(userID)})
}

func (w *world) isMember(teamID, userID string) bool {
	for _, m := range w.members[teamID] {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (w *world) summary(id string) models.UserSummary {
	if u, ok := w.users[id]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: id}
}

// users

type fakeUsers struct{ w *world }

func (f fakeUsers) Upsert(_ context.Context, id, email, name string) (*models.User, error) {
	u, ok := f.w.users[id]
	if !ok {
		u = &models.User{ID: id, Skills: []string{}}
		f.w.users[id] = u
	}
	u.Email, u.Name = email, name
	return u, nil
}

func (f fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.w.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.w.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeUsers) FindSummaries(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := map[string]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.w.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (f fakeUsers) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	u, ok := f.w.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Bio != nil {
		u.Bio = update.Bio
	}
	if update.GraduationYear != nil {
		u.GraduationYear = update.GraduationYear
	}
	if update.Skills != nil {
		u.Skills = update.Skills
	}
	return u, nil
}

func (f fakeUsers) ActivityCounts(_ context.Context, id string) (models.ActivityCounts, error) {
	var c models.ActivityCounts
	for _, r := range f.w.regs {
		if r.UserID == id {
			c.Registrations++
		}
	}
	for _, e := range f.w.events {
		if e.OrganizerID == id {
			c.OrganizedEvents++
		}
	}
	for _, judges := range f.w.judges {
		if judges[id] {
			c.JudgedEvents++
		}
	}
	for _, t := range f.w.teams {
		if t.OwnerID == id {
			c.OwnedTeams++
		}
	}
	return c, nil
}

func (f fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.w.users[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.w.users, id)
	for k, r := range f.w.regs {
		if r.UserID == id {
			delete(f.w.regs, k)
		}
	}
	return nil
}

// events

type fakeEvents struct{ w *world }

func (f fakeEvents) Create(_ context.Context, e *models.Event) error {
	e.ID = f.w.nextID("evt")
	e.CreatedAt = f.w.tick()
	e.UpdatedAt = e.CreatedAt
	for i := range e.FAQs {
		e.FAQs[i].ID = f.w.nextID("faq")
		e.FAQs[i].EventID = e.ID
		e.FAQs[i].Position = i
	}
	copied := *e
	f.w.events[e.ID] = &copied
	return nil
}

func (f fakeEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	if e, ok := f.w.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeEvents) EventExists(_ context.Context, id string) (bool, error) {
	_, ok := f.w.events[id]
	return ok, nil
}

func (f fakeEvents) sorted() []models.Event {
	out := []models.Event{}
	for _, e := range f.w.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

func (f fakeEvents) List(_ context.Context, q models.EventListQuery) ([]models.Event, *string, error) {
	all := []models.Event{}
	for _, e := range f.w.events {
		if q.Mode == nil || e.Mode == *q.Mode {
			all = append(all, *e)
		}
	}
	key := func(e models.Event) time.Time {
		if q.SortBy == "createdAt" {
			return e.CreatedAt
		}
		return e.StartAt
	}
	sort.Slice(all, func(i, j int) bool {
		ki, kj := key(all[i]), key(all[j])
		if ki.Equal(kj) {
			return (all[i].ID < all[j].ID) != q.Desc
		}
		return ki.Before(kj) != q.Desc
	})

	start := 0
	if q.Cursor != "" {
		start = -1
		for i, e := range all {
			if e.ID == q.Cursor {
				start = i
			}
		}
		if start < 0 {
			return nil, nil, apperrors.NewBadRequestError("invalid cursor")
		}
	}
	page := all[start:]
	var next *string
	if len(page) > q.Limit {
		id := page[q.Limit].ID
		next = &id
		page = page[:q.Limit]
	}
	return page, next, nil
}

func (f fakeEvents) SearchByText(_ context.Context, term string, limit int) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range f.sorted() {
		if strings.Contains(strings.ToLower(e.Title+" "+e.Description), strings.ToLower(term)) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEvents) FindByIDs(_ context.Context, ids []string) ([]models.Event, error) {
	out := []models.Event{}
	for _, id := range ids {
		if e, ok := f.w.events[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f fakeEvents) Update(_ context.Context, e *models.Event, replaceFAQs bool) error {
	current, ok := f.w.events[e.ID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	faqs := current.FAQs
	if replaceFAQs {
		faqs = e.FAQs
		for i := range faqs {
			faqs[i].ID = f.w.nextID("faq")
			faqs[i].Position = i
		}
	}
	e.UpdatedAt = f.w.tick()
	copied := *e
	copied.FAQs = faqs
	f.w.events[e.ID] = &copied
	return nil
}

func (f fakeEvents) Delete(_ context.Context, id string) error {
	if _, ok := f.w.events[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.w.events, id)
	return nil
}

func (f fakeEvents) AddJudge(_ context.Context, eventID, userID string) error {
	if f.w.judges[eventID] == nil {
		f.w.judges[eventID] = map[string]bool{}
	}
	f.w.judges[eventID][userID] = true
	return nil
}

func (f fakeEvents) RemoveJudge(_ context.Context, eventID, userID string) error {
	if !f.w.judges[eventID][userID] {
		return apperrors.NewResourceNotFoundError("judge not found")
	}
	delete(f.w.judges[eventID], userID)
	return nil
}

func (f fakeEvents) IsJudge(_ context.Context, eventID, userID string) (bool, error) {
	return f.w.judges[eventID][userID], nil
}

func (f fakeEvents) ListJudges(_ context.Context, eventID string) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for id := range f.w.judges[eventID] {
		out = append(out, f.w.summary(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeEvents) ListOrganizedBy(_ context.Context, userID string, limit int) ([]models.OrganizedEvent, error) {
	out := []models.OrganizedEvent{}
	for _, e := range f.sorted() {
		if e.OrganizerID != userID {
			continue
		}
		count := 0
		for _, r := range f.w.regs {
			if r.EventID == e.ID {
				count++
			}
		}
		out = append(out, models.OrganizedEvent{Event: e, RegistrationCount: count})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeEvents) ListJudgedBy(_ context.Context, userID string, limit int) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range f.sorted() {
		if f.w.judges[e.ID][userID] {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// registrations

type fakeRegistrations struct{ w *world }

func (f fakeRegistrations) Create(_ context.Context, eventID, userID string) (*models.Registration, error) {
	if _, ok := f.w.regs[regKey(eventID, userID)]; ok {
		return nil, apperrors.NewConflictError("already registered")
	}
	f.w.register(eventID, userID)
	return f.w.regs[regKey(eventID, userID)], nil
}

func (f fakeRegistrations) Exists(_ context.Context, eventID, userID string) (bool, error) {
	_, ok := f.w.regs[regKey(eventID, userID)]
	return ok, nil
}

func (f fakeRegistrations) Withdraw(_ context.Context, eventID, userID string) error {
	if _, ok := f.w.regs[regKey(eventID, userID)]; !ok {
		return apperrors.NewResourceNotFoundError("registration not found")
	}
	delete(f.w.regs, regKey(eventID, userID))
	for teamID, team := range f.w.teams {
		if team.EventID != eventID {
			continue
		}
		kept := []models.TeamMember{}
		for _, m := range f.w.members[teamID] {
			if m.UserID != userID {
				kept = append(kept, m)
			}
		}
		f.w.members[teamID] = kept
		for _, inv := range f.w.invites {
			if inv.TeamID == teamID && inv.InviteeID == userID && inv.Status == models.InvitePending {
				inv.Status = models.InviteDeclined
			}
		}
	}
	return nil
}

func (f fakeRegistrations) ListByEvent(_ context.Context, eventID string) ([]models.RegistrationView, error) {
	out := []models.RegistrationView{}
	for _, r := range f.w.regs {
		if r.EventID == eventID {
			out = append(out, models.RegistrationView{Registration: *r, User: f.w.summary(r.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeRegistrations) ListByUser(_ context.Context, userID string) ([]models.RegistrationEvent, error) {
	out := []models.RegistrationEvent{}
	for _, r := range f.w.regs {
		if r.UserID == userID {
			out = append(out, models.RegistrationEvent{Registration: *r, Event: *f.w.events[r.EventID]})
		}
	}
	return out, nil
}

// teams

type fakeTeams struct{ w *world }

func (f fakeTeams) Create(_ context.Context, t *models.Team) error {
	for _, existing := range f.w.teams {
		if existing.EventID == t.EventID && existing.OwnerID == t.OwnerID {
			return apperrors.NewConflictError("you already own a team in this event")
		}
	}
	t.ID = f.w.nextID("team")
	t.CreatedAt = f.w.tick()
	copied := *t
	f.w.teams[t.ID] = &copied
	f.w.members[t.ID] = []models.TeamMember{{TeamID: t.ID, UserID: t.OwnerID, User: f.w.summary(t.OwnerID)}}
	return nil
}

func (f fakeTeams) FindByID(_ context.Context, id string) (*models.Team, error) {
	if t, ok := f.w.teams[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeTeams) OwnsTeamInEvent(_ context.Context, eventID, userID string) (bool, error) {
	for _, t := range f.w.teams {
		if t.EventID == eventID && t.OwnerID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeTeams) Rename(_ context.Context, id, name string) (*models.Team, error) {
	t, ok := f.w.teams[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	t.Name = name
	copied := *t
	return &copied, nil
}

func (f fakeTeams) Delete(_ context.Context, id string) error {
	if _, ok := f.w.teams[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.w.teams, id)
	delete(f.w.members, id)
	return nil
}

func (f fakeTeams) ListMembers(_ context.Context, teamID string) ([]models.TeamMember, error) {
	return append([]models.TeamMember{}, f.w.members[teamID]...), nil
}

func (f fakeTeams) ListByEvent(_ context.Context, eventID string) ([]models.Team, map[string][]models.TeamMember, error) {
	teams := []models.Team{}
	members := map[string][]models.TeamMember{}
	for _, t := range f.w.teams {
		if t.EventID == eventID {
			teams = append(teams, *t)
			members[t.ID] = f.w.members[t.ID]
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, members, nil
}

func (f fakeTeams) IsMember(_ context.Context, teamID, userID string) (bool, error) {
	return f.w.isMember(teamID, userID), nil
}

func (f fakeTeams) IsMemberInEvent(_ context.Context, eventID, userID string) (bool, error) {
	for id, t := range f.w.teams {
		if t.EventID == eventID && f.w.isMember(id, userID) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeTeams) AddMember(_ context.Context, teamID, userID string) error {
	if !f.w.isMember(teamID, userID) {
		f.w.addMember(teamID, userID)
	}
	return nil
}

func (f fakeTeams) RemoveMember(_ context.Context, teamID, userID string) (bool, error) {
	if !f.w.isMember(teamID, userID) {
		return false, nil
	}
	kept := []models.TeamMember{}
	for _, m := range f.w.members[teamID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.w.members[teamID] = kept
	return true, nil
}

// invites

type fakeInvites struct{ w *world }

func (f fakeInvites) FindByID(_ context.Context, id string) (*models.TeamInvite, error) {
	if inv, ok := f.w.invites[id]; ok {
		copied := *inv
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeInvites) FindPending(_ context.Context, teamID, inviteeID string) (*models.TeamInvite, error) {
	for _, inv := range f.w.invites {
		if inv.TeamID == teamID && inv.InviteeID == inviteeID && inv.Status == models.InvitePending {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeInvites) Create(ctx context.Context, teamID, inviterID, inviteeID string) (*models.TeamInvite, bool, error) {
	if existing, err := f.FindPending(ctx, teamID, inviteeID); err == nil {
		return existing, false, nil
	}
	now := f.w.tick()
	inv := &models.TeamInvite{
		ID:        f.w.nextID("inv"),
		TeamID:    teamID,
		InviterID: inviterID,
		InviteeID: inviteeID,
		Status:    models.InvitePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.w.invites[inv.ID] = inv
	copied := *inv
	return &copied, true, nil
}

func (f fakeInvites) transition(id string, status models.InviteStatus) (*models.TeamInvite, error) {
	inv, ok := f.w.invites[id]
	if !ok || inv.Status != models.InvitePending {
		return nil, apperrors.NewConflictError("invite already processed")
	}
	inv.Status = status
	copied := *inv
	return &copied, nil
}

func (f fakeInvites) Decline(_ context.Context, id string) (*models.TeamInvite, error) {
	return f.transition(id, models.InviteDeclined)
}

func (f fakeInvites) Accept(_ context.Context, id string) (*models.TeamInvite, error) {
	inv, err := f.transition(id, models.InviteAccepted)
	if err != nil {
		return nil, err
	}
	if !f.w.isMember(inv.TeamID, inv.InviteeID) {
		f.w.addMember(inv.TeamID, inv.InviteeID)
	}
	return inv, nil
}

func (f fakeInvites) views(match func(*models.TeamInvite) bool) []models.InviteView {
	out := []models.InviteView{}
	for _, inv := range f.w.invites {
		if !match(inv) {
			continue
		}
		team := f.w.teams[inv.TeamID]
		out = append(out, models.InviteView{
			TeamInvite: *inv,
			TeamName:   team.Name,
			EventID:    team.EventID,
			EventTitle: f.w.events[team.EventID].Title,
			Invitee:    f.w.summary(inv.InviteeID),
			Inviter:    f.w.summary(inv.InviterID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f fakeInvites) ListByTeam(_ context.Context, teamID string) ([]models.InviteView, error) {
	return f.views(func(inv *models.TeamInvite) bool { return inv.TeamID == teamID }), nil
}

func (f fakeInvites) ListPendingForUser(_ context.Context, userID string) ([]models.InviteView, error) {
	return f.views(func(inv *models.TeamInvite) bool {
		return inv.InviteeID == userID && inv.Status == models.InvitePending
	}), nil
}

// rounds and scores

type fakeRounds struct{ w *world }

func (f fakeRounds) Create(_ context.Context, r *models.Round) error {
	for _, existing := range f.w.rounds {
		if existing.EventID == r.EventID && existing.Index == r.Index {
			return apperrors.NewConflictError("a round with this index already exists")
		}
	}
	r.ID = f.w.nextID("round")
	r.CreatedAt = f.w.tick()
	copied := *r
	f.w.rounds[r.ID] = &copied
	return nil
}

func (f fakeRounds) FindByID(_ context.Context, id string) (*models.Round, error) {
	if r, ok := f.w.rounds[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeRounds) ListByEvent(_ context.Context, eventID string) ([]models.Round, error) {
	out := []models.Round{}
	for _, r := range f.w.rounds {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

type fakeScores struct{ w *world }

func (f fakeScores) Upsert(_ context.Context, s *models.Score) error {
	for _, existing := range f.w.scores {
		if existing.SubmissionID == s.SubmissionID && existing.RoundID == s.RoundID && existing.JudgeID == s.JudgeID {
			existing.Score, existing.Feedback = s.Score, s.Feedback
			existing.UpdatedAt = f.w.tick()
			*s = *existing
			return nil
		}
	}
	s.ID = f.w.nextID("score")
	s.CreatedAt = f.w.tick()
	s.UpdatedAt = s.CreatedAt
	copied := *s
	f.w.scores = append(f.w.scores, &copied)
	return nil
}

func (f fakeScores) ListBySubmission(_ context.Context, submissionID string) ([]models.ScoreView, error) {
	out := []models.ScoreView{}
	for _, s := range f.w.scores {
		if s.SubmissionID == submissionID {
			out = append(out, models.ScoreView{Score: *s, Judge: f.w.summary(s.JudgeID)})
		}
	}
	return out, nil
}

// documents

type fakeSubmissions struct{ w *world }

func (f fakeSubmissions) Create(_ context.Context, s *models.Submission) error {
	for _, existing := range f.w.subs {
		if existing.EventID == s.EventID && existing.TeamID == s.TeamID {
			return apperrors.NewConflictError("this team has already submitted a project")
		}
	}
	s.ID = primitive.NewObjectID()
	s.CreatedAt = f.w.tick()
	copied := *s
	f.w.subs[s.ID.Hex()] = &copied
	return nil
}

func (f fakeSubmissions) FindByEventAndTeam(_ context.Context, eventID, teamID string) (*models.Submission, error) {
	for _, s := range f.w.subs {
		if s.EventID == eventID && s.TeamID == teamID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeSubmissions) FindByID(_ context.Context, id string) (*models.Submission, error) {
	if s, ok := f.w.subs[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeSubmissions) ListByEvent(_ context.Context, eventID string) ([]models.Submission, error) {
	out := []models.Submission{}
	for _, s := range f.w.subs {
		if s.EventID == eventID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeSubmissions) DeleteByEvent(_ context.Context, eventID string) error {
	for id, s := range f.w.subs {
		if s.EventID == eventID {
			delete(f.w.subs, id)
		}
	}
	return nil
}

func (w *world) addSubmission(eventID, teamID string) *models.Submission {
	s := &models.Submission{ID: primitive.NewObjectID(), EventID: eventID, TeamID: teamID, ProjectName: "Project " + teamID, CreatedAt: w.tick()}
	w.subs[s.ID.Hex()] = s
	return s
}

type fakeAnnouncements struct {
	w   *world
	err error
}

func (f fakeAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	if f.err != nil {
		return f.err
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = f.w.tick()
	copied := *a
	f.w.anns = append(f.w.anns, &copied)
	return nil
}

func (f fakeAnnouncements) ListByEvent(_ context.Context, eventID string) ([]models.Announcement, error) {
	out := []models.Announcement{}
	for i := len(f.w.anns) - 1; i >= 0; i-- {
		if f.w.anns[i].EventID == eventID {
			out = append(out, *f.w.anns[i])
		}
	}
	return out, nil
}

func (f fakeAnnouncements) DeleteByEvent(_ context.Context, eventID string) error {
	kept := []*models.Announcement{}
	for _, a := range f.w.anns {
		if a.EventID != eventID {
			kept = append(kept, a)
		}
	}
	f.w.anns = kept
	return nil
}

func (w *world) authz() *auth.AuthorizationService {
	return auth.NewAuthorizationService(fakeEvents{w}, fakeTeams{w})
}
