package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
)

// TeamController handles teams, their members and invites
type TeamController struct {
	teamService   services.TeamService
	inviteService services.InviteService
}

// NewTeamController creates a new TeamController
func NewTeamController(teamService services.TeamService, inviteService services.InviteService) *TeamController {
	return &TeamController{
		teamService:   teamService,
		inviteService: inviteService,
	}
}

// CreateTeam handles team creation
// @Summary Create a team
// @Description Creates a team for an event. The caller must be registered and becomes the owner.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamRequest true "Team information"
// @Success 201 {object} dto.APIResponse{data=dto.TeamResponse} "Team created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or caller not registered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Caller already owns a team in this event"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	var req dto.CreateTeamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	team, err := c.teamService.CreateTeam(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(team))
}

// GetTeam retrieves a team
// @Summary Get team details
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Team retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId} [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
	team, err := c.teamService.GetTeam(ctx.Request.Context(), ctx.Param("teamId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// RenameTeam renames a team
// @Summary Rename a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param request body dto.RenameTeamRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Team renamed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId} [put]
func (c *TeamController) RenameTeam(ctx *gin.Context) {
	var req dto.RenameTeamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	team, err := c.teamService.RenameTeam(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId"), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// DeleteTeam deletes a team
// @Summary Delete a team
// @Description Owner only, and only before the event starts
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Success 200 {object} dto.APIResponse "Team deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 409 {object} dto.ErrorResponse "Event has already started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId} [delete]
func (c *TeamController) DeleteTeam(ctx *gin.Context) {
	if err := c.teamService.DeleteTeam(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("team deleted"))
}

// AddMember adds a registered user to the team
// @Summary Add a team member
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param request body dto.AddMemberRequest true "Member"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Member added"
// @Failure 400 {object} dto.ErrorResponse "Member is not registered for the event"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team or user not found"
// @Failure 409 {object} dto.ErrorResponse "Event has already started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId}/members [post]
func (c *TeamController) AddMember(ctx *gin.Context) {
	var req dto.AddMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	team, err := c.teamService.AddMember(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId"), req.MemberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// RemoveMember removes a member from the team
// @Summary Remove a team member
// @Description The owner cannot be removed
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param memberId path string true "Member user ID"
// @Success 200 {object} dto.APIResponse "Member removed"
// @Failure 400 {object} dto.ErrorResponse "Cannot remove the owner"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team or member not found"
// @Failure 409 {object} dto.ErrorResponse "Event has already started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId}/members/{memberId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	err := c.teamService.RemoveMember(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId"), ctx.Param("memberId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("member removed"))
}

// InviteMember invites a registered user to the team
// @Summary Invite a member
// @Description Identify the invitee by inviteeId or email. An existing pending invite is returned with 200.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param request body dto.InviteMemberRequest true "Invitee"
// @Success 200 {object} dto.APIResponse{data=dto.InviteResponse} "Existing pending invite"
// @Success 201 {object} dto.APIResponse{data=dto.InviteResponse} "Invite created"
// @Failure 400 {object} dto.ErrorResponse "Invitee is not registered for the event"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team or invitee not found"
// @Failure 409 {object} dto.ErrorResponse "Invitee is already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId}/invites [post]
func (c *TeamController) InviteMember(ctx *gin.Context) {
	var req dto.InviteMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	invite, created, err := c.inviteService.InviteMember(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(invite))
}

// ListTeamInvites lists a team's invites
// @Summary List team invites
// @Description Newest first, owner only
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.InviteResponse} "Invites"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/{teamId}/invites [get]
func (c *TeamController) ListTeamInvites(ctx *gin.Context) {
	invites, err := c.inviteService.ListTeamInvites(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("teamId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invites))
}

// ListMyInvites lists the caller's pending invites
// @Summary List my invites
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.InviteResponse} "Pending invites"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invites [get]
func (c *TeamController) ListMyInvites(ctx *gin.Context) {
	invites, err := c.inviteService.ListMyInvites(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invites))
}

// RespondToInvite accepts or declines an invite
// @Summary Respond to an invite
// @Description Accepting joins the team and is only possible before the event starts
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param inviteId path string true "Invite ID"
// @Param request body dto.RespondInviteRequest true "Answer"
// @Success 200 {object} dto.APIResponse{data=dto.InviteResponse} "Invite updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid action"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Failure 409 {object} dto.ErrorResponse "Invite already processed or event started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invites/{inviteId}/respond [post]
func (c *TeamController) RespondToInvite(ctx *gin.Context) {
	var req dto.RespondInviteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	invite, err := c.inviteService.RespondToInvite(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("inviteId"), models.InviteAction(req.Action))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invite))
}
