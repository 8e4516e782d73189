package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// SubmissionController handles project submissions
type SubmissionController struct {
	submissionService services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService services.SubmissionService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
	}
}

// CreateSubmission submits a team's project
// @Summary Submit a project
// @Description One submission per team. The repository must live on a recognized code host.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not on the team"
// @Failure 404 {object} dto.ErrorResponse "Event or team not found"
// @Failure 409 {object} dto.ErrorResponse "Team already submitted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	var req dto.CreateSubmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	submission, err := c.submissionService.CreateSubmission(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(submission))
}

// GetSubmissions returns a team's submission or the judging view
// @Summary Get submissions
// @Description With teamId, returns that team's submission (data is null when there is none). With judge=true, returns every submission of the event with its team; judges and the organizer only.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param teamId query string false "Team ID"
// @Param judge query bool false "Judging view"
// @Success 200 {object} dto.APIResponse{data=[]dto.JudgeSubmissionResponse} "Submissions"
// @Failure 400 {object} dto.ErrorResponse "Neither teamId nor judge given"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not a judge"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/submissions [get]
func (c *SubmissionController) GetSubmissions(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if judge, _ := strconv.ParseBool(ctx.Query("judge")); judge {
		submissions, err := c.submissionService.ListForJudging(ctx.Request.Context(), middleware.GetUserID(ctx), eventID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(submissions))
		return
	}

	teamID := strings.TrimSpace(ctx.Query("teamId"))
	if teamID == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("teamId or judge=true is required"))
		return
	}

	submission, err := c.submissionService.GetTeamSubmission(ctx.Request.Context(), eventID, teamID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// a nil pointer still serializes as data: null
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(submission))
}
