package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// JudgingController handles rounds and scores
type JudgingController struct {
	judgingService services.JudgingService
}

// NewJudgingController creates a new JudgingController
func NewJudgingController(judgingService services.JudgingService) *JudgingController {
	return &JudgingController{
		judgingService: judgingService,
	}
}

// requiredQuery reads a mandatory query parameter, writing a 400 when it is missing
func requiredQuery(ctx *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(ctx.Query(name))
	if value == "" {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, name+" is required"))
		return "", false
	}
	return value, true
}

// CreateRound creates a judging round
// @Summary Create a round
// @Tags judging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoundRequest true "Round"
// @Success 201 {object} dto.APIResponse{data=dto.RoundResponse} "Round created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Round index already used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds [post]
func (c *JudgingController) CreateRound(ctx *gin.Context) {
	var req dto.CreateRoundRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	round, err := c.judgingService.CreateRound(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(round))
}

// ListRounds lists an event's rounds
// @Summary List rounds
// @Tags judging
// @Produce json
// @Security BearerAuth
// @Param eventId query string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RoundResponse} "Rounds ordered by index"
// @Failure 400 {object} dto.ErrorResponse "Missing eventId"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds [get]
func (c *JudgingController) ListRounds(ctx *gin.Context) {
	eventID, ok := requiredQuery(ctx, "eventId")
	if !ok {
		return
	}

	rounds, err := c.judgingService.ListRounds(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rounds))
}

// SubmitScore records the caller's score for a submission
// @Summary Score a submission
// @Description Judges only. Scoring the same submission and round again overwrites the previous score.
// @Tags judging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScoreRequest true "Score"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreResponse} "Score saved"
// @Failure 400 {object} dto.ErrorResponse "Score out of range or round of another event"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not a judge"
// @Failure 404 {object} dto.ErrorResponse "Submission or round not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scores [post]
func (c *JudgingController) SubmitScore(ctx *gin.Context) {
	var req dto.CreateScoreRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	score, err := c.judgingService.SubmitScore(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(score))
}

// ListScores lists the scores of a submission
// @Summary List scores
// @Description Organizer and judges of the submission's event only
// @Tags judging
// @Produce json
// @Security BearerAuth
// @Param submissionId query string true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScoreResponse} "Scores"
// @Failure 400 {object} dto.ErrorResponse "Missing submissionId"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not event staff"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scores [get]
func (c *JudgingController) ListScores(ctx *gin.Context) {
	submissionID, ok := requiredQuery(ctx, "submissionId")
	if !ok {
		return
	}

	scores, err := c.judgingService.ListScores(ctx.Request.Context(), middleware.GetUserID(ctx), submissionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scores))
}
