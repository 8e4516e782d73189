package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/helpers"
)

// EventController handles event lifecycle operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// CreateEvent handles event creation
// @Summary Create a new event
// @Description Creates a hackathon event. The caller becomes its organizer. tracks, timeline and organizers accept an array, a JSON array string or a comma/newline separated string.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event information"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// GetEvent retrieves a single event
// @Summary Get event details
// @Description Returns the event with its organizer, judges, teams, registrations and FAQs
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Event retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	event, err := c.eventService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// ListEvents retrieves a page of events
// @Summary List events
// @Description Keyset paginated event listing. Pass the returned nextCursor as cursor to fetch the next page.
// @Tags events
// @Produce json
// @Param limit query int false "Page size (1-50)" default(9)
// @Param cursor query string false "ID of the first event of the page"
// @Param sortBy query string false "Sort column" Enums(startAt, createdAt) default(startAt)
// @Param order query string false "Sort direction" Enums(asc, desc) default(asc)
// @Param mode query string false "Filter by mode" Enums(ONLINE, OFFLINE, HYBRID)
// @Success 200 {object} dto.APIResponse{data=dto.EventPageResponse} "Events retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid cursor or mode"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	params := helpers.ParseCursorParams(ctx)

	page, err := c.eventService.ListEvents(ctx.Request.Context(), params, ctx.Query("mode"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page))
}

// SearchEvents runs a full-text event search
// @Summary Search events
// @Description Searches title, description, theme and tracks. Results are ordered by relevance when the search index is enabled.
// @Tags events
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum results (1-50)" default(9)
// @Success 200 {object} dto.APIResponse{data=dto.EventSearchResponse} "Search results"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/search [get]
func (c *EventController) SearchEvents(ctx *gin.Context) {
	limit := helpers.ClampLimit(ctx.Query("limit"))

	result, err := c.eventService.SearchEvents(ctx.Request.Context(), ctx.Query("q"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// UpdateEvent updates an event
// @Summary Update an event
// @Description Partially updates an event. Only the organizer may update it. Sending faqs replaces every FAQ.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// DeleteEvent deletes an event
// @Summary Delete an event
// @Description Deletes an event with its FAQs, judges, registrations, teams, invites and rounds
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	if err := c.eventService.DeleteEvent(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("event deleted"))
}

// AddJudge assigns a judge to an event
// @Summary Add a judge
// @Description Adds a user to the event's judges. Adding an existing judge is a no-op.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.AddJudgeRequest true "Judge"
// @Success 200 {object} dto.APIResponse{data=[]models.UserSummary} "Current judges"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/judges [post]
func (c *EventController) AddJudge(ctx *gin.Context) {
	var req dto.AddJudgeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	judges, err := c.eventService.AddJudge(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"), req.JudgeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(judges))
}

// RemoveJudge removes a judge from an event
// @Summary Remove a judge
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param judgeId path string true "Judge user ID"
// @Success 200 {object} dto.APIResponse "Judge removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/judges/{judgeId} [delete]
func (c *EventController) RemoveJudge(ctx *gin.Context) {
	err := c.eventService.RemoveJudge(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"), ctx.Param("judgeId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("judge removed"))
}
