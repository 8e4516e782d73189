package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
)

// AnnouncementController handles organizer announcements
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

// CreateAnnouncement publishes an announcement
// @Summary Publish an announcement
// @Description Stores the announcement and relays it to live subscribers of the event. Relay failures do not fail the request.
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=dto.AnnouncementResponse} "Announcement published"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	announcement, err := c.announcementService.CreateAnnouncement(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(announcement))
}

// ListAnnouncements returns an event's announcement history
// @Summary List announcements
// @Description Newest first
// @Tags announcements
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AnnouncementResponse} "Announcements"
// @Failure 400 {object} dto.ErrorResponse "Missing eventId"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	eventID, ok := requiredQuery(ctx, "eventId")
	if !ok {
		return
	}

	announcements, err := c.announcementService.ListAnnouncements(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(announcements))
}
