package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
)

// RegistrationController handles event registrations
type RegistrationController struct {
	registrationService services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

// Register registers the caller for an event
// @Summary Register for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/register [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	registration, err := c.registrationService.Register(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registration))
}

// Unregister withdraws the caller from an event
// @Summary Unregister from an event
// @Description Removes the registration, leaves every team of the event and declines pending invites. Team owners must delete their team first.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse "Unregistered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Caller still owns a team"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/register [delete]
func (c *RegistrationController) Unregister(ctx *gin.Context) {
	if err := c.registrationService.Unregister(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("unregistered"))
}

// RegistrationStatus reports whether the caller is registered
// @Summary Registration status
// @Description Anonymous callers always get false
// @Tags registrations
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse} "Status"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registration-status [get]
func (c *RegistrationController) RegistrationStatus(ctx *gin.Context) {
	registered, err := c.registrationService.IsRegistered(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RegistrationStatusResponse{IsRegistered: registered}))
}

// ListRegistrations lists an event's registrations
// @Summary List registrations
// @Description Organizer and judges only
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RegistrationResponse} "Registrations"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Caller is not event staff"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	registrations, err := c.registrationService.ListRegistrations(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registrations))
}
