package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// ProfileController handles the caller's account, the user directory, the dashboard and uploads
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// GetProfile returns the caller's profile
// @Summary Get my profile
// @Description Profile with activity counts and up to three recent organized and judged events
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateProfile updates the caller's profile
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or no fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// DeleteProfile deletes the caller's account
// @Summary Delete my account
// @Description Refused while the caller organizes events or owns teams
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Account deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Caller still organizes events or owns teams"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [delete]
func (c *ProfileController) DeleteProfile(ctx *gin.Context) {
	if err := c.profileService.DeleteProfile(ctx.Request.Context(), middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("account deleted"))
}

// FindUser looks a user up by email
// @Summary Find a user by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email address"
// @Success 200 {object} dto.APIResponse{data=dto.UserLookupResponse} "User"
// @Failure 400 {object} dto.ErrorResponse "Missing email"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/find [get]
func (c *ProfileController) FindUser(ctx *gin.Context) {
	email, ok := requiredQuery(ctx, "email")
	if !ok {
		return
	}

	user, err := c.profileService.FindByEmail(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// Dashboard returns the caller's overview
// @Summary Get my dashboard
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (c *ProfileController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.profileService.Dashboard(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard))
}

// Upload stores an image
// @Summary Upload an image
// @Description Accepts JPEG, PNG, GIF and WebP images up to the configured size and returns their public URL
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse} "File stored"
// @Failure 400 {object} dto.ErrorResponse "Missing file, unsupported type or too large"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /uploads [post]
func (c *ProfileController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file", "file is required"))
		return
	}

	upload, err := c.profileService.Upload(ctx.Request.Context(), middleware.GetUserID(ctx), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(upload))
}
