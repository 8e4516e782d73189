package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/controllers"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	teamController *controllers.TeamController,
	submissionController *controllers.SubmissionController,
	judgingController *controllers.JudgingController,
	announcementController *controllers.AnnouncementController,
	profileController *controllers.ProfileController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	events := v1.Group("/events")
	{
		events.GET("", eventController.ListEvents)
		events.GET("/search", eventController.SearchEvents)
		events.GET("/:id", eventController.GetEvent)
		events.GET("/:id/announcements/ws", authMiddleware.OptionalIdentity(), wsHandler.HandleConnection)
		events.GET("/:id/registration-status", authMiddleware.OptionalIdentity(), registrationController.RegistrationStatus)
	}
	v1.GET("/announcements", announcementController.ListAnnouncements)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireIdentity())

	// Writes share one per-client budget
	writes := authenticated.Group("")
	writes.Use(rateLimiter.Middleware())

	{
		authenticated.GET("/events/:id/registrations", registrationController.ListRegistrations)
		authenticated.GET("/events/:id/submissions", submissionController.GetSubmissions)

		writes.POST("/events", eventController.CreateEvent)
		writes.PUT("/events/:id", eventController.UpdateEvent)
		writes.DELETE("/events/:id", eventController.DeleteEvent)
		writes.POST("/events/:id/judges", eventController.AddJudge)
		writes.DELETE("/events/:id/judges/:judgeId", eventController.RemoveJudge)
		writes.POST("/events/:id/register", registrationController.Register)
		writes.DELETE("/events/:id/register", registrationController.Unregister)
		writes.POST("/events/:id/submissions", submissionController.CreateSubmission)
	}

	{
		authenticated.GET("/teams/:teamId", teamController.GetTeam)
		authenticated.GET("/teams/:teamId/invites", teamController.ListTeamInvites)
		authenticated.GET("/invites", teamController.ListMyInvites)

		writes.POST("/teams", teamController.CreateTeam)
		writes.PUT("/teams/:teamId", teamController.RenameTeam)
		writes.DELETE("/teams/:teamId", teamController.DeleteTeam)
		writes.POST("/teams/:teamId/members", teamController.AddMember)
		writes.DELETE("/teams/:teamId/members/:memberId", teamController.RemoveMember)
		writes.POST("/teams/:teamId/invites", teamController.InviteMember)
		writes.POST("/invites/:inviteId/respond", teamController.RespondToInvite)
	}

	{
		authenticated.GET("/rounds", judgingController.ListRounds)
		authenticated.GET("/scores", judgingController.ListScores)

		writes.POST("/rounds", judgingController.CreateRound)
		writes.POST("/scores", judgingController.SubmitScore)
		writes.POST("/announcements", announcementController.CreateAnnouncement)
	}

	{
		authenticated.GET("/profile", profileController.GetProfile)
		authenticated.GET("/users/find", profileController.FindUser)
		authenticated.GET("/dashboard", profileController.Dashboard)

		writes.PUT("/profile", profileController.UpdateProfile)
		writes.DELETE("/profile", profileController.DeleteProfile)
		writes.POST("/uploads", profileController.Upload)
	}
}
