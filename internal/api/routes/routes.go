package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/api/handlers"
	"github.com/hirestack/hirestack/internal/api/middleware"
	"github.com/hirestack/hirestack/internal/models"
)

type Deps struct {
	Applications  *handlers.ApplicationHandler
	Interviews    *handlers.InterviewHandler
	Rounds        *handlers.RoundHandler
	Jobs          *handlers.JobHandler
	Skills        *handlers.SkillHandler
	Notifications *handlers.NotificationHandler
	Users         *handlers.UserHandler
	WS            *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	recruiter := middleware.RequireRole(models.RoleRecruiter)
	candidate := middleware.RequireRole(models.RoleCandidate)
	interviewer := middleware.RequireRole(models.RoleInterviewer)
	hr := middleware.RequireRole(models.RoleHR)

	// applications
	auth.POST("/applications", candidate, d.Applications.Apply)
	auth.GET("/applications/me", candidate, d.Applications.ListMine)
	auth.GET("/applications/:id", recruiter, d.Applications.Get)
	auth.PATCH("/applications/:id/status", recruiter, d.Applications.UpdateStatus)

	// interviews and rounds
	auth.GET("/interviews", recruiter, d.Interviews.ListCompany)
	auth.GET("/interviews/assigned", interviewer, d.Interviews.ListAssigned)
	auth.GET("/interviews/me", candidate, d.Interviews.ListMine)
	auth.GET("/interviews/hired", hr, d.Interviews.ListHired)
	auth.GET("/interviews/:id", middleware.RequireRole(models.RoleRecruiter, models.RoleHR, models.RoleInterviewer), d.Interviews.Get)
	auth.POST("/interviews/:id/rounds", recruiter, d.Interviews.PlanRounds)
	auth.POST("/interviews/:id/verification", hr, d.Interviews.ResolveVerification)
	auth.POST("/interviews/:id/documents", candidate, d.Interviews.UploadDocument)
	auth.PATCH("/interviews/:id/documents", candidate, d.Interviews.SetDocuments)

	auth.POST("/rounds/:id/assign", recruiter, d.Rounds.Assign)
	auth.POST("/rounds/:id/feedback", interviewer, d.Rounds.SubmitFeedback)
	auth.PATCH("/rounds/:id", middleware.RequireRole(models.RoleRecruiter, models.RoleInterviewer), d.Rounds.Update)

	// jobs
	auth.POST("/jobs", recruiter, d.Jobs.Create)
	auth.GET("/jobs/open", d.Jobs.ListOpen)
	auth.GET("/jobs/company", recruiter, d.Jobs.ListCompany)
	auth.GET("/jobs/:id", d.Jobs.Get)
	auth.PATCH("/jobs/:id", recruiter, d.Jobs.Update)
	auth.POST("/jobs/:id/close", recruiter, d.Jobs.Close)
	auth.DELETE("/jobs/:id", recruiter, d.Jobs.Delete)
	auth.POST("/jobs/:id/auto-match", recruiter, d.Jobs.AutoMatch)
	auth.GET("/jobs/:id/applications", recruiter, d.Applications.ListByJob)

	// skills
	auth.GET("/skills", d.Skills.List)
	auth.POST("/skills", recruiter, d.Skills.Create)

	// users
	auth.POST("/users/invite", recruiter, d.Users.Invite)
	auth.PUT("/candidates/me", candidate, d.Users.UpsertCandidateProfile)

	// notifications
	auth.GET("/notifications", d.Notifications.List)
	auth.POST("/notifications/:id/read", d.Notifications.MarkRead)

	// WebSocket
	auth.GET("/ws/notifications", d.WS.NotificationsWS)
}
