package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/services"
	"github.com/hirestack/hirestack/internal/utils"
)

type JobHandler struct {
	svc     services.JobService
	matcher services.MatcherService
	users   services.UserService
}

func NewJobHandler(svc services.JobService, matcher services.MatcherService, users services.UserService) *JobHandler {
	return &JobHandler{svc: svc, matcher: matcher, users: users}
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.JobCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req services.JobUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Update", "invalid request body", err))
		return
	}

	job, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Close(c *gin.Context) {
	var req services.JobCloseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Close", "invalid request body", err))
		return
	}

	job, err := h.svc.Close(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListOpen(c *gin.Context) {
	rows, err := h.svc.ListOpen(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *JobHandler) ListCompany(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	emp, err := h.users.GetEmployee(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.ListByCompany(c.Request.Context(), emp.CompanyID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// AutoMatch runs the skill matcher over a job the caller's company owns.
func (h *JobHandler) AutoMatch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	job, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	emp, err := h.users.GetEmployee(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if emp.CompanyID != job.CompanyID {
		writeError(c, utils.E(utils.CodeForbidden, "JobHandler.AutoMatch", "forbidden", nil))
		return
	}

	matched, err := h.matcher.AutoMatch(c.Request.Context(), job.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matched": matched})
}
