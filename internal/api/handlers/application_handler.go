package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/services"
	"github.com/hirestack/hirestack/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type ApplyRequest struct {
	JobID          string `json:"job_id" binding:"required"`
	ResumeFilePath string `json:"resume_file_path"`
	CoverLetter    string `json:"cover_letter"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Apply", "invalid request body", err))
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), services.ApplyInput{
		JobID:           req.JobID,
		CandidateUserID: userID,
		ResumeFilePath:  req.ResumeFilePath,
		CoverLetter:     req.CoverLetter,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListByCandidate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	rows, err := h.svc.ListByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

type UpdateStatusRequest struct {
	Status         string              `json:"status" binding:"required"`
	Remarks        string              `json:"remarks"`
	SkillsWithYoe  []services.SkillYoe `json:"skills_with_yoe"`
	NumberOfRounds int                 `json:"number_of_rounds"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "invalid request body", err))
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), services.StatusUpdateInput{
		Status:         req.Status,
		Remarks:        req.Remarks,
		SkillsWithYoe:  req.SkillsWithYoe,
		NumberOfRounds: req.NumberOfRounds,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
