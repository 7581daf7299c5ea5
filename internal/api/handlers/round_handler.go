package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/services"
	"github.com/hirestack/hirestack/internal/utils"
)

type RoundHandler struct {
	svc services.InterviewService
}

func NewRoundHandler(svc services.InterviewService) *RoundHandler {
	return &RoundHandler{svc: svc}
}

type AssignRequest struct {
	UserIDs []string `json:"user_ids" binding:"required"`
}

func (h *RoundHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoundHandler.Assign", "invalid request body", err))
		return
	}

	round, err := h.svc.AssignToRound(c.Request.Context(), c.Param("id"), req.UserIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

type UpdateRoundRequest struct {
	ScheduledAt *string                  `json:"scheduled_at"` // RFC 3339
	MeetingLink *string                  `json:"meeting_link"`
	Status      *string                  `json:"status"`
	Comments    *string                  `json:"comments"`
	Feedbacks   []services.FeedbackEntry `json:"feedbacks"`
}

func (h *RoundHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoundHandler.Update", "invalid request body", err))
		return
	}

	in := services.RoundUpdateInput{
		MeetingLink: req.MeetingLink,
		Status:      req.Status,
		Comments:    req.Comments,
		Feedbacks:   req.Feedbacks,
	}
	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "RoundHandler.Update", "invalid scheduled_at", err))
			return
		}
		in.ScheduledAt = &t
	}

	round, err := h.svc.UpdateRound(c.Request.Context(), c.Param("id"), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

type FeedbackRequest struct {
	Entries []services.FeedbackEntry `json:"entries" binding:"required"`
}

func (h *RoundHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoundHandler.SubmitFeedback", "invalid request body", err))
		return
	}

	if err := h.svc.SubmitFeedback(c.Request.Context(), c.Param("id"), userID, req.Entries); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
