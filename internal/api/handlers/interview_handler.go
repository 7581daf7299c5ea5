package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/services"
	"github.com/hirestack/hirestack/internal/utils"
)

type InterviewHandler struct {
	svc   services.InterviewService
	users services.UserService
}

func NewInterviewHandler(svc services.InterviewService, users services.UserService) *InterviewHandler {
	return &InterviewHandler{svc: svc, users: users}
}

func (h *InterviewHandler) Get(c *gin.Context) {
	iv, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}

// ListCompany returns the interviews of the caller's company.
func (h *InterviewHandler) ListCompany(c *gin.Context) {
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

func (h *InterviewHandler) ListAssigned(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListByInterviewer(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *InterviewHandler) ListMine(c *gin.Context) {
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

// ListHired returns the caller's company interviews whose applications
// reached HIRED, the queue for HR document verification.
func (h *InterviewHandler) ListHired(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	emp, err := h.users.GetEmployee(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.ListHired(c.Request.Context(), emp.CompanyID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

type PlanRoundsRequest struct {
	NumberOfRounds int `json:"number_of_rounds" binding:"required"`
}

func (h *InterviewHandler) PlanRounds(c *gin.Context) {
	var req PlanRoundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.PlanRounds", "invalid request body", err))
		return
	}

	iv, err := h.svc.PlanRounds(c.Request.Context(), c.Param("id"), req.NumberOfRounds)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}

type VerificationRequest struct {
	Verified    bool   `json:"verified"`
	Remarks     string `json:"remarks"`
	JoiningDate string `json:"joining_date"` // 2006-01-02
}

func (h *InterviewHandler) ResolveVerification(c *gin.Context) {
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.ResolveVerification", "invalid request body", err))
		return
	}

	in := services.VerificationInput{
		Verified: req.Verified,
		Remarks:  req.Remarks,
	}
	if req.JoiningDate != "" {
		t, err := time.Parse("2006-01-02", req.JoiningDate)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.ResolveVerification", "invalid joining_date", err))
			return
		}
		in.JoiningDate = &t
	}

	iv, err := h.svc.ResolveVerification(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}

// UploadDocument accepts a multipart file under "file" with a "kind" field of
// id_proof, marksheet or address_proof.
func (h *InterviewHandler) UploadDocument(c *gin.Context) {
	kind := c.PostForm("kind")

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.UploadDocument", "missing file", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "InterviewHandler.UploadDocument", "failed to open upload", err))
		return
	}
	defer f.Close()

	iv, err := h.svc.UploadDocument(c.Request.Context(), c.Param("id"), kind,
		fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) SetDocuments(c *gin.Context) {
	var req services.DocumentURLsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SetDocuments", "invalid request body", err))
		return
	}

	iv, err := h.svc.SetDocuments(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}
