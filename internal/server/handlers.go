package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/insight"
	"github.com/AKakshat1729/AGI-119/internal/logger"
)

type handlers struct {
	engine   *clinical.Engine
	insights *insight.Service
	log      *logger.Logger
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type ingestRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	SessionID    string `json:"session_id" binding:"required"`
	Transcript   string `json:"transcript"`
	MessageCount int    `json:"message_count" binding:"gte=0"`
}

// ingestSession queues a finished session and answers 202 straight away.
// Queued reports whether the job was accepted; processing errors are never
// visible to the caller.
func (h *handlers) ingestSession(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	queued := h.engine.ProcessSessionAsync(req.UserID, req.SessionID, req.Transcript, req.MessageCount)
	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}

type safetyRequest struct {
	Text string `json:"text"`
}

func (h *handlers) checkSafety(c *gin.Context) {
	var req safetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.engine.CheckSafety(req.Text))
}

// The read endpoints always answer 200; failures travel as success:false.

func (h *handlers) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetDashboardData(c.Request.Context(), c.Param("userID")))
}

func (h *handlers) medicalReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetMedicalReport(c.Request.Context(), c.Param("userID")))
}

func (h *handlers) riskAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetRiskAlerts(c.Request.Context(), c.Param("userID")))
}

func (h *handlers) memoryContext(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetMemoryContext(c.Request.Context(), c.Param("userID")))
}

func (h *handlers) userInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.ForUser(c.Request.Context(), h.engine, c.Param("userID")))
}
