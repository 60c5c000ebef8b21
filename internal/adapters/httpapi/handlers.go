package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	submitSuccessMessage = "Thank you for your message! I'll get back to you soon."
)

// ContactAPI is the part of the contact service the HTTP API depends on
type ContactAPI interface {
	Submit(ctx context.Context, sub *core.Submission) (*core.ContactMessage, error)
	Analyze(ctx context.Context, sub *core.Submission) *core.AnalysisResult
	ListMessages(ctx context.Context, filter core.MessageFilter) ([]*core.ContactMessage, error)
	GetMessage(ctx context.Context, id string) (*core.ContactMessage, error)
	MarkMessage(ctx context.Context, id string, status core.MessageStatus) (*core.ContactMessage, error)
	RecordVisit(ctx context.Context) (int64, error)
	VisitorCount(ctx context.Context) (int64, error)
	RecordResumeDownload(ctx context.Context, download *core.ResumeDownload) (int64, error)
	ResumeDownloadCount(ctx context.Context) (int64, error)
}

var _ ContactAPI = (*core.ContactService)(nil)

// ProfileAPI serves the developer profile statistics
type ProfileAPI interface {
	Stats(ctx context.Context) (*core.ProfileStats, error)
}

var _ ProfileAPI = (*core.ProfileService)(nil)

type handler struct {
	svc     ContactAPI
	profile ProfileAPI
	logger  *zap.Logger
}

type submissionRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r submissionRequest) submission() *core.Submission {
	return &core.Submission{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
		Source:  core.SourceWeb,
	}
}

type statusRequest struct {
	Status core.MessageStatus `json:"status" binding:"required"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) submitContactForm(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	msg, err := h.svc.Submit(c.Request.Context(), req.submission())
	if err != nil {
		if errors.Is(err, core.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "all fields are required and email must be valid"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    submitSuccessMessage,
		"id":         msg.ID,
		"email_sent": msg.EmailSent,
		"analysis":   msg.Analysis,
	})
}

func (h *handler) analyzeMessage(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.svc.Analyze(c.Request.Context(), req.submission()))
}

// visitorCount increments the counter unless peek is set, then reports it
func (h *handler) visitorCount(c *gin.Context) {
	record := h.svc.RecordVisit
	if peek, _ := strconv.ParseBool(c.Query("peek")); peek {
		record = h.svc.VisitorCount
	}
	n, err := record(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update visitor count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *handler) trackResumeDownload(c *gin.Context) {
	ua := c.Request.UserAgent()
	total, err := h.svc.RecordResumeDownload(c.Request.Context(), &core.ResumeDownload{
		UserAgent:  ua,
		Referrer:   c.Request.Referer(),
		ClientHash: core.ClientHash(c.ClientIP(), ua),
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to track download"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": total})
}

func (h *handler) resumeStats(c *gin.Context) {
	total, err := h.svc.ResumeDownloadCount(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resume stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *handler) listMessages(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	msgs, err := h.svc.ListMessages(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

func (h *handler) getMessage(c *gin.Context) {
	msg, err := h.svc.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *handler) updateMessage(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status is required"})
		return
	}

	msg, err := h.svc.MarkMessage(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, core.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be new, read or archived"})
			return
		}
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *handler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "message not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load message"})
}

func parseFilter(c *gin.Context) (core.MessageFilter, error) {
	filter := core.MessageFilter{
		Priority: core.Priority(c.Query("priority")),
		Category: core.Category(c.Query("category")),
		Status:   core.MessageStatus(c.Query("status")),
		Limit:    defaultListLimit,
	}

	if v := c.Query("spam"); v != "" {
		spam, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("spam must be true or false")
		}
		filter.Spam = &spam
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		filter.Limit = limit
	}

	return filter, nil
}

func (h *handler) githubStats(c *gin.Context) {
	if h.profile == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": core.ErrProfileUnavailable.Error()})
		return
	}
	stats, err := h.profile.Stats(c.Request.Context())
	switch {
	case errors.Is(err, core.ErrProfileUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch GitHub statistics"})
	default:
		c.JSON(http.StatusOK, stats)
	}
}
