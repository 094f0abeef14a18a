package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"reflection-backend/internal/ratelimit"
	"reflection-backend/internal/reset"
)

type ResetHandler struct {
	Service *reset.Service
	Limiter *ratelimit.Limiter
}

type resetStartRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetVerifyRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func NewResetHandler(service *reset.Service, limiter *ratelimit.Limiter) *ResetHandler {
	return &ResetHandler{Service: service, Limiter: limiter}
}

func (h *ResetHandler) Start(c *gin.Context) {
	var req resetStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "code": reset.KindInvalidArgument})
		return
	}

	normalized, err := reset.NormalizeEmail(req.Email)
	if err != nil {
		writeResetError(c, err)
		return
	}

	allowed, retryAfter, err := h.Limiter.Allow(c.Request.Context(), normalized)
	if err != nil {
		log.Printf("reset rate limit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again", "code": reset.KindInternal})
		return
	}
	if !allowed {
		c.Header("Retry-After", formatRetryAfter(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many reset requests, please wait before retrying"})
		return
	}

	if err := h.Service.Start(c.Request.Context(), normalized); err != nil {
		log.Printf("reset start error: %v", err)
		writeResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "if the account exists, a code has been sent"})
}

func (h *ResetHandler) Verify(c *gin.Context) {
	var req resetVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "code": reset.KindInvalidArgument})
		return
	}

	if err := h.Service.Complete(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		if reset.KindOf(err) == reset.KindInternal {
			log.Printf("reset verify error: %v", err)
		}
		writeResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password reset successful"})
}

func writeResetError(c *gin.Context, err error) {
	kind := reset.KindOf(err)
	c.JSON(resetStatus(kind), gin.H{"error": reset.Message(err), "code": kind})
}

func resetStatus(kind reset.Kind) int {
	switch kind {
	case reset.KindInvalidArgument:
		return http.StatusBadRequest
	case reset.KindNotFound:
		return http.StatusNotFound
	case reset.KindDeadlineExceeded:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func formatRetryAfter(d time.Duration) string {
	seconds := int(d.Round(time.Second).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
