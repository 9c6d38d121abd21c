package subscription

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Activate godoc
// @Summary      Activate subscription
// @Description  Opens a one-month subscription for a student; supersedes any active one.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ActivateRequest  true  "Activation data"
// @Success      201      {object}  Subscription
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/subscriptions [post]
func (h *Handler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}

	sub, err := h.service.Activate(c.Request.Context(), req.UserID, req.PackageID, startDate)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// RecordPayment godoc
// @Summary      Record subscription payment
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int                   true  "Subscription ID"
// @Param        request         body      RecordPaymentRequest  true  "Payment data"
// @Success      200             {object}  Subscription
// @Failure      400             {object}  gin.H
// @Failure      404             {object}  gin.H
// @Failure      500             {object}  gin.H
// @Router       /admin/subscriptions/{subscriptionID}/payment [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	subscriptionID, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
		return
	}

	sub, err := h.service.RecordPayment(c.Request.Context(), subscriptionID, paymentDate, req.ApplyLateFee)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// MySubscription godoc
// @Summary      Current subscription
// @Description  The caller's active subscription with its computed payment state.
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SubscriptionView
// @Failure      401  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /me/subscription [get]
func (h *Handler) MySubscription(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.service.MySubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListForUser godoc
// @Summary      List a user's subscriptions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {array}   Subscription
// @Failure      400     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /admin/users/{userID}/subscriptions [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	subs, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, subs)
}
