package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BookClass godoc
// @Summary      Book a class
// @Description  Reserves a seat in the class for the current user.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      201      {object}  Booking
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /classes/{classID}/book [post]
func (h *Handler) BookClass(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, classID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoActiveSubscription):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription; contact the studio to activate a plan"})
		case errors.Is(err, ErrPaymentPending):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Subscription payment is pending; only a paid subscription holds a seat"})
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		case errors.Is(err, ErrOutsideSubscriptionPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Class is outside the current subscription period"})
		case errors.Is(err, ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": "No seats available"})
		case errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{"error": "You already have a booking for this class"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels the caller's booking; refused under 3 hours before class start.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  CancelBookingResponse
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	err = h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		case errors.Is(err, ErrTooLateToCancel):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bookings cannot be cancelled under 3 hours before class start"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{Message: "Booking cancelled"})
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithClass
// @Failure      500  {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByClass godoc
// @Summary      List bookings for a class
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {array}   BookingWithUser
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes/{classID}/bookings [get]
func (h *Handler) ListBookingsByClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	bookings, err := h.service.ListByClass(c.Request.Context(), classID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
