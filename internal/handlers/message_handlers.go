package handlers

import (
	"net/http"

	"bookingportal/internal/logging"
	"bookingportal/internal/services"

	"github.com/labstack/echo/v4"
)

// MessageHandlers serves the per-booking message log
type MessageHandlers struct {
	bookingService services.BookingService
	logger         logging.Logger
}

func NewMessageHandlers(bookingService services.BookingService, logger logging.Logger) *MessageHandlers {
	return &MessageHandlers{
		bookingService: bookingService,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// ListBookings godoc
// @Summary List the bookings the user has messaged on, latest activity first
// @Tags messages
// @Produce json
// @Success 200 {array} models.BookingSummary
// @Failure 401 {object} echo.HTTPError
// @Router /api/messages [get]
func (h *MessageHandlers) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	summaries, err := h.bookingService.ListBookingSummaries(ctx, user.ID)
	if err != nil {
		return serviceError(ctx, h.logger, "list message bookings", err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// ListMessages godoc
// @Summary List a booking's messages, oldest first
// @Tags messages
// @Produce json
// @Param bookingUuid path string true "Booking UUID"
// @Success 200 {array} models.BookingMessageWithAuthor
// @Failure 401 {object} echo.HTTPError
// @Router /api/messages/{bookingUuid} [get]
func (h *MessageHandlers) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	bookingUUID, err := pathParam(c, "bookingUuid", "Booking UUID")
	if err != nil {
		return err
	}

	messages, err := h.bookingService.ListMessages(ctx, bookingUUID)
	if err != nil {
		return serviceError(ctx, h.logger, "list messages", err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Post a message on a booking
// @Tags messages
// @Accept json
// @Produce json
// @Param bookingUuid path string true "Booking UUID"
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} models.BookingMessage
// @Failure 400 {object} echo.HTTPError
// @Failure 401 {object} echo.HTTPError
// @Router /api/messages/{bookingUuid} [post]
func (h *MessageHandlers) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	bookingUUID, err := pathParam(c, "bookingUuid", "Booking UUID")
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	message, err := h.bookingService.SendMessage(ctx, user, bookingUUID, req.Message)
	if err != nil {
		return serviceError(ctx, h.logger, "send message", err)
	}
	return c.JSON(http.StatusCreated, message)
}
