package handlers

import (
	"net/http"
	"strings"

	"bookingportal/internal/common"
	"bookingportal/internal/logging"
	"bookingportal/internal/models"
	"bookingportal/internal/services"

	"github.com/labstack/echo/v4"
)

// BookingHandlers proxies booking (ServiceM8 job) data for the logged-in user
type BookingHandlers struct {
	bookingService services.BookingService
	logger         logging.Logger
}

func NewBookingHandlers(bookingService services.BookingService, logger logging.Logger) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		logger:         logger,
	}
}

func currentUser(c echo.Context) (*models.User, error) {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}

func pathParam(c echo.Context, name, label string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, label+" is required")
	}
	return v, nil
}

// ListBookings godoc
// @Summary List the user's bookings with their attachments
// @Tags bookings
// @Produce json
// @Success 200 {array} models.JobWithAttachments
// @Failure 400 {object} echo.HTTPError
// @Failure 401 {object} echo.HTTPError
// @Router /api/bookings [get]
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	jobs, err := h.bookingService.ListJobsWithAttachments(ctx, user)
	if err != nil {
		return serviceError(ctx, h.logger, "list bookings", err)
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetBooking godoc
// @Summary Fetch a single booking
// @Tags bookings
// @Produce json
// @Param uuid path string true "Booking UUID"
// @Success 200 {object} models.Job
// @Failure 401 {object} echo.HTTPError
// @Router /api/bookings/{uuid} [get]
func (h *BookingHandlers) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()
	bookingUUID, err := pathParam(c, "uuid", "Booking UUID")
	if err != nil {
		return err
	}

	job, err := h.bookingService.GetBooking(ctx, bookingUUID)
	if err != nil {
		return serviceError(ctx, h.logger, "get booking", err)
	}
	return c.JSON(http.StatusOK, job)
}
