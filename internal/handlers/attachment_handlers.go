package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bookingportal/internal/logging"
	"bookingportal/internal/servicem8"
	"bookingportal/internal/services"

	"github.com/labstack/echo/v4"
)

// AttachmentHandlers streams attachment files
type AttachmentHandlers struct {
	attachmentService services.AttachmentService
	logger            logging.Logger
}

func NewAttachmentHandlers(attachmentService services.AttachmentService, logger logging.Logger) *AttachmentHandlers {
	return &AttachmentHandlers{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// GetAttachment godoc
// @Summary Download an attachment
// @Description Upstream errors are returned with the upstream status and body.
// @Tags bookings
// @Produce octet-stream
// @Param uuid path string true "Attachment UUID"
// @Success 200 {file} binary
// @Failure 401 {object} echo.HTTPError
// @Router /api/bookings/attachments/{uuid} [get]
func (h *AttachmentHandlers) GetAttachment(c echo.Context) error {
	ctx := c.Request().Context()
	attachmentUUID, err := pathParam(c, "uuid", "Attachment UUID")
	if err != nil {
		return err
	}

	file, err := h.attachmentService.Open(ctx, attachmentUUID)
	if err != nil {
		var apiErr *servicem8.APIError
		if errors.As(err, &apiErr) {
			contentType := apiErr.ContentType
			if contentType == "" {
				contentType = echo.MIMETextPlainCharsetUTF8
			}
			return c.Blob(apiErr.StatusCode, contentType, apiErr.Body)
		}
		return serviceError(ctx, h.logger, "fetch attachment", err)
	}
	defer file.Body.Close()

	if file.ContentLength >= 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(file.ContentLength, 10))
	}
	return c.Stream(http.StatusOK, file.ContentType, file.Body)
}
