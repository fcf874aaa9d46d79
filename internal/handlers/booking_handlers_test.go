package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"bookingportal/internal/common"
	"bookingportal/internal/models"
	"bookingportal/internal/servicem8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (suite *HandlerTestSuite) TestProtectedRoutesRequireSession() {
	suite.auth.On("Authenticate", mock.Anything, "revoked").Return(nil, common.ErrSessionNotFound)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/bookings"},
		{http.MethodGet, "/api/bookings/job-1"},
		{http.MethodGet, "/api/bookings/attachments/att-1"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/messages/job-1"},
		{http.MethodPost, "/api/messages/job-1"},
	}
	for _, r := range routes {
		rec := suite.do(r.method, r.path, "")
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code, "%s %s without cookie", r.method, r.path)

		rec = suite.do(r.method, r.path, "", &http.Cookie{Name: testCookie, Value: "revoked"})
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code, "%s %s with revoked cookie", r.method, r.path)
	}
}

func (suite *HandlerTestSuite) TestListBookings() {
	cookie := suite.authed("tok")
	jobs := []models.JobWithAttachments{{
		Job:         models.Job{UUID: "job-1", Status: "Quote"},
		Attachments: []models.Attachment{{UUID: "att-1", AttachmentName: "photo.jpg"}},
	}}
	suite.bookings.On("ListJobsWithAttachments", mock.Anything, suite.user).Return(jobs, nil)

	rec := suite.do(http.MethodGet, "/api/bookings", "", cookie)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var body []models.JobWithAttachments
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(suite.T(), jobs, body)
}

func (suite *HandlerTestSuite) TestListBookings_TrailingSlash() {
	cookie := suite.authed("tok")
	suite.bookings.On("ListJobsWithAttachments", mock.Anything, suite.user).Return([]models.JobWithAttachments{}, nil)

	rec := suite.do(http.MethodGet, "/api/bookings/", "", cookie)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *HandlerTestSuite) TestListBookings_NoLinkedAccount() {
	cookie := suite.authed("tok")
	suite.bookings.On("ListJobsWithAttachments", mock.Anything, suite.user).Return(nil, common.ErrNoLinkedAccount)

	rec := suite.do(http.MethodGet, "/api/bookings", "", cookie)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlerTestSuite) TestListBookings_UpstreamFailureIsGeneric500() {
	cookie := suite.authed("tok")
	upstream := &servicem8.APIError{StatusCode: http.StatusUnauthorized, Body: []byte("bad api key")}
	suite.bookings.On("ListJobsWithAttachments", mock.Anything, suite.user).Return(nil, upstream)

	rec := suite.do(http.MethodGet, "/api/bookings", "", cookie)
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.NotContains(suite.T(), rec.Body.String(), "bad api key")
}

func (suite *HandlerTestSuite) TestGetBooking() {
	cookie := suite.authed("tok")
	suite.bookings.On("GetBooking", mock.Anything, "job-1").Return(&models.Job{UUID: "job-1", JobDescription: "Fix leak"}, nil)

	rec := suite.do(http.MethodGet, "/api/bookings/job-1", "", cookie)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"job_description":"Fix leak"`)
}

func (suite *HandlerTestSuite) TestGetAttachment_Streams() {
	cookie := suite.authed("tok")
	suite.attachments.On("Open", mock.Anything, "att-1").Return(&servicem8.AttachmentFile{
		Body:          io.NopCloser(strings.NewReader("%PDF-1.4")),
		ContentType:   "application/pdf",
		ContentLength: 8,
	}, nil)

	rec := suite.do(http.MethodGet, "/api/bookings/attachments/att-1", "", cookie)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(suite.T(), "8", rec.Header().Get("Content-Length"))
	assert.Equal(suite.T(), "%PDF-1.4", rec.Body.String())
}

func (suite *HandlerTestSuite) TestGetAttachment_ForwardsUpstreamError() {
	cookie := suite.authed("tok")
	upstream := &servicem8.APIError{
		StatusCode:  http.StatusForbidden,
		ContentType: "application/json",
		Body:        []byte(`{"errorCode":403,"message":"Access denied"}`),
	}
	suite.attachments.On("Open", mock.Anything, "att-1").Return(nil, upstream)

	rec := suite.do(http.MethodGet, "/api/bookings/attachments/att-1", "", cookie)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	assert.Equal(suite.T(), "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(suite.T(), `{"errorCode":403,"message":"Access denied"}`, rec.Body.String())
}

func (suite *HandlerTestSuite) TestGetAttachment_TransportFailure() {
	cookie := suite.authed("tok")
	suite.attachments.On("Open", mock.Anything, "att-1").Return(nil, errors.New("dial tcp: timeout"))

	rec := suite.do(http.MethodGet, "/api/bookings/attachments/att-1", "", cookie)
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
}

func (suite *HandlerTestSuite) TestSendMessage() {
	cookie := suite.authed("tok")
	msg := &models.BookingMessage{
		BookingUUID:        "job-1",
		BookingDescription: "Fix leak",
		BookingStatus:      "Quote",
		UserID:             suite.user.ID,
		Message:            "hello",
		CreatedAt:          time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	suite.bookings.On("SendMessage", mock.Anything, suite.user, "job-1", "hello").Return(msg, nil)

	rec := suite.do(http.MethodPost, "/api/messages/job-1", `{"message":"hello"}`, cookie)
	require.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"bookingDescription":"Fix leak"`)
	assert.Contains(suite.T(), rec.Body.String(), `"bookingStatus":"Quote"`)
}

func (suite *HandlerTestSuite) TestSendMessage_Empty() {
	cookie := suite.authed("tok")
	suite.bookings.On("SendMessage", mock.Anything, suite.user, "job-1", "").Return(nil, common.ErrEmptyMessage)

	rec := suite.do(http.MethodPost, "/api/messages/job-1", `{"message":""}`, cookie)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlerTestSuite) TestListMessages() {
	cookie := suite.authed("tok")
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []*models.BookingMessageWithAuthor{
		{BookingMessage: models.BookingMessage{BookingUUID: "job-1", Message: "first", CreatedAt: t0}, Author: models.MessageAuthor{ID: suite.user.ID, Name: "Sam Carter"}},
		{BookingMessage: models.BookingMessage{BookingUUID: "job-1", Message: "second", CreatedAt: t0.Add(time.Minute)}, Author: models.MessageAuthor{ID: suite.user.ID, Name: "Sam Carter"}},
	}
	suite.bookings.On("ListMessages", mock.Anything, "job-1").Return(messages, nil)

	rec := suite.do(http.MethodGet, "/api/messages/job-1", "", cookie)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var body []models.BookingMessageWithAuthor
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(suite.T(), body, 2)
	assert.Equal(suite.T(), "first", body[0].Message)
	assert.Equal(suite.T(), "second", body[1].Message)
	assert.Equal(suite.T(), "Sam Carter", body[0].Author.Name)
}

func (suite *HandlerTestSuite) TestListMessageBookings() {
	cookie := suite.authed("tok")
	summaries := []models.BookingSummary{{BookingUUID: "job-2"}, {BookingUUID: "job-1"}}
	suite.bookings.On("ListBookingSummaries", mock.Anything, suite.user.ID).Return(summaries, nil)

	rec := suite.do(http.MethodGet, "/api/messages", "", cookie)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var body []models.BookingSummary
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(suite.T(), []string{"job-2", "job-1"}, []string{body[0].BookingUUID, body[1].BookingUUID})
}
