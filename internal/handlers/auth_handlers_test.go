package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"bookingportal/internal/common"
	"bookingportal/internal/models"
	"bookingportal/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (suite *HandlerTestSuite) TestLogin_SetsCookie() {
	result := &services.LoginResult{
		Token:          "tok-123",
		ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
		TokenExpiresAt: time.Now().Add(time.Hour),
		User:           suite.user.Public(),
	}
	suite.auth.On("Login", mock.Anything, "sam@example.com", "secret123").Return(result, nil)

	rec := suite.do(http.MethodPost, "/api/auth/login", `{"identifier":"sam@example.com","password":"secret123"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	cookie := cookieNamed(rec, testCookie)
	require.NotNil(suite.T(), cookie)
	assert.Equal(suite.T(), "tok-123", cookie.Value)
	assert.True(suite.T(), cookie.HttpOnly)
	assert.Equal(suite.T(), "/", cookie.Path)
	assert.Equal(suite.T(), int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	var body LoginResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(suite.T(), suite.user.ID, body.User.ID)
	assert.Equal(suite.T(), "tok-123", body.Token)
}

func (suite *HandlerTestSuite) TestLogin_AcceptsEmailOrPhoneField() {
	suite.auth.On("Login", mock.Anything, "0400000000", "secret123").Return(nil, common.ErrInvalidCredentials)

	rec := suite.do(http.MethodPost, "/api/auth/login", `{"phone":"0400000000","password":"secret123"}`)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *HandlerTestSuite) TestLogin_FailuresAreIndistinguishable() {
	suite.auth.On("Login", mock.Anything, "sam@example.com", "wrong").Return(nil, common.ErrInvalidCredentials)
	suite.auth.On("Login", mock.Anything, "ghost@example.com", "secret123").Return(nil, common.ErrInvalidCredentials)

	wrong := suite.do(http.MethodPost, "/api/auth/login", `{"email":"sam@example.com","password":"wrong"}`)
	ghost := suite.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"secret123"}`)

	assert.Equal(suite.T(), http.StatusNotFound, wrong.Code)
	assert.Equal(suite.T(), wrong.Code, ghost.Code)
	assert.Equal(suite.T(), wrong.Body.String(), ghost.Body.String())
	assert.Nil(suite.T(), cookieNamed(wrong, testCookie))
}

func (suite *HandlerTestSuite) TestLogin_NoExternalAccount() {
	suite.auth.On("Login", mock.Anything, "sam@example.com", "secret123").Return(nil, common.ErrExternalAccountNotFound)

	rec := suite.do(http.MethodPost, "/api/auth/login", `{"identifier":"sam@example.com","password":"secret123"}`)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Nil(suite.T(), cookieNamed(rec, testCookie))
}

func (suite *HandlerTestSuite) TestLogin_Errors() {
	suite.auth.On("Login", mock.Anything, "", "").Return(nil, common.ErrMissingCredentials)
	suite.auth.On("Login", mock.Anything, "busy@example.com", "x").Return(nil, common.ErrRateLimited)

	assert.Equal(suite.T(), http.StatusBadRequest, suite.do(http.MethodPost, "/api/auth/login", `{`).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.do(http.MethodPost, "/api/auth/login", `{}`).Code)
	assert.Equal(suite.T(), http.StatusTooManyRequests,
		suite.do(http.MethodPost, "/api/auth/login", `{"email":"busy@example.com","password":"x"}`).Code)
}

func (suite *HandlerTestSuite) TestSignup() {
	input := services.SignupInput{Name: "Sam", Email: "sam@example.com", Password: "secret123"}
	suite.auth.On("Signup", mock.Anything, input).Return(&models.User{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}, nil).Once()
	suite.auth.On("Signup", mock.Anything, input).Return(nil, common.ErrUserExists).Once()

	body := `{"name":"Sam","email":"sam@example.com","password":"secret123"}`
	rec := suite.do(http.MethodPost, "/api/auth/signup", body)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.NotContains(suite.T(), rec.Body.String(), "password")

	rec = suite.do(http.MethodPost, "/api/auth/signup", body)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
}

func (suite *HandlerTestSuite) TestLogout_WithoutCookie() {
	rec := suite.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlerTestSuite) TestLogout_ClearsCookie() {
	suite.auth.On("Logout", mock.Anything, "tok-123").Return(nil)

	rec := suite.do(http.MethodPost, "/api/auth/logout", "", &http.Cookie{Name: testCookie, Value: "tok-123"})
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	cookie := cookieNamed(rec, testCookie)
	require.NotNil(suite.T(), cookie)
	assert.Empty(suite.T(), cookie.Value)
	assert.Equal(suite.T(), -1, cookie.MaxAge)
}

func (suite *HandlerTestSuite) TestSession_Bearer() {
	token := &jwt.Token{Raw: "jwt-abc", Valid: true, Claims: &services.TokenClaims{}}
	suite.auth.On("ParseToken", "jwt-abc").Return(token, nil)
	suite.auth.On("CheckSession", mock.Anything, token).Return(suite.user, nil)

	rec := suite.doWithHeader(http.MethodGet, "/api/auth/session", "Authorization", "Bearer jwt-abc")
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var body UserResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(suite.T(), suite.user.ID, body.User.ID)
	require.NotNil(suite.T(), body.User.Sm8UUID)
	assert.Equal(suite.T(), "company-1", *body.User.Sm8UUID)
}

func (suite *HandlerTestSuite) TestSession_CookieRevoked() {
	token := &jwt.Token{Raw: "jwt-abc", Valid: true, Claims: &services.TokenClaims{}}
	suite.auth.On("ParseToken", "jwt-abc").Return(token, nil)
	suite.auth.On("CheckSession", mock.Anything, token).Return(nil, common.ErrSessionNotFound)

	rec := suite.do(http.MethodGet, "/api/auth/session", "", &http.Cookie{Name: testCookie, Value: "jwt-abc"})
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *HandlerTestSuite) TestSession_InvalidOrMissingToken() {
	suite.auth.On("ParseToken", "expired").Return(nil, jwt.ErrTokenExpired)

	assert.Equal(suite.T(), http.StatusUnauthorized, suite.do(http.MethodGet, "/api/auth/session", "").Code)
	assert.Equal(suite.T(), http.StatusUnauthorized,
		suite.doWithHeader(http.MethodGet, "/api/auth/session", "Authorization", "Bearer expired").Code)
}
