package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-admin-api/internal/models"
	"github.com/campuskit/campus-admin-api/internal/service"
)

const testSecret = "test-secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Minute,
	})
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "usr-1",
		Role:   models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func performAuth(t *testing.T, mw gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	mw(c)
	return rec, c
}

func TestJWTAttachesClaims(t *testing.T) {
	_, c := performAuth(t, JWT(testAuthService()), "Bearer "+signedToken(t, testSecret))

	assert.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	assert.Equal(t, "usr-1", value.(*models.JWTClaims).UserID)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	rec, c := performAuth(t, JWT(testAuthService()), "")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsBadSignature(t *testing.T) {
	rec, c := performAuth(t, JWT(testAuthService()), "Bearer "+signedToken(t, "other-secret"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAttachesClaimsWhenPresent(t *testing.T) {
	_, c := performAuth(t, OptionalJWT(testAuthService()), "Bearer "+signedToken(t, testSecret))

	assert.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	assert.Equal(t, models.RoleStudent, value.(*models.JWTClaims).Role)
}

func TestOptionalJWTPassesWithoutToken(t *testing.T) {
	_, c := performAuth(t, OptionalJWT(testAuthService()), "")

	assert.False(t, c.IsAborted())
	_, exists := c.Get(ContextUserKey)
	assert.False(t, exists)
}

func TestOptionalJWTIgnoresInvalidToken(t *testing.T) {
	_, c := performAuth(t, OptionalJWT(testAuthService()), "Bearer "+signedToken(t, "other-secret"))

	assert.False(t, c.IsAborted())
	_, exists := c.Get(ContextUserKey)
	assert.False(t, exists)
}
