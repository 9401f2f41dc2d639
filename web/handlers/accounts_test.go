package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "inspector",
		"email":    "inspector@windsightai.io",
		"password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(t, w)
	assert.Equal(t, "inspector", created["username"])
	assert.NotContains(t, w.Body.String(), "password")

	w = performJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"username": "inspector",
		"password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	logged := decodeData(t, w)
	assert.NotEmpty(t, logged["token"])

	// the token works against the protected surface
	token := logged["token"].(string)
	req, w2 := authedRequest(t, token)
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
	assert.Equal(t, "inspector", decodeData(t, w2)["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})
	registerTestAccount(t, r)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "inspector", "Wrong!pass1"},
		{"unknown user", "nobody", "Str0ng!pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, r, http.MethodPost, "/api/login", gin.H{
				"username": tt.username,
				"password": tt.password,
			})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "invalid username or password", decodeMessage(t, w))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})
	registerTestAccount(t, r)

	w := performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "inspector",
		"email":    "other@windsightai.io",
		"password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "username")
}

func TestRegisterMissingFields(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "inspector",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUsernameLengthBounds(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "ab",
		"email":    "ab@windsightai.io",
		"password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "at least 3")

	w = performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": strings.Repeat("a", 81),
		"email":    "long@windsightai.io",
		"password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "at most 80")
}

func TestMeRequiresToken(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, w2 := authedRequest(t, "not-a-token")
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}
