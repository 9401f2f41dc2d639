package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

func TestSubscriptionFlow(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})
	accountID := registerTestAccount(t, r)

	w := performJSON(t, r, http.MethodPost, "/api/subscribe", gin.H{
		"account_id": accountID,
		"plan_type":  "pro",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(t, w)
	assert.Equal(t, models.SubscriptionActive, created["status"])
	subscriptionID := uint(created["id"].(float64))

	// a second active subscription is refused
	w = performJSON(t, r, http.MethodPost, "/api/subscribe", gin.H{
		"account_id": accountID,
		"plan_type":  "basic",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "active subscription")

	w = performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subscription/%d", accountID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pro", decodeData(t, w)["planType"])

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/cancel_subscription/%d", subscriptionID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.SubscriptionCancelled, decodeData(t, w)["status"])

	w = performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/subscription/%d", accountID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no active subscription found", decodeMessage(t, w))
}

func TestSubscribeUnknownAccount(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/subscribe", gin.H{
		"account_id": 999,
		"plan_type":  "pro",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeMissingFields(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/subscribe", gin.H{"plan_type": "pro"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelUnknownSubscriptionHTTP(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodPost, "/api/cancel_subscription/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
