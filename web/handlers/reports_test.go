package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

func TestAnalysesReportEndpoint(t *testing.T) {
	det := &stubDetector{detections: []models.Detection{{Label: "crack", Confidence: 0.9}}}
	r := newTestRouter(t, det)
	accountID := registerTestAccount(t, r)

	w := uploadTestFile(t, r, accountID, "blade.jpg")
	require.Equal(t, http.StatusCreated, w.Code)
	uploadID := uint(decodeData(t, w)["id"].(float64))

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/api/analyze/%d", uploadID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/reports/analyses?account_id=%d", accountID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "analyses.xlsx")

	report, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer report.Close()

	rows, err := report.GetRows("Analyses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "blade.jpg", rows[1][1])
	assert.Equal(t, "crack", rows[1][9])
}

func TestAnalysesReportRequiresAccountID(t *testing.T) {
	r := newTestRouter(t, &stubDetector{})

	w := performJSON(t, r, http.MethodGet, "/api/reports/analyses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
