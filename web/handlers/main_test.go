package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
)

type stubDetector struct {
	detections []models.Detection
	err        error
}

func (d *stubDetector) Detect(_ context.Context, _ string, renderPath string) ([]models.Detection, error) {
	if d.err != nil {
		return nil, d.err
	}
	if err := os.WriteFile(renderPath, []byte("annotated"), 0o644); err != nil {
		return nil, err
	}
	return d.detections, nil
}

func newTestRouter(t *testing.T, det core.Detector) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dm, err := core.NewSQLite(filepath.Join(t.TempDir(), "test.db"), core.LogLevelSilent)
	require.NoError(t, err)
	require.NoError(t, dm.Migrate())
	t.Cleanup(func() { dm.Close() })

	uploadDir := t.TempDir()
	outputDir := t.TempDir()

	ep := &Endpoint{
		Dm: dm,
		Orc: &core.Orchestrator{
			UploadDir: uploadDir,
			OutputDir: outputDir,
			Detector:  det,
		},
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}

	r := gin.New()
	Register(r.Group("/api"), ep)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authedRequest(t *testing.T, token string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Message
}

// registerTestAccount goes through the API so handler tests exercise the
// same path a client would.
func registerTestAccount(t *testing.T, r *gin.Engine) uint {
	t.Helper()
	w := performJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "inspector",
		"email":    "inspector@windsightai.io",
		"password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeData(t, w)["id"].(float64))
}

func uploadTestFile(t *testing.T, r *gin.Engine, accountID uint, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("account_id", strconv.FormatUint(uint64(accountID), 10)))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake media bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
