package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

// stubDetector writes a fake render and returns canned detections.
type stubDetector struct {
	detections []models.Detection
	err        error
	calls      int
}

func (d *stubDetector) Detect(ctx context.Context, sourcePath, renderPath string) ([]models.Detection, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if err := os.MkdirAll(filepath.Dir(renderPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(renderPath, []byte("annotated"), 0o644); err != nil {
		return nil, err
	}
	return d.detections, nil
}

func newTestOrchestrator(t *testing.T, det Detector) *Orchestrator {
	t.Helper()
	base := t.TempDir()
	return &Orchestrator{
		UploadDir: filepath.Join(base, "uploads"),
		OutputDir: filepath.Join(base, "output"),
		Detector:  det,
	}
}

func createTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	account, err := RegisterAccount(db, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "Abc12345!",
	})
	require.NoError(t, err)
	return account
}

func TestSubmitUploadStoresFileAndRow(t *testing.T) {
	db := newTestDB(t)
	orc := newTestOrchestrator(t, &stubDetector{})
	account := createTestAccount(t, db)

	upload, err := orc.SubmitUpload(db, account.ID, "blade.jpg", strings.NewReader("imagebytes"), 10)
	require.NoError(t, err)

	assert.NotZero(t, upload.ID)
	assert.Equal(t, "blade.jpg", upload.Filename)
	assert.True(t, strings.HasPrefix(upload.StoredName, "blade_"))
	assert.True(t, strings.HasSuffix(upload.StoredName, ".jpg"))
	assert.Equal(t, "jpg", upload.MediaType)
	assert.Equal(t, int64(10), upload.SizeBytes)

	data, err := os.ReadFile(upload.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, "imagebytes", string(data))
}

func TestSubmitUploadStoredNamesDoNotCollide(t *testing.T) {
	db := newTestDB(t)
	orc := newTestOrchestrator(t, &stubDetector{})
	account := createTestAccount(t, db)

	first, err := orc.SubmitUpload(db, account.ID, "blade.jpg", strings.NewReader("a"), 1)
	require.NoError(t, err)
	second, err := orc.SubmitUpload(db, account.ID, "blade.jpg", strings.NewReader("b"), 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.StoredName, second.StoredName)
}

func TestSubmitUploadRejectsDisallowedSuffix(t *testing.T) {
	db := newTestDB(t)
	orc := newTestOrchestrator(t, &stubDetector{})
	account := createTestAccount(t, db)

	_, err := orc.SubmitUpload(db, account.ID, "malware.exe", strings.NewReader("x"), 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// no file and no row may exist after the rejection
	entries, _ := os.ReadDir(orc.UploadDir)
	assert.Empty(t, entries)
	var count int64
	db.Model(&models.Upload{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitUploadValidation(t *testing.T) {
	db := newTestDB(t)
	orc := newTestOrchestrator(t, &stubDetector{})
	account := createTestAccount(t, db)

	_, err := orc.SubmitUpload(db, 0, "blade.jpg", strings.NewReader("x"), 1)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = orc.SubmitUpload(db, account.ID, "", nil, 0)
	assert.ErrorAs(t, err, &ve)

	_, err = orc.SubmitUpload(db, account.ID+99, "blade.jpg", strings.NewReader("x"), 1)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListUploadsNestsAnalyses(t *testing.T) {
	db := newTestDB(t)
	det := &stubDetector{detections: []models.Detection{
		{Label: "crack", Confidence: 0.91, Box: models.Box{X: 10, Y: 20, Width: 30, Height: 40}},
	}}
	orc := newTestOrchestrator(t, det)
	account := createTestAccount(t, db)

	upload, err := orc.SubmitUpload(db, account.ID, "blade.jpg", strings.NewReader("x"), 1)
	require.NoError(t, err)
	_, err = orc.Analyze(context.Background(), db, upload.ID)
	require.NoError(t, err)

	uploads, err := ListUploads(db, account.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	require.Len(t, uploads[0].Analyses, 1)
	assert.Equal(t, models.AnalysisCompleted, uploads[0].Analyses[0].Status)

	_, err = ListUploads(db, 0)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
